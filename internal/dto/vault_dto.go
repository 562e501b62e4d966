package dto

import "github.com/themessagevault/vault-backend/internal/models"

type ModerationCheckRequest struct {
	Text string `json:"text"`
}

type LeaveMessageRequest struct {
	Text    string `json:"text"`
	Signoff string `json:"signoff"`
	Tag     string `json:"tag"`
}

type HeartResponse struct {
	Hearts int `json:"hearts"`
}

type ResolveMessageRequest struct {
	Action string `json:"action"`
}

type ReportedMessagesResponse struct {
	Messages []models.Message `json:"messages"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

type LightCandleRequest struct {
	Situation string `json:"situation"`
	Category  string `json:"category"`
}

type CandleMessageRequest struct {
	Message string `json:"message"`
}

type AddSupporterRequest struct {
	Name    string `json:"name"`
	Tier    string `json:"tier"`
	Message string `json:"message"`
}
