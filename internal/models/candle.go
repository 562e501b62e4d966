package models

import (
	"time"

	"github.com/google/uuid"
)

// Candle status values.
const (
	CandleActive  = "active"
	CandleExpired = "expired"
)

// Support types a visitor can send to a candle.
const (
	SupportLight   = "light"
	SupportMessage = "message"
)

// CandleCategories are the situations a visitor can light a candle for.
var CandleCategories = []string{
	"grief", "anxiety", "health", "relationships", "family",
	"work", "financial", "loneliness", "addiction", "other",
}

// Candle is a request for support that stays lit for a limited time.
type Candle struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Situation        string    `gorm:"type:text;not null" json:"situation"`
	Category         string    `gorm:"size:30;not null;index" json:"category"`
	SessionHash      string    `gorm:"size:64;index" json:"-"`
	LightsSent       int       `gorm:"not null;default:0" json:"lights_sent"`
	MessagesReceived int       `gorm:"not null;default:0" json:"messages_received"`
	Status           string    `gorm:"size:20;not null;default:'active';index" json:"status"`
	ExpiresAt        time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CandleSupport is one light or message sent to a candle. A session may
// support each candle once.
type CandleSupport struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CandleID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_candle_support_candle_session,priority:1" json:"candle_id"`
	SessionHash string    `gorm:"size:64;not null;uniqueIndex:idx_candle_support_candle_session,priority:2" json:"-"`
	SupportType string    `gorm:"size:10;not null" json:"support_type"`
	Message     string    `gorm:"type:text" json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
