package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Redis     string `json:"redis"`
}

// OptionsResponse lists the choices the client renders in its forms.
type OptionsResponse struct {
	MessageTags      []string `json:"message_tags"`
	Signoffs         []string `json:"signoffs"`
	CandleCategories []string `json:"candle_categories"`
	SupporterTiers   []string `json:"supporter_tiers"`
	MinLength        int      `json:"min_length"`
	MaxLength        int      `json:"max_length"`
	MaxSignoffLength int      `json:"max_signoff_length"`
}
