package models

import (
	"time"

	"github.com/google/uuid"
)

// SupporterTiers are the subscription levels shown on the supporter wall.
var SupporterTiers = []string{"kindness", "compassion", "healing"}

// Supporter is a subscriber who chose to appear on the supporter wall.
type Supporter struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Tier      string    `gorm:"size:20;not null;index" json:"tier"`
	Message   string    `gorm:"size:500" json:"message,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"joined_date"`
}
