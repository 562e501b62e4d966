package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message status values.
const (
	MessageActive   = "active"
	MessageReported = "reported"
	MessageRemoved  = "removed"
)

// MessageTags are the categories a visitor can attach to a message.
var MessageTags = []string{
	"Encouragement", "Loss", "Hope", "Starting over",
	"Healing", "Self-love", "Courage", "Gratitude",
}

// DefaultSignoffs are used when a visitor leaves the signoff blank.
var DefaultSignoffs = []string{
	"From someone who gets it",
	"From a stranger who cares",
	"From someone healing",
	"From a fellow traveler",
	"From someone who believes in you",
	"From the quiet corner of hope",
}

// Message is an approved note left in the vault for a stranger to take.
type Message struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	Signoff     string         `gorm:"size:100;not null" json:"signoff"`
	Tag         string         `gorm:"size:30;not null;index" json:"tag"`
	Hearts      int            `gorm:"not null;default:0" json:"hearts"`
	Status      string         `gorm:"size:20;not null;default:'active';index:idx_messages_status_created,priority:1" json:"status"`
	SessionHash string         `gorm:"size:64;index" json:"-"`
	ReportCount int            `gorm:"not null;default:0" json:"-"`
	CreatedAt   time.Time      `gorm:"index:idx_messages_status_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// MessageHeart records that a session hearted a message, once per pair.
type MessageHeart struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MessageID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_message_hearts_message_session,priority:1" json:"message_id"`
	SessionHash string    `gorm:"size:64;not null;uniqueIndex:idx_message_hearts_message_session,priority:2" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
