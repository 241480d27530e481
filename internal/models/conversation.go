package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation lifecycle statuses
const (
	ConversationActive    = "active"
	ConversationCompleted = "completed"
	ConversationExpired   = "expired"
)

// Conversation tracks one honeypot conversation with a suspected scammer.
// ConversationID is the externally visible identifier (caller-supplied or
// generated); the gorm primary key stays internal.
type Conversation struct {
	gorm.Model
	ConversationID string    `json:"conversation_id" gorm:"uniqueIndex;not null"`
	APIKeyHash     string    `json:"-" gorm:"index"`
	ScamDetected   bool      `json:"scam_detected" gorm:"default:false"`
	AgentActive    bool      `json:"agent_active" gorm:"default:false"`
	TurnCount      int       `json:"turn_count" gorm:"default:0"`
	Status         string    `json:"status" gorm:"default:active"`
	LastMessageAt  time.Time `json:"last_message_at"`
}
