package models

import "gorm.io/gorm"

// Message roles
const (
	RoleScammer = "scammer"
	RoleAgent   = "agent"
	RoleSystem  = "system"
)

// Message is a single turn in a conversation. CreatedAt (from gorm.Model) is
// the ordering key when rebuilding history.
type Message struct {
	gorm.Model
	ConversationID string `json:"conversation_id" gorm:"index;not null"`
	Role           string `json:"role" gorm:"not null"`
	Content        string `json:"content" gorm:"not null"`
}
