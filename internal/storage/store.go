package storage

import (
	"time"

	"github.com/scamshield/honeypot-backend/internal/models"
)

var storeInstance Store

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations. Implementations must
// make GetOrCreateConversation race-safe, MarkScamDetected and
// IncrementTurnCount targeted updates (no read-modify-write), and
// SaveIntelligenceItems an idempotent upsert on (conversation, type, value).
type Store interface {
	// Conversation operations
	GetOrCreateConversation(conversationID, apiKeyHash string) (*models.Conversation, error)
	GetConversation(conversationID string) (*models.Conversation, error)
	GetAllConversations() ([]*models.Conversation, error)
	MarkScamDetected(conversationID string) error
	IncrementTurnCount(conversationID string) (int, error)
	UpdateConversationStatus(conversationID, status string) error
	GetStaleActiveConversations(cutoff time.Time) ([]*models.Conversation, error)

	// Message operations
	CreateMessage(msg *models.Message) error
	GetMessagesByConversation(conversationID string) ([]*models.Message, error)

	// Intelligence operations
	SaveIntelligenceItems(items []*models.IntelligenceItem) error
	GetIntelligenceByConversation(conversationID string) ([]*models.IntelligenceItem, error)

	// API key operations
	GetActiveAPIKey(keyHash string) (*models.APIKey, error)
	RecordAPIKeyUsage(keyHash string) error

	// Dashboard operations
	GetStats() (*models.HoneypotStats, error)
}
