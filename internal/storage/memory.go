package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/scamshield/honeypot-backend/internal/models"
)

// MemoryStore holds all data in memory (tests and USE_MEMORY_STORE mode).
type MemoryStore struct {
	conversations map[string]*models.Conversation
	messages      map[string][]*models.Message
	intelligence  map[string][]*models.IntelligenceItem
	apiKeys       map[string]*models.APIKey

	// Mutexes for thread safety
	convMu    sync.RWMutex
	messageMu sync.RWMutex
	intelMu   sync.RWMutex
	keyMu     sync.RWMutex

	messageCounter uint
	intelCounter   uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]*models.Conversation),
		messages:      make(map[string][]*models.Message),
		intelligence:  make(map[string][]*models.IntelligenceItem),
		apiKeys:       make(map[string]*models.APIKey),
	}
}

// Conversation operations

func (m *MemoryStore) GetOrCreateConversation(conversationID, apiKeyHash string) (*models.Conversation, error) {
	m.convMu.Lock()
	defer m.convMu.Unlock()

	if conv, exists := m.conversations[conversationID]; exists {
		return copyConversation(conv), nil
	}

	conv := &models.Conversation{
		ConversationID: conversationID,
		APIKeyHash:     apiKeyHash,
		Status:         models.ConversationActive,
		LastMessageAt:  time.Now(),
	}
	conv.ID = uint(len(m.conversations) + 1)
	conv.CreatedAt = time.Now()
	m.conversations[conversationID] = conv
	return copyConversation(conv), nil
}

func (m *MemoryStore) GetConversation(conversationID string) (*models.Conversation, error) {
	m.convMu.RLock()
	defer m.convMu.RUnlock()

	conv, exists := m.conversations[conversationID]
	if !exists {
		return nil, fmt.Errorf("conversation not found")
	}
	return copyConversation(conv), nil
}

func (m *MemoryStore) GetAllConversations() ([]*models.Conversation, error) {
	m.convMu.RLock()
	defer m.convMu.RUnlock()

	conversations := make([]*models.Conversation, 0, len(m.conversations))
	for _, conv := range m.conversations {
		conversations = append(conversations, copyConversation(conv))
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].CreatedAt.After(conversations[j].CreatedAt)
	})
	return conversations, nil
}

func (m *MemoryStore) MarkScamDetected(conversationID string) error {
	m.convMu.Lock()
	defer m.convMu.Unlock()

	conv, exists := m.conversations[conversationID]
	if !exists {
		return fmt.Errorf("conversation not found")
	}
	conv.ScamDetected = true
	conv.AgentActive = true
	conv.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) IncrementTurnCount(conversationID string) (int, error) {
	m.convMu.Lock()
	defer m.convMu.Unlock()

	conv, exists := m.conversations[conversationID]
	if !exists {
		return 0, fmt.Errorf("conversation not found")
	}
	conv.TurnCount++
	conv.LastMessageAt = time.Now()
	conv.UpdatedAt = time.Now()
	return conv.TurnCount, nil
}

func (m *MemoryStore) UpdateConversationStatus(conversationID, status string) error {
	m.convMu.Lock()
	defer m.convMu.Unlock()

	conv, exists := m.conversations[conversationID]
	if !exists {
		return fmt.Errorf("conversation not found")
	}
	conv.Status = status
	conv.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) GetStaleActiveConversations(cutoff time.Time) ([]*models.Conversation, error) {
	m.convMu.RLock()
	defer m.convMu.RUnlock()

	var stale []*models.Conversation
	for _, conv := range m.conversations {
		if conv.Status == models.ConversationActive && conv.LastMessageAt.Before(cutoff) {
			stale = append(stale, copyConversation(conv))
		}
	}
	return stale, nil
}

// Message operations

func (m *MemoryStore) CreateMessage(msg *models.Message) error {
	m.messageMu.Lock()
	defer m.messageMu.Unlock()

	m.messageCounter++
	msg.ID = m.messageCounter
	msg.CreatedAt = time.Now()
	msg.UpdatedAt = msg.CreatedAt

	stored := *msg
	m.messages[msg.ConversationID] = append(m.messages[msg.ConversationID], &stored)
	return nil
}

func (m *MemoryStore) GetMessagesByConversation(conversationID string) ([]*models.Message, error) {
	m.messageMu.RLock()
	defer m.messageMu.RUnlock()

	stored := m.messages[conversationID]
	messages := make([]*models.Message, 0, len(stored))
	for _, msg := range stored {
		copied := *msg
		messages = append(messages, &copied)
	}
	return messages, nil
}

// Intelligence operations

func (m *MemoryStore) SaveIntelligenceItems(items []*models.IntelligenceItem) error {
	m.intelMu.Lock()
	defer m.intelMu.Unlock()

	for _, item := range items {
		if m.hasIntelligence(item.ConversationID, item.Type, item.Value) {
			continue
		}
		m.intelCounter++
		stored := *item
		stored.ID = m.intelCounter
		stored.CreatedAt = time.Now()
		m.intelligence[item.ConversationID] = append(m.intelligence[item.ConversationID], &stored)
	}
	return nil
}

func (m *MemoryStore) hasIntelligence(conversationID, intelType, value string) bool {
	for _, item := range m.intelligence[conversationID] {
		if item.Type == intelType && item.Value == value {
			return true
		}
	}
	return false
}

func (m *MemoryStore) GetIntelligenceByConversation(conversationID string) ([]*models.IntelligenceItem, error) {
	m.intelMu.RLock()
	defer m.intelMu.RUnlock()

	stored := m.intelligence[conversationID]
	items := make([]*models.IntelligenceItem, 0, len(stored))
	for _, item := range stored {
		copied := *item
		items = append(items, &copied)
	}
	return items, nil
}

// API key operations

func (m *MemoryStore) GetActiveAPIKey(keyHash string) (*models.APIKey, error) {
	m.keyMu.RLock()
	defer m.keyMu.RUnlock()

	key, exists := m.apiKeys[keyHash]
	if !exists || !key.IsActive {
		return nil, fmt.Errorf("api key not found")
	}
	copied := *key
	return &copied, nil
}

func (m *MemoryStore) RecordAPIKeyUsage(keyHash string) error {
	m.keyMu.Lock()
	defer m.keyMu.Unlock()

	key, exists := m.apiKeys[keyHash]
	if !exists {
		return fmt.Errorf("api key not found")
	}
	now := time.Now()
	key.RequestsCount++
	key.LastUsedAt = &now
	return nil
}

// SeedAPIKey registers a key hash directly (tests and local development).
func (m *MemoryStore) SeedAPIKey(key *models.APIKey) {
	m.keyMu.Lock()
	defer m.keyMu.Unlock()

	key.ID = uint(len(m.apiKeys) + 1)
	key.CreatedAt = time.Now()
	m.apiKeys[key.KeyHash] = key
}

// Dashboard operations

func (m *MemoryStore) GetStats() (*models.HoneypotStats, error) {
	m.convMu.RLock()
	stats := &models.HoneypotStats{
		TotalConversations: int64(len(m.conversations)),
		IntelligenceByType: make(map[string]int64),
	}
	for _, conv := range m.conversations {
		if conv.ScamDetected {
			stats.ScamsDetected++
		}
		if conv.AgentActive {
			stats.ActiveAgents++
		}
		stats.TotalTurns += int64(conv.TurnCount)
	}
	m.convMu.RUnlock()

	m.intelMu.RLock()
	for _, items := range m.intelligence {
		for _, item := range items {
			stats.IntelligenceByType[item.Type]++
		}
	}
	m.intelMu.RUnlock()

	return stats, nil
}

func copyConversation(conv *models.Conversation) *models.Conversation {
	copied := *conv
	return &copied
}
