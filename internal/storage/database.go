package storage

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/scamshield/honeypot-backend/internal/models"
)

// DatabaseStore implements Store on PostgreSQL via GORM.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed storage
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Conversation operations

// GetOrCreateConversation inserts with ON CONFLICT DO NOTHING and re-reads,
// so duplicate creates racing on the same id converge to one record.
func (d *DatabaseStore) GetOrCreateConversation(conversationID, apiKeyHash string) (*models.Conversation, error) {
	conv := &models.Conversation{
		ConversationID: conversationID,
		APIKeyHash:     apiKeyHash,
		Status:         models.ConversationActive,
		LastMessageAt:  time.Now(),
	}
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}},
		DoNothing: true,
	}).Create(conv).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return d.GetConversation(conversationID)
}

func (d *DatabaseStore) GetConversation(conversationID string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := d.db.Where("conversation_id = ?", conversationID).First(&conv).Error; err != nil {
		return nil, fmt.Errorf("conversation not found: %w", err)
	}
	return &conv, nil
}

func (d *DatabaseStore) GetAllConversations() ([]*models.Conversation, error) {
	var conversations []*models.Conversation
	if err := d.db.Order("created_at DESC").Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

// MarkScamDetected flips both flags in one targeted update keyed by the
// conversation id. The flags only ever go false -> true.
func (d *DatabaseStore) MarkScamDetected(conversationID string) error {
	result := d.db.Model(&models.Conversation{}).
		Where("conversation_id = ?", conversationID).
		Updates(map[string]interface{}{
			"scam_detected": true,
			"agent_active":  true,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("conversation not found")
	}
	return nil
}

// IncrementTurnCount bumps the counter atomically in the database and returns
// the new value, avoiding lost updates between interleaved turns.
func (d *DatabaseStore) IncrementTurnCount(conversationID string) (int, error) {
	var conv models.Conversation
	result := d.db.Model(&conv).
		Clauses(clause.Returning{}).
		Where("conversation_id = ?", conversationID).
		Updates(map[string]interface{}{
			"turn_count":      gorm.Expr("turn_count + ?", 1),
			"last_message_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("conversation not found")
	}
	return conv.TurnCount, nil
}

func (d *DatabaseStore) UpdateConversationStatus(conversationID, status string) error {
	result := d.db.Model(&models.Conversation{}).
		Where("conversation_id = ?", conversationID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("conversation not found")
	}
	return nil
}

func (d *DatabaseStore) GetStaleActiveConversations(cutoff time.Time) ([]*models.Conversation, error) {
	var conversations []*models.Conversation
	err := d.db.Where("status = ? AND last_message_at < ?", models.ConversationActive, cutoff).
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// Message operations

func (d *DatabaseStore) CreateMessage(msg *models.Message) error {
	return d.db.Create(msg).Error
}

func (d *DatabaseStore) GetMessagesByConversation(conversationID string) ([]*models.Message, error) {
	var messages []*models.Message
	err := d.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Intelligence operations

// SaveIntelligenceItems upserts against the (conversation, type, value)
// unique index; re-delivered artifacts are silently skipped.
func (d *DatabaseStore) SaveIntelligenceItems(items []*models.IntelligenceItem) error {
	if len(items) == 0 {
		return nil
	}
	return d.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "conversation_id"}, {Name: "type"}, {Name: "value"},
		},
		DoNothing: true,
	}).Create(&items).Error
}

func (d *DatabaseStore) GetIntelligenceByConversation(conversationID string) ([]*models.IntelligenceItem, error) {
	var items []*models.IntelligenceItem
	err := d.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// API key operations

func (d *DatabaseStore) GetActiveAPIKey(keyHash string) (*models.APIKey, error) {
	var key models.APIKey
	err := d.db.Where("key_hash = ? AND is_active = ?", keyHash, true).First(&key).Error
	if err != nil {
		return nil, fmt.Errorf("api key not found: %w", err)
	}
	return &key, nil
}

func (d *DatabaseStore) RecordAPIKeyUsage(keyHash string) error {
	return d.db.Model(&models.APIKey{}).
		Where("key_hash = ?", keyHash).
		Updates(map[string]interface{}{
			"requests_count": gorm.Expr("requests_count + ?", 1),
			"last_used_at":   time.Now(),
		}).Error
}

// Dashboard operations

func (d *DatabaseStore) GetStats() (*models.HoneypotStats, error) {
	stats := &models.HoneypotStats{
		IntelligenceByType: make(map[string]int64),
	}

	if err := d.db.Model(&models.Conversation{}).Count(&stats.TotalConversations).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&models.Conversation{}).Where("scam_detected = ?", true).
		Count(&stats.ScamsDetected).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&models.Conversation{}).Where("agent_active = ?", true).
		Count(&stats.ActiveAgents).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&models.Conversation{}).
		Select("COALESCE(SUM(turn_count), 0)").Scan(&stats.TotalTurns).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Type  string
		Count int64
	}
	err := d.db.Model(&models.IntelligenceItem{}).
		Select("type, COUNT(*) as count").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.IntelligenceByType[row.Type] = row.Count
	}

	return stats, nil
}
