package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/scamshield/honeypot-backend/internal/agent"
	"github.com/scamshield/honeypot-backend/internal/detection"
	"github.com/scamshield/honeypot-backend/internal/models"
	"github.com/scamshield/honeypot-backend/internal/storage"
)

// generationTimeout bounds the only long-running call in a turn.
const generationTimeout = 30 * time.Second

// TurnResult is the assembled outcome of one processed inbound message.
type TurnResult struct {
	ConversationID  string
	ScamDetected    bool
	AgentActive     bool
	TurnCount       int
	ResponseMessage *string
	Intelligence    *models.IntelligenceReport
}

// HoneypotService orchestrates a conversation turn: classification,
// intelligence extraction, state transitions, and the conditional persona
// reply.
type HoneypotService struct {
	store     storage.Store
	generator agent.Generator
}

// NewHoneypotService creates a new honeypot service
func NewHoneypotService(store storage.Store, generator agent.Generator) *HoneypotService {
	return &HoneypotService{
		store:     store,
		generator: generator,
	}
}

// ProcessMessage runs the full turn pipeline. Any storage failure aborts the
// turn (the inbound message, once stored, is never rolled back); a generator
// failure only costs the reply — the turn still counts.
func (s *HoneypotService) ProcessMessage(ctx context.Context, conversationID, apiKeyHash, message string) (*TurnResult, error) {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	conv, err := s.store.GetOrCreateConversation(conversationID, apiKeyHash)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve conversation: %w", err)
	}

	inbound := &models.Message{
		ConversationID: conversationID,
		Role:           models.RoleScammer,
		Content:        message,
	}
	if err := s.store.CreateMessage(inbound); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	// The verdict is sticky: once a conversation is flagged, the classifier
	// is never consulted again.
	scamDetected := conv.ScamDetected
	agentActive := conv.AgentActive
	if !scamDetected {
		analysis := detection.AnalyzeForScam(message)
		if analysis.IsScam {
			if err := s.store.MarkScamDetected(conversationID); err != nil {
				return nil, fmt.Errorf("failed to update scam status: %w", err)
			}
			scamDetected = true
			agentActive = true
			log.Printf("🚨 Scam detected in %s (category=%s, confidence=%.2f)",
				conversationID, analysis.Category, analysis.Confidence)
		}
	}

	intel := detection.ExtractIntelligence(message)
	if err := s.store.SaveIntelligenceItems(intelligenceItems(conversationID, intel)); err != nil {
		return nil, fmt.Errorf("failed to store intelligence: %w", err)
	}
	if intel.Total() > 0 {
		log.Printf("🕵️  Extracted %d artifact(s) from %s", intel.Total(), conversationID)
	}

	var reply *string
	if scamDetected && agentActive {
		reply = s.generateReply(ctx, conversationID, message)
	}

	turnCount, err := s.store.IncrementTurnCount(conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to update turn count: %w", err)
	}

	accumulated, err := s.store.GetIntelligenceByConversation(conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load intelligence: %w", err)
	}
	report := models.NewIntelligenceReport()
	for _, item := range accumulated {
		report.Add(item.Type, item.Value)
	}

	return &TurnResult{
		ConversationID:  conversationID,
		ScamDetected:    scamDetected,
		AgentActive:     agentActive,
		TurnCount:       turnCount,
		ResponseMessage: reply,
		Intelligence:    report,
	}, nil
}

// generateReply builds the persona prompt from history and calls the
// generator. Returns nil on upstream failure; the caller treats that as a
// reply-less but otherwise successful turn.
func (s *HoneypotService) generateReply(ctx context.Context, conversationID, message string) *string {
	history, err := s.store.GetMessagesByConversation(conversationID)
	if err != nil {
		log.Printf("⚠️  Failed to load history for %s: %v", conversationID, err)
		return nil
	}

	// The inbound message of this turn is already persisted; strip it so the
	// prompt carries it exactly once, as the closing turn.
	if n := len(history); n > 0 &&
		history[n-1].Role == models.RoleScammer && history[n-1].Content == message {
		history = history[:n-1]
	}

	genCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	reply, err := s.generator.Generate(genCtx, agent.BuildPrompt(history, message))
	if err != nil {
		log.Printf("⚠️  Response generation failed for %s: %v", conversationID, err)
		return nil
	}

	agentMsg := &models.Message{
		ConversationID: conversationID,
		Role:           models.RoleAgent,
		Content:        reply,
	}
	if err := s.store.CreateMessage(agentMsg); err != nil {
		log.Printf("⚠️  Failed to store agent reply for %s: %v", conversationID, err)
		return nil
	}
	return &reply
}

func intelligenceItems(conversationID string, intel *models.IntelligenceReport) []*models.IntelligenceItem {
	var items []*models.IntelligenceItem
	add := func(intelType string, values []string) {
		for _, value := range values {
			items = append(items, &models.IntelligenceItem{
				ConversationID: conversationID,
				Type:           intelType,
				Value:          value,
			})
		}
	}
	add(models.IntelBankAccount, intel.BankAccounts)
	add(models.IntelUPIID, intel.UPIIDs)
	add(models.IntelPhishingURL, intel.PhishingURLs)
	add(models.IntelPhoneNumber, intel.PhoneNumbers)
	add(models.IntelEmail, intel.Emails)
	return items
}
