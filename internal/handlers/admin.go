package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scamshield/honeypot-backend/internal/models"
	"github.com/scamshield/honeypot-backend/internal/storage"
)

// AdminHandler serves the read-only feeds the dashboard consumes.
type AdminHandler struct {
	store storage.Store
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store storage.Store) *AdminHandler {
	return &AdminHandler{store: store}
}

// GetOverview returns aggregate honeypot metrics
func (h *AdminHandler) GetOverview(c *fiber.Ctx) error {
	stats, err := h.store.GetStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute overview",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// GetConversations lists all conversations, newest first
func (h *AdminHandler) GetConversations(c *fiber.Ctx) error {
	conversations, err := h.store.GetAllConversations()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch conversations",
		})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"conversations": conversations,
		"count":         len(conversations),
	})
}

// GetConversationDetail returns one conversation with its ordered messages
// and grouped intelligence
func (h *AdminHandler) GetConversationDetail(c *fiber.Ctx) error {
	conversationID := c.Params("conversationID")

	conv, err := h.store.GetConversation(conversationID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Conversation not found",
		})
	}

	messages, err := h.store.GetMessagesByConversation(conversationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch messages",
		})
	}

	items, err := h.store.GetIntelligenceByConversation(conversationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch intelligence",
		})
	}
	intel := models.NewIntelligenceReport()
	for _, item := range items {
		intel.Add(item.Type, item.Value)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"conversation": conv,
		"messages":     messages,
		"intelligence": intel,
	})
}
