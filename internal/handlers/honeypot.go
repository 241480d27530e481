package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/scamshield/honeypot-backend/internal/middleware"
	"github.com/scamshield/honeypot-backend/internal/models"
	"github.com/scamshield/honeypot-backend/internal/services"
)

// HoneypotHandler handles inbound scam messages
type HoneypotHandler struct {
	service *services.HoneypotService
}

// NewHoneypotHandler creates a new honeypot handler
func NewHoneypotHandler(service *services.HoneypotService) *HoneypotHandler {
	return &HoneypotHandler{
		service: service,
	}
}

// HoneypotRequest accepts the message text under several field names since
// scam reporters integrate with different payload shapes.
type HoneypotRequest struct {
	Message        string `json:"message"`
	Content        string `json:"content"`
	Text           string `json:"text"`
	Body           string `json:"body"`
	Query          string `json:"query"`
	Input          string `json:"input"`
	ConversationID string `json:"conversation_id"`
}

// messageText returns the first non-empty accepted field.
func (r *HoneypotRequest) messageText() string {
	for _, candidate := range []string{r.Message, r.Content, r.Text, r.Body, r.Query, r.Input} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// HoneypotResponse is the wire contract for a processed turn.
type HoneypotResponse struct {
	ConversationID  string                     `json:"conversation_id"`
	ScamDetected    bool                       `json:"scam_detected"`
	AgentActive     bool                       `json:"agent_active"`
	TurnCount       int                        `json:"turn_count"`
	ResponseMessage *string                    `json:"response_message"`
	Intelligence    *models.IntelligenceReport `json:"extracted_intelligence"`
}

// HandleMessage processes one inbound scam message
func (h *HoneypotHandler) HandleMessage(c *fiber.Ctx) error {
	var req HoneypotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	message := req.messageText()
	if message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Message is required",
			"details": "Please provide the scam message in one of these fields: message, content, text, body, query, input",
		})
	}

	apiKeyHash, _ := c.Locals(middleware.LocalsAPIKeyHash).(string)

	result, err := h.service.ProcessMessage(c.Context(), req.ConversationID, apiKeyHash, message)
	if err != nil {
		log.Printf("❌ Honeypot turn failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Internal server error",
			"details": err.Error(),
		})
	}

	return c.JSON(HoneypotResponse{
		ConversationID:  result.ConversationID,
		ScamDetected:    result.ScamDetected,
		AgentActive:     result.AgentActive,
		TurnCount:       result.TurnCount,
		ResponseMessage: result.ResponseMessage,
		Intelligence:    result.Intelligence,
	})
}
