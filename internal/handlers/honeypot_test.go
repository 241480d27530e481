package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamshield/honeypot-backend/internal/agent"
	"github.com/scamshield/honeypot-backend/internal/middleware"
	"github.com/scamshield/honeypot-backend/internal/models"
	"github.com/scamshield/honeypot-backend/internal/services"
	"github.com/scamshield/honeypot-backend/internal/storage"
)

const (
	testAPIKey  = "hp_test_key"
	lotteryText = "Congratulations! You have won a lottery, send details to claim@okicici and transfer to account 123456789012"
)

type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) Generate(context.Context, []agent.ChatTurn) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestApp(gen agent.Generator) (*fiber.App, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	store.SeedAPIKey(&models.APIKey{
		Name:     "test",
		KeyHash:  middleware.HashAPIKey(testAPIKey),
		IsActive: true,
	})

	service := services.NewHoneypotService(store, gen)
	handler := NewHoneypotHandler(service)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Authorization, X-Client-Info, ApiKey, Content-Type, X-Api-Key",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Post("/honeypot", middleware.RequireAPIKey(store), handler.HandleMessage)
	return app, store
}

func postHoneypot(t *testing.T, app *fiber.App, apiKey string, payload map[string]any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/honeypot", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) HoneypotResponse {
	t.Helper()
	defer resp.Body.Close()
	var out HoneypotResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHandleMessage_EndToEndScamTurn(t *testing.T) {
	app, _ := newTestApp(&stubGenerator{reply: "ohh, which account do i send to?"})

	resp := postHoneypot(t, app, testAPIKey, map[string]any{
		"message":         lotteryText,
		"conversation_id": "conv-e2e",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.Equal(t, "conv-e2e", out.ConversationID)
	assert.True(t, out.ScamDetected)
	assert.True(t, out.AgentActive)
	assert.Equal(t, 1, out.TurnCount)
	require.NotNil(t, out.ResponseMessage)
	assert.Equal(t, []string{"claim@okicici"}, out.Intelligence.UPIIDs)
	assert.Equal(t, []string{"123456789012"}, out.Intelligence.BankAccounts)
}

func TestHandleMessage_RepeatRequestAddsNoDuplicates(t *testing.T) {
	app, _ := newTestApp(&stubGenerator{reply: "hmm ok"})

	payload := map[string]any{"message": lotteryText, "conversation_id": "conv-rep"}
	first := decodeResponse(t, postHoneypot(t, app, testAPIKey, payload))
	second := decodeResponse(t, postHoneypot(t, app, testAPIKey, payload))

	assert.Equal(t, 2, second.TurnCount)
	assert.True(t, second.ScamDetected)
	assert.Equal(t, first.Intelligence, second.Intelligence)
}

func TestHandleMessage_AcceptsAlternateMessageFields(t *testing.T) {
	app, _ := newTestApp(&stubGenerator{reply: "ok"})

	resp := postHoneypot(t, app, testAPIKey, map[string]any{
		"text":            "you won a lottery prize, claim your reward",
		"conversation_id": "conv-alt",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.True(t, out.ScamDetected)
}

func TestHandleMessage_MissingMessageReturns400(t *testing.T) {
	app, _ := newTestApp(&stubGenerator{reply: "ok"})

	resp := postHoneypot(t, app, testAPIKey, map[string]any{"conversation_id": "conv-x"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Message is required")
	assert.Contains(t, string(raw), "message, content, text, body, query, input")
}

func TestHandleMessage_MissingAPIKeyReturns401AndWritesNothing(t *testing.T) {
	app, store := newTestApp(&stubGenerator{reply: "ok"})

	resp := postHoneypot(t, app, "", map[string]any{"message": lotteryText})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conversations, err := store.GetAllConversations()
	require.NoError(t, err)
	assert.Empty(t, conversations)
}

func TestHandleMessage_InvalidAPIKeyReturns401(t *testing.T) {
	app, _ := newTestApp(&stubGenerator{reply: "ok"})

	resp := postHoneypot(t, app, "wrong-key", map[string]any{"message": lotteryText})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandleMessage_GeneratorOutageDegradesGracefully(t *testing.T) {
	app, _ := newTestApp(&stubGenerator{err: agent.ErrUpstream})

	resp := postHoneypot(t, app, testAPIKey, map[string]any{
		"message":         lotteryText,
		"conversation_id": "conv-out",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.True(t, out.ScamDetected)
	assert.Nil(t, out.ResponseMessage)
	assert.Equal(t, 1, out.TurnCount)
}

func TestHandleMessage_WrongMethodReturns405(t *testing.T) {
	app, _ := newTestApp(&stubGenerator{reply: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/honeypot", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandleMessage_PreflightGetsCORSHeaders(t *testing.T) {
	app, _ := newTestApp(&stubGenerator{reply: "ok"})

	req := httptest.NewRequest(http.MethodOptions, "/honeypot", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
