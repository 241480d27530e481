package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scamshield/honeypot-backend/internal/handlers"
	"github.com/scamshield/honeypot-backend/internal/middleware"
	"github.com/scamshield/honeypot-backend/internal/services"
	"github.com/scamshield/honeypot-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, honeypotService *services.HoneypotService) {
	honeypotHandler := handlers.NewHoneypotHandler(honeypotService)
	adminHandler := handlers.NewAdminHandler(store)
	healthHandler := handlers.NewHealthHandler("1.0.0")

	app.Get("/health", healthHandler.Check)

	// The one write endpoint: an inbound scammer message.
	app.Post("/honeypot", middleware.RequireAPIKey(store), honeypotHandler.HandleMessage)

	// ========== ADMIN ROUTES (dashboard feeds) ==========
	admin := app.Group("/admin")
	admin.Get("/overview", adminHandler.GetOverview)
	admin.Get("/conversations", adminHandler.GetConversations)
	admin.Get("/conversations/:conversationID", adminHandler.GetConversationDetail)
}
