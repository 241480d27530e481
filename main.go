package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/scamshield/honeypot-backend/database"
	"github.com/scamshield/honeypot-backend/internal/agent"
	"github.com/scamshield/honeypot-backend/internal/jobs"
	"github.com/scamshield/honeypot-backend/internal/models"
	"github.com/scamshield/honeypot-backend/internal/routes"
	"github.com/scamshield/honeypot-backend/internal/services"
	"github.com/scamshield/honeypot-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		err := godotenv.Load(".env")
		if err != nil {
			err = godotenv.Load("environments/.env.development")
			if err != nil {
				log.Println("⚠️  No .env file found - checking environment variables")
			}
		}
	}

	// Initialize storage
	var store storage.Store

	// Check if we should use memory store (for testing)
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		// Connect to database
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		// Run migrations
		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Conversation{},
			&models.Message{},
			&models.IntelligenceItem{},
			&models.APIKey{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		// Use database store
		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}
	storage.SetStore(store)

	// Initialize the response generator
	var generator agent.Generator
	geminiGen, err := agent.NewGeminiGenerator(context.Background())
	if err != nil {
		log.Printf("⚠️  Response generator not available: %v", err)
		log.Println("⚠️  Persona replies disabled - turns will still be recorded")
		generator = agent.UnavailableGenerator{}
	} else {
		generator = geminiGen
		log.Println("✅ Gemini response generator initialized")
	}

	honeypotService := services.NewHoneypotService(store, generator)

	// Start the conversation lifecycle job
	lifecycleJob := jobs.NewLifecycleJob(store, conversationTTL())
	lifecycleJob.Start()

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "ScamShield Honeypot v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Authorization, X-Client-Info, ApiKey, Content-Type, X-Api-Key",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Service banner with storage status
	app.Get("/", func(c *fiber.Ctx) error {
		response := fiber.Map{
			"service":     "ScamShield Honeypot API",
			"version":     "1.0.0",
			"status":      "healthy",
			"environment": getEnvironment(),
			"storage":     getStorageType(),
			"agent": fiber.Map{
				"configured": os.Getenv("GEMINI_API_KEY") != "",
			},
		}

		if stats, err := store.GetStats(); err == nil {
			response["honeypot"] = stats
		}

		return c.JSON(response)
	})

	// Setup routes
	routes.SetupRoutes(app, store, honeypotService)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		lifecycleJob.Stop()
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 ScamShield Honeypot starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("🌍 Environment: %s", getEnvironment())
	log.Printf("🤖 Persona agent: %s", getAgentStatus())
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

func conversationTTL() time.Duration {
	hours := 24
	if raw := os.Getenv("CONVERSATION_TTL_HOURS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			hours = parsed
		}
	}
	return time.Duration(hours) * time.Hour
}

func getEnvironment() string {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getAgentStatus() string {
	if os.Getenv("GEMINI_API_KEY") == "" {
		return "Not configured"
	}
	return "Configured"
}
