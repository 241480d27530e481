package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/scamshield/honeypot-backend/internal/storage"
)

// LocalsAPIKeyHash is the c.Locals key under which the authenticated key's
// hash is stored for downstream handlers.
const LocalsAPIKeyHash = "apiKeyHash"

// RequireAPIKey validates the x-api-key header against the stored key hashes
// and counts the request against the key. The raw secret is never persisted
// or logged.
func RequireAPIKey(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := c.Get("x-api-key")
		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing x-api-key header",
			})
		}

		keyHash := HashAPIKey(apiKey)
		if _, err := store.GetActiveAPIKey(keyHash); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or inactive API key",
			})
		}

		// Usage bookkeeping is best-effort; an accepted request proceeds even
		// if the counter write fails.
		if err := store.RecordAPIKeyUsage(keyHash); err != nil {
			log.Printf("⚠️  Failed to record API key usage: %v", err)
		}

		c.Locals(LocalsAPIKeyHash, keyHash)
		return c.Next()
	}
}

// HashAPIKey returns the hex-encoded SHA-256 digest of a key secret.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
