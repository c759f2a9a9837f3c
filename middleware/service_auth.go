// middleware/service_auth.go
package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ServiceAuthMiddleware validates the shared service token on trigger and
// admin endpoints. The host scheduler and the admin dashboard are the only
// intended callers; player-facing reads pass through a separate gateway.
func ServiceAuthMiddleware() fiber.Handler {
	expectedToken := os.Getenv("SERVICE_TOKEN")
	if expectedToken == "" {
		log.Fatal("❌ SERVICE_TOKEN is not set — trigger endpoints cannot authenticate callers")
	}

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Printf("🚫 [SERVICE_AUTH] Missing Authorization header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "service token missing",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			// no "Bearer " prefix — accept the raw value
			token = authHeader
		}

		if token != expectedToken {
			log.Printf("❌ [SERVICE_AUTH] Invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid service token",
			})
		}

		return c.Next()
	}
}
