// middleware/bridge_auth.go
package middleware

import (
	"crypto/subtle"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
)

// BridgeAuthMiddleware authenticates the DroidClaw agent by its shared token.
// The agent lives on a phone outside the gateway, so it carries its own header
// instead of the gateway's user context.
func BridgeAuthMiddleware() fiber.Handler {
	expectedToken := os.Getenv("BRIDGE_SERVICE_TOKEN")
	if expectedToken == "" {
		log.Fatal("❌ BRIDGE_SERVICE_TOKEN is not set — bridge endpoints cannot authenticate the agent")
	}

	return func(c *fiber.Ctx) error {
		token := c.Get("X-Bridge-Token")
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			log.Printf("🚫 [BRIDGE_AUTH] Invalid or missing X-Bridge-Token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid bridge token",
			})
		}
		return c.Next()
	}
}
