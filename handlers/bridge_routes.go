// handlers/bridge_routes.go
package handlers

import (
	"awaam-raaj-backend/middleware"
	"awaam-raaj-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupBridgeRoutes(app *fiber.App, bridgeService *services.BridgeService) {
	// Agent endpoints authenticate with the shared bridge token, not the
	// gateway user context.
	agentGroup := app.Group("/bridge", middleware.BridgeAuthMiddleware())

	agentGroup.Post("/heartbeat", bridgeService.Heartbeat)
	agentGroup.Get("/commands/next", bridgeService.NextCommand)
	agentGroup.Post("/commands/:id/complete", bridgeService.CompleteCommand)

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	adminGroup.Get("/bridge/status", bridgeService.GetStatus)
	adminGroup.Get("/bridge/commands", bridgeService.ListCommands)
	adminGroup.Post("/bridge/commands", bridgeService.EnqueueCommand)
}
