// handlers/announcement_routes.go
package handlers

import (
	"awaam-raaj-backend/middleware"
	"awaam-raaj-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAnnouncementRoutes(app *fiber.App, announcementService *services.AnnouncementService) {
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	adminGroup.Get("/announcements", announcementService.GetAllAnnouncements)
	adminGroup.Post("/announcements", announcementService.CreateAnnouncement)
	adminGroup.Post("/announcements/:id/queue", announcementService.QueueAnnouncement)
}
