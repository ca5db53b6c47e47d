// handlers/feed_routes.go
package handlers

import (
	"awaam-raaj-backend/middleware"
	"awaam-raaj-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupFeedRoutes(app *fiber.App, feedService *services.FeedService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/feed", feedService.GetFeed)
	securedGroup.Post("/feed", feedService.CreatePost)
	securedGroup.Post("/feed/:id/like", feedService.LikePost)
	securedGroup.Post("/feed/:id/comments", feedService.CommentOnPost)
	securedGroup.Get("/feed/:id/comments", feedService.GetComments)
	securedGroup.Delete("/feed/:id", feedService.DeletePost)
}
