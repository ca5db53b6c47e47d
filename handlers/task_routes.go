// handlers/task_routes.go
package handlers

import (
	"awaam-raaj-backend/middleware"
	"awaam-raaj-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(app *fiber.App, taskService *services.TaskService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/tasks", taskService.GetAllTasks)
	securedGroup.Get("/tasks/assignments", taskService.GetMyAssignments)
	securedGroup.Post("/tasks/assignments/:id/submit", taskService.SubmitProof)

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	adminGroup.Post("/tasks", taskService.CreateTask)
	adminGroup.Post("/tasks/:id/assign", taskService.AssignTask)
	adminGroup.Post("/tasks/assignments/:id/verify", taskService.VerifyAssignment)
}
