// handlers/campaign_routes.go
package handlers

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"awaam-raaj-backend/middleware"
	"awaam-raaj-backend/models"
	"awaam-raaj-backend/services"
	"awaam-raaj-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupCampaignRoutes(app *fiber.App, campaignService *services.CampaignService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Post("/campaign/sessions", func(c *fiber.Ctx) error {
		memberID := c.Locals("user_id").(string)

		var req struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		session, err := campaignService.StartSession(memberID, req.Lat, req.Lng)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	})

	securedGroup.Post("/campaign/sessions/:id/gps", func(c *fiber.Ctx) error {
		memberID := c.Locals("user_id").(string)

		var req struct {
			Lat      float64 `json:"lat"`
			Lng      float64 `json:"lng"`
			Accuracy float64 `json:"accuracy"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		point, err := campaignService.AppendGpsPoint(c.Params("id"), memberID, req.Lat, req.Lng, req.Accuracy)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(point)
	})

	// Multipart: "photo" part plus optional EXIF form fields
	// (exif_taken_at RFC3339, exif_lat, exif_lng).
	securedGroup.Post("/campaign/sessions/:id/photos", func(c *fiber.Ctx) error {
		memberID := c.Locals("user_id").(string)

		fileHeader, err := c.FormFile("photo")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo file is required"})
		}

		exif := services.PhotoExif{}
		if v := c.FormValue("exif_taken_at"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "exif_taken_at must be RFC3339"})
			}
			exif.TakenAt = &t
		}
		if v := c.FormValue("exif_lat"); v != "" {
			lat, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "exif_lat must be a number"})
			}
			exif.Lat = &lat
		}
		if v := c.FormValue("exif_lng"); v != "" {
			lng, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "exif_lng must be a number"})
			}
			exif.Lng = &lng
		}

		key := fmt.Sprintf("campaigns/%s%s", uuid.NewString(), utils.SafeExt(fileHeader.Filename))
		url, err := utils.StoreUpload(fileHeader, key)
		if err != nil {
			log.Printf("Upload error for campaign photo: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store photo"})
		}

		photo, err := campaignService.AttachPhoto(c.Params("id"), memberID, url, exif)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(photo)
	})

	securedGroup.Post("/campaign/sessions/:id/end", func(c *fiber.Ctx) error {
		memberID := c.Locals("user_id").(string)

		var req struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		session, err := campaignService.EndSession(c.Params("id"), memberID, req.Lat, req.Lng)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(session)
	})

	securedGroup.Get("/campaign/sessions/:id", func(c *fiber.Ctx) error {
		memberID := c.Locals("user_id").(string)
		roles, _ := c.Locals("user_roles").([]string)

		session, err := campaignService.GetSession(c.Params("id"))
		if err != nil {
			return respondServiceError(c, err)
		}
		if session.MemberID != memberID && !hasRole(roles, "admin") {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your session"})
		}
		return c.JSON(session)
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	adminGroup.Get("/campaign/review", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		sessions, err := campaignService.ListSessionsForReview(limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(sessions)
	})

	adminGroup.Post("/campaign/sessions/:id/review", func(c *fiber.Ctx) error {
		reviewerID := c.Locals("user_id").(string)

		var req struct {
			Decision models.AdminReview `json:"decision" validate:"required,oneof=approved rejected"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		session, err := campaignService.ReviewSession(c.Params("id"), reviewerID, req.Decision)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(session)
	})
}

func hasRole(roles []string, want string) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}
