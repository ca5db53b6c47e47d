// services/announcements.go
package services

import (
	"errors"
	"log"
	"time"

	"awaam-raaj-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementService struct {
	DB *gorm.DB
}

func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{DB: db}
}

// CreateAnnouncement creates a broadcast (Admin only). ?queue=true queues it
// for dispatch immediately, otherwise it is saved as a draft.
func (s *AnnouncementService) CreateAnnouncement(c *fiber.Ctx) error {
	adminID := c.Locals("user_id").(string)

	var req struct {
		Title      string                      `json:"title" validate:"required"`
		Body       string                      `json:"body" validate:"required"`
		Audience   models.AnnouncementAudience `json:"audience" validate:"required,oneof=all district"`
		DistrictID *string                     `json:"district_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" || req.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title and body are required"})
	}
	if req.Audience == models.AudienceDistrict && req.DistrictID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "district_id is required for district audience"})
	}
	if req.Audience != models.AudienceDistrict && req.Audience != models.AudienceAll {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "audience must be all or district"})
	}

	ann := &models.Announcement{
		Title:       req.Title,
		Body:        req.Body,
		Audience:    req.Audience,
		DistrictID:  req.DistrictID,
		Status:      models.AnnouncementStatusDraft,
		CreatedByID: adminID,
	}
	if c.Query("queue") == "true" {
		now := time.Now()
		ann.Status = models.AnnouncementStatusQueued
		ann.QueuedAt = &now
	}

	if err := s.DB.Create(ann).Error; err != nil {
		log.Printf("DB Error creating announcement: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create announcement"})
	}
	return c.Status(fiber.StatusCreated).JSON(ann)
}

// QueueAnnouncement moves a draft into the dispatch queue (Admin only).
func (s *AnnouncementService) QueueAnnouncement(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid announcement ID"})
	}

	var ann models.Announcement
	if err := s.DB.First(&ann, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Announcement not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if ann.Status != models.AnnouncementStatusDraft {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only drafts can be queued"})
	}

	now := time.Now()
	ann.Status = models.AnnouncementStatusQueued
	ann.QueuedAt = &now
	if err := s.DB.Save(&ann).Error; err != nil {
		log.Printf("DB Error queuing announcement: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to queue announcement"})
	}
	return c.JSON(ann)
}

// GetAllAnnouncements lists broadcasts newest first (Admin only).
func (s *AnnouncementService) GetAllAnnouncements(c *fiber.Ctx) error {
	var anns []models.Announcement
	if err := s.DB.Order("created_at DESC").Find(&anns).Error; err != nil {
		log.Printf("DB Error fetching announcements: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch announcements"})
	}
	return c.JSON(anns)
}
