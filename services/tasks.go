// services/tasks.go
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

type TaskService struct {
	DB *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{DB: db}
}

// --- Admin Handlers ---

// CreateTask creates a new party task (Admin only)
func (s *TaskService) CreateTask(c *fiber.Ctx) error {
	adminID := c.Locals("user_id").(string)

	var req struct {
		Title       string     `json:"title" validate:"required"`
		Description string     `json:"description"`
		Points      int64      `json:"points" validate:"required,min=1"`
		DistrictID  *string    `json:"district_id"`
		DueAt       *time.Time `json:"due_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" || req.Points <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title and a positive points value are required"})
	}

	task := &models.PartyTask{
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		DistrictID:  req.DistrictID,
		DueAt:       req.DueAt,
		Status:      models.TaskStatusOpen,
		CreatedByID: adminID,
	}
	if err := s.DB.Create(task).Error; err != nil {
		log.Printf("DB Error creating task: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create task"})
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// AssignTask assigns a task to a member (Admin only). One assignment per
// (task, member) pair.
func (s *TaskService) AssignTask(c *fiber.Ctx) error {
	taskID := c.Params("id")
	if _, err := uuid.Parse(taskID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var req struct {
		MemberID string `json:"member_id" validate:"required,uuid"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var task models.PartyTask
	if err := s.DB.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if task.Status != models.TaskStatusOpen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Task is closed"})
	}

	var existing int64
	if err := s.DB.Model(&models.TaskAssignment{}).
		Where("task_id = ? AND member_id = ?", taskID, req.MemberID).
		Count(&existing).Error; err != nil {
		log.Printf("DB Error checking existing assignment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if existing > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Member already assigned to this task"})
	}

	assignment := &models.TaskAssignment{
		TaskID:   taskID,
		MemberID: req.MemberID,
		Status:   models.AssignmentStatusAssigned,
	}
	if err := s.DB.Create(assignment).Error; err != nil {
		log.Printf("DB Error assigning task: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to assign task"})
	}
	return c.Status(fiber.StatusCreated).JSON(assignment)
}

// VerifyAssignment approves or rejects a submitted assignment (Admin only).
// Approval awards the task's points exactly once — the submitted→verified
// transition and the score increment commit in one transaction.
func (s *TaskService) VerifyAssignment(c *fiber.Ctx) error {
	adminID := c.Locals("user_id").(string)
	assignmentID := c.Params("id")
	if _, err := uuid.Parse(assignmentID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assignment ID"})
	}

	var req struct {
		Approved     bool   `json:"approved"`
		RejectReason string `json:"reject_reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var assignment models.TaskAssignment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&assignment, "id = ?", assignmentID).Error; err != nil {
			return err
		}
		if assignment.Status != models.AssignmentStatusSubmitted {
			return &NotActiveError{Message: "assignment has no pending submission"}
		}

		now := time.Now()
		if req.Approved {
			var task models.PartyTask
			if err := tx.First(&task, "id = ?", assignment.TaskID).Error; err != nil {
				return err
			}
			assignment.Status = models.AssignmentStatusVerified
			assignment.VerifiedAt = &now
			assignment.VerifiedByID = &adminID
			if err := tx.Save(&assignment).Error; err != nil {
				return err
			}
			if err := incrementMemberScore(tx, assignment.MemberID, task.Points); err != nil {
				return err
			}
			log.Printf("✅ Task verified: assignment=%s member=%s +%d points", assignment.ID, assignment.MemberID, task.Points)
			return nil
		}

		assignment.Status = models.AssignmentStatusRejected
		assignment.VerifiedAt = &now
		assignment.VerifiedByID = &adminID
		assignment.RejectReason = req.RejectReason
		return tx.Save(&assignment).Error
	})
	if err != nil {
		var notActive *NotActiveError
		if errors.As(err, &notActive) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": notActive.Message})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Assignment not found"})
		}
		log.Printf("DB Error verifying assignment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify assignment"})
	}
	return c.JSON(assignment)
}

// GetAllTasks lists tasks, optionally filtered by district and status.
func (s *TaskService) GetAllTasks(c *fiber.Ctx) error {
	query := s.DB.Model(&models.PartyTask{}).Order("created_at DESC")
	if districtID := c.Query("district_id"); districtID != "" {
		query = query.Where("district_id = ? OR district_id IS NULL", districtID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []models.PartyTask
	if err := query.Find(&tasks).Error; err != nil {
		log.Printf("DB Error fetching tasks: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}
	return c.JSON(tasks)
}

// --- Member Handlers ---

// GetMyAssignments lists the authenticated member's assignments.
func (s *TaskService) GetMyAssignments(c *fiber.Ctx) error {
	memberID := c.Locals("user_id").(string)

	var assignments []models.TaskAssignment
	if err := s.DB.Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&assignments).Error; err != nil {
		log.Printf("DB Error fetching assignments: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch assignments"})
	}
	return c.JSON(assignments)
}

// SubmitProof records proof for the member's own assignment.
func (s *TaskService) SubmitProof(c *fiber.Ctx) error {
	memberID := c.Locals("user_id").(string)
	assignmentID := c.Params("id")
	if _, err := uuid.Parse(assignmentID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assignment ID"})
	}

	var req struct {
		ProofURL  *string `json:"proof_url"`
		ProofNote string  `json:"proof_note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var assignment models.TaskAssignment
	if err := s.DB.First(&assignment, "id = ?", assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Assignment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if assignment.MemberID != memberID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Assignment does not belong to you"})
	}
	if assignment.Status != models.AssignmentStatusAssigned {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Assignment is not awaiting proof"})
	}

	now := time.Now()
	assignment.Status = models.AssignmentStatusSubmitted
	assignment.ProofURL = req.ProofURL
	assignment.ProofNote = req.ProofNote
	assignment.SubmittedAt = &now
	if err := s.DB.Save(&assignment).Error; err != nil {
		log.Printf("DB Error submitting proof: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit proof"})
	}
	return c.JSON(assignment)
}
