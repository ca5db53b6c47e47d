// services/bridge.go
package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"awaam-raaj-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// bridgeOfflineAfter is how long after the last heartbeat the DroidClaw agent
// is still reported as connected.
const bridgeOfflineAfter = 90 * time.Second

// BridgeStatus is the admin-facing view of the automation agent.
type BridgeStatus struct {
	Connected    bool       `json:"connected"`
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
	AgentVersion string     `json:"agent_version,omitempty"`
	DeviceModel  string     `json:"device_model,omitempty"`
	PendingCount int64      `json:"pending_count"`
}

// BridgeService queues commands for the DroidClaw phone agent and tracks its
// liveness. Heartbeat state is in-memory only; it resets on restart and the
// agent re-announces itself on its next poll.
type BridgeService struct {
	DB *gorm.DB

	mu           sync.Mutex
	lastSeenAt   time.Time
	agentVersion string
	deviceModel  string
}

func NewBridgeService(db *gorm.DB) *BridgeService {
	return &BridgeService{DB: db}
}

func (s *BridgeService) touch(version, model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeenAt = time.Now()
	if version != "" {
		s.agentVersion = version
	}
	if model != "" {
		s.deviceModel = model
	}
}

// --- Agent Handlers (bridge token auth) ---

// Heartbeat records that the agent is alive.
func (s *BridgeService) Heartbeat(c *fiber.Ctx) error {
	var req struct {
		AgentVersion string `json:"agent_version"`
		DeviceModel  string `json:"device_model"`
	}
	_ = c.BodyParser(&req)
	s.touch(req.AgentVersion, req.DeviceModel)
	return c.JSON(fiber.Map{"message": "OK"})
}

// NextCommand hands the agent the oldest pending command and marks it claimed.
// Returns 204 when the queue is empty.
func (s *BridgeService) NextCommand(c *fiber.Ctx) error {
	s.touch(c.Query("agent_version"), "")

	var cmd models.BridgeCommand
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "bridge:queue").Error; err != nil {
			return err
		}
		if err := tx.Where("status = ?", models.BridgeCommandPending).
			Order("created_at ASC").
			First(&cmd).Error; err != nil {
			return err
		}

		// Claim is conditional on the row still being pending, so a command
		// can never go out to two pollers.
		now := time.Now()
		claim := tx.Model(&models.BridgeCommand{}).
			Where("id = ? AND status = ?", cmd.ID, models.BridgeCommandPending).
			Updates(map[string]interface{}{
				"status":     models.BridgeCommandClaimed,
				"claimed_at": now,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		cmd.Status = models.BridgeCommandClaimed
		cmd.ClaimedAt = &now
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		log.Printf("DB Error claiming bridge command: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to claim command"})
	}
	return c.JSON(cmd)
}

// CompleteCommand records the agent's result for a claimed command.
func (s *BridgeService) CompleteCommand(c *fiber.Ctx) error {
	s.touch("", "")
	cmdID := c.Params("id")
	if _, err := uuid.Parse(cmdID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid command ID"})
	}

	var req struct {
		Success bool   `json:"success"`
		Result  string `json:"result"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var cmd models.BridgeCommand
	if err := s.DB.First(&cmd, "id = ?", cmdID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Command not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if cmd.Status != models.BridgeCommandClaimed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Command is not claimed"})
	}

	now := time.Now()
	cmd.Status = models.BridgeCommandCompleted
	if !req.Success {
		cmd.Status = models.BridgeCommandFailed
	}
	cmd.Result = req.Result
	cmd.CompletedAt = &now
	if err := s.DB.Save(&cmd).Error; err != nil {
		log.Printf("DB Error completing bridge command: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete command"})
	}
	return c.JSON(cmd)
}

// --- Admin Handlers ---

// EnqueueCommand queues a command for the agent (Admin only).
func (s *BridgeService) EnqueueCommand(c *fiber.Ctx) error {
	adminID := c.Locals("user_id").(string)

	var req struct {
		Action  string `json:"action" validate:"required"`
		Payload string `json:"payload"`
	}
	if err := c.BodyParser(&req); err != nil || req.Action == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "action is required"})
	}

	payload := req.Payload
	if payload == "" {
		payload = "{}"
	}
	cmd := &models.BridgeCommand{
		Action:       req.Action,
		Payload:      payload,
		Status:       models.BridgeCommandPending,
		EnqueuedByID: adminID,
	}
	if err := s.DB.Create(cmd).Error; err != nil {
		log.Printf("DB Error enqueuing bridge command: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to enqueue command"})
	}
	return c.Status(fiber.StatusCreated).JSON(cmd)
}

// GetStatus reports agent liveness and queue depth (Admin only).
func (s *BridgeService) GetStatus(c *fiber.Ctx) error {
	s.mu.Lock()
	status := BridgeStatus{
		AgentVersion: s.agentVersion,
		DeviceModel:  s.deviceModel,
	}
	if !s.lastSeenAt.IsZero() {
		seen := s.lastSeenAt
		status.LastSeenAt = &seen
		status.Connected = time.Since(seen) < bridgeOfflineAfter
	}
	s.mu.Unlock()

	s.DB.Model(&models.BridgeCommand{}).
		Where("status = ?", models.BridgeCommandPending).
		Count(&status.PendingCount)
	return c.JSON(status)
}

// ListCommands lists recent commands, newest first (Admin only).
func (s *BridgeService) ListCommands(c *fiber.Ctx) error {
	var cmds []models.BridgeCommand
	if err := s.DB.Order("created_at DESC").Limit(100).Find(&cmds).Error; err != nil {
		log.Printf("DB Error listing bridge commands: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list commands"})
	}
	return c.JSON(cmds)
}
