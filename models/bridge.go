package models

import "time"

type BridgeCommandStatus string

const (
	BridgeCommandPending   BridgeCommandStatus = "pending"
	BridgeCommandClaimed   BridgeCommandStatus = "claimed"
	BridgeCommandCompleted BridgeCommandStatus = "completed"
	BridgeCommandFailed    BridgeCommandStatus = "failed"
)

// BridgeCommand is one unit of work queued for the DroidClaw automation agent.
// The agent polls for the oldest pending command, claims it, and reports back.
type BridgeCommand struct {
	ID      string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Action  string `gorm:"not null" json:"action"` // e.g., "send_whatsapp", "scrape_group"
	Payload string `gorm:"type:jsonb" json:"payload"`

	Status BridgeCommandStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	Result string              `gorm:"type:text" json:"result,omitempty"`

	EnqueuedByID string     `gorm:"index;not null" json:"enqueued_by_id"`
	ClaimedAt    *time.Time `json:"claimed_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	Timestamps
}
