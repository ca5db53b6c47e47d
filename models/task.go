package models

import "time"

type TaskStatus string

const (
	TaskStatusOpen   TaskStatus = "open"
	TaskStatusClosed TaskStatus = "closed"
)

type AssignmentStatus string

const (
	AssignmentStatusAssigned  AssignmentStatus = "assigned"
	AssignmentStatusSubmitted AssignmentStatus = "submitted"
	AssignmentStatusVerified  AssignmentStatus = "verified"
	AssignmentStatusRejected  AssignmentStatus = "rejected"
)

// PartyTask is organizer work (poster runs, door-to-door canvassing, polling
// agent duty) worth a fixed point value on verified completion.
type PartyTask struct {
	ID          string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Points      int64   `gorm:"not null" json:"points"`
	DistrictID  *string `gorm:"index" json:"district_id,omitempty"` // nil = national

	Status      TaskStatus `gorm:"type:varchar(16);default:'open';index" json:"status"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CreatedByID string     `gorm:"index;not null" json:"created_by_id"`

	Timestamps
}

// TaskAssignment ties one member to one task. The status transition
// submitted -> verified is the single award point for Task.Points.
type TaskAssignment struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TaskID   string `gorm:"index;not null;uniqueIndex:idx_task_member" json:"task_id"`
	MemberID string `gorm:"index;not null;uniqueIndex:idx_task_member" json:"member_id"`

	Status    AssignmentStatus `gorm:"type:varchar(16);default:'assigned';index" json:"status"`
	ProofURL  *string          `gorm:"type:text" json:"proof_url,omitempty"`
	ProofNote string           `gorm:"type:text" json:"proof_note,omitempty"`

	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	VerifiedByID *string    `json:"verified_by_id,omitempty"`
	RejectReason string     `json:"reject_reason,omitempty"`

	Timestamps
}
