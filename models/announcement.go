package models

import "time"

type AnnouncementStatus string

const (
	AnnouncementStatusDraft   AnnouncementStatus = "draft"
	AnnouncementStatusQueued  AnnouncementStatus = "queued"
	AnnouncementStatusSending AnnouncementStatus = "sending"
	AnnouncementStatusSent    AnnouncementStatus = "sent"
	AnnouncementStatusFailed  AnnouncementStatus = "failed"
)

type AnnouncementAudience string

const (
	AudienceAll      AnnouncementAudience = "all"
	AudienceDistrict AnnouncementAudience = "district"
)

// Announcement is a bulk WhatsApp broadcast. Queued rows are picked up by the
// dispatch worker; delivery is best-effort and per-recipient failures only
// bump FailedCount.
type Announcement struct {
	ID    string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title string `gorm:"not null" json:"title"`
	Body  string `gorm:"type:text;not null" json:"body"`

	Audience   AnnouncementAudience `gorm:"type:varchar(16);not null;default:'all'" json:"audience"`
	DistrictID *string              `gorm:"index" json:"district_id,omitempty"` // required when audience=district

	Status          AnnouncementStatus `gorm:"type:varchar(16);default:'draft';index" json:"status"`
	TotalRecipients int64              `gorm:"default:0" json:"total_recipients"`
	SentCount       int64              `gorm:"default:0" json:"sent_count"`
	FailedCount     int64              `gorm:"default:0" json:"failed_count"`

	CreatedByID string     `gorm:"index;not null" json:"created_by_id"`
	QueuedAt    *time.Time `json:"queued_at,omitempty"`
	SentAt      *time.Time `json:"sent_at,omitempty"`

	Timestamps
}
