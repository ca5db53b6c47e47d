package models

import "time"

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFlagged   SessionStatus = "flagged"
	SessionStatusCancelled SessionStatus = "cancelled"
)

type AdminReview string

const (
	AdminReviewPending  AdminReview = "pending"
	AdminReviewApproved AdminReview = "approved"
	AdminReviewRejected AdminReview = "rejected"
)

// CampaignSession is a GPS-tracked field-activity check-in. At most one ACTIVE
// session per member exists at any time. PointsEarned is computed at end time
// but applied to the member's score only for non-flagged sessions; flagged
// sessions hold their points until an admin approves.
type CampaignSession struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	MemberID string `gorm:"index;not null" json:"member_id"`

	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	StartLat float64  `gorm:"not null" json:"start_lat"`
	StartLng float64  `gorm:"not null" json:"start_lng"`
	EndLat   *float64 `json:"end_lat,omitempty"`
	EndLng   *float64 `json:"end_lng,omitempty"`

	DurationMinutes int     `gorm:"default:0" json:"duration_minutes"`
	DistanceMeters  float64 `gorm:"default:0" json:"distance_meters"`
	PointsEarned    int     `gorm:"default:0" json:"points_earned"`
	FlagReason      *string `json:"flag_reason,omitempty"`

	Status      SessionStatus `gorm:"type:varchar(16);default:'active';index" json:"status"`
	AdminReview AdminReview   `gorm:"type:varchar(16);default:'pending'" json:"admin_review"`
	ReviewedBy  *string       `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time    `json:"reviewed_at,omitempty"`

	GpsPoints []CampaignGpsPoint `json:"gps_points,omitempty" gorm:"foreignKey:SessionID"`
	Photos    []CampaignPhoto    `json:"photos,omitempty" gorm:"foreignKey:SessionID"`

	Timestamps
}

// CampaignGpsPoint is one sample of a session's GPS trail, append-only while
// the session is ACTIVE, ordered by RecordedAt.
type CampaignGpsPoint struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	SessionID string `gorm:"index;not null" json:"session_id"`

	Lat            float64 `gorm:"not null" json:"lat"`
	Lng            float64 `gorm:"not null" json:"lng"`
	AccuracyMeters float64 `gorm:"default:0" json:"accuracy_meters"`

	RecordedAt time.Time `gorm:"index;not null" json:"recorded_at"`
}

// CampaignPhoto carries the EXIF metadata used for fraud scoring. Flagged
// photos are stored anyway; Verified is true iff no flag reason was set.
type CampaignPhoto struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	SessionID string `gorm:"index;not null" json:"session_id"`
	MemberID  string `gorm:"index;not null" json:"member_id"`

	URL string `gorm:"type:text;not null" json:"url"`

	ExifTakenAt *time.Time `json:"exif_taken_at,omitempty"`
	ExifLat     *float64   `json:"exif_lat,omitempty"`
	ExifLng     *float64   `json:"exif_lng,omitempty"`

	Verified   bool    `gorm:"default:false" json:"verified"`
	FlagReason *string `json:"flag_reason,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
