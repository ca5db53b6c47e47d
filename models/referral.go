package models

import "time"

type ReferralStatus string

const (
	ReferralStatusPending  ReferralStatus = "pending"
	ReferralStatusVerified ReferralStatus = "verified"
)

// Referral is a materialized edge of the referral tree: referee joined under
// referrer at the given level (1 = direct, up to 3). Edges are created at
// registration by walking referred_by_id up the chain; Points is the level
// payout paid to the referrer exactly once, when the referee is activated.
type Referral struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ReferrerID string `gorm:"index;not null;uniqueIndex:idx_referral_edge" json:"referrer_id"`
	RefereeID  string `gorm:"index;not null;uniqueIndex:idx_referral_edge" json:"referee_id"`
	Level      int    `gorm:"not null;uniqueIndex:idx_referral_edge" json:"level"` // 1..3

	Points     int64          `gorm:"not null" json:"points"`
	Status     ReferralStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	VerifiedAt *time.Time     `json:"verified_at,omitempty"`

	Timestamps
}
