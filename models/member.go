package models

import (
	"time"

	"gorm.io/gorm"
)

type MemberStatus string

const (
	MemberStatusPending   MemberStatus = "pending"
	MemberStatusActive    MemberStatus = "active"
	MemberStatusSuspended MemberStatus = "suspended"
)

// Member is the party membership record. Score is written only through atomic
// increments (referral verification, task verification, campaign awards and
// admin reversals); Rank is a per-district snapshot written only by the
// ranking recompute and stays nil until the first run.
type Member struct {
	ID           string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	FullName     string  `gorm:"not null" json:"full_name"`
	Phone        string  `gorm:"uniqueIndex;not null" json:"phone"` // WhatsApp number, E.164
	Email        *string `json:"email,omitempty"`
	CNIC         *string `gorm:"index" json:"cnic,omitempty"` // national ID, optional at signup
	MembershipNo string  `gorm:"uniqueIndex;not null" json:"membership_no"`

	// Referral identity
	ReferralCode string  `gorm:"uniqueIndex;not null" json:"referral_code"`
	ReferredByID *string `gorm:"index" json:"referred_by_id,omitempty"`

	// Geography
	DistrictID   *string `gorm:"index" json:"district_id,omitempty"`
	Constituency string  `json:"constituency,omitempty"` // e.g., "NA-125"

	Score int64 `gorm:"default:0;index" json:"score"`
	Rank  *int  `gorm:"index" json:"rank,omitempty"`

	Status      MemberStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	IsCandidate bool         `gorm:"default:false" json:"is_candidate"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
