package models

import "time"

// District is the ranking scope for members. Slug is derived from the name at
// creation time and used in public URLs.
type District struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Slug     string `gorm:"uniqueIndex;not null" json:"slug"`
	Province string `gorm:"index;not null" json:"province"`

	// Calculated fields (not stored in DB)
	MemberCount       int64 `json:"member_count,omitempty" gorm:"-"`
	ActiveMemberCount int64 `json:"active_member_count,omitempty" gorm:"-"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
