package models

// Post is a social-feed entry. Counters are denormalized and maintained with
// atomic increments alongside the like/comment rows.
type Post struct {
	ID         string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	MemberID   string  `gorm:"index;not null" json:"member_id"`
	DistrictID *string `gorm:"index" json:"district_id,omitempty"` // nil = national feed

	Body     string  `gorm:"type:text;not null" json:"body"`
	PhotoURL *string `gorm:"type:text" json:"photo_url,omitempty"`

	LikeCount    int64 `gorm:"default:0" json:"like_count"`
	CommentCount int64 `gorm:"default:0" json:"comment_count"`

	// Denormalized from the author for feed rendering
	AuthorName string `json:"author_name"`

	Timestamps
}

type PostLike struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	PostID   string `gorm:"index;not null;uniqueIndex:idx_post_like" json:"post_id"`
	MemberID string `gorm:"index;not null;uniqueIndex:idx_post_like" json:"member_id"`

	Timestamps
}

type PostComment struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	PostID   string `gorm:"index;not null" json:"post_id"`
	MemberID string `gorm:"index;not null" json:"member_id"`

	Body       string `gorm:"type:text;not null" json:"body"`
	AuthorName string `json:"author_name"`

	Timestamps
}
