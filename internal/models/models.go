package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a Clipstream viewer/creator account. Credential management
// lives in the external auth provider; this row mirrors the identity we need
// for engagement bookkeeping.
type User struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName string `gorm:"not null" json:"display_name"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Video represents an uploaded video. The media itself lives on the external
// CDN; we keep the metadata and the server-owned engagement aggregates.
type Video struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	PlaybackURL string  `json:"playback_url"`
	Duration    float64 `json:"duration"` // seconds, player-reported via metadata patch

	// Engagement aggregates, mutated only inside toggle transactions
	LikeCount    int `gorm:"default:0" json:"like_count"`
	DislikeCount int `gorm:"default:0" json:"dislike_count"`
	StarCount    int `gorm:"default:0" json:"star_count"`
	CommentCount int `gorm:"default:0" json:"comment_count"`

	Visible bool `gorm:"default:true" json:"visible"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// VideoReaction tracks one viewer's reaction state on one video.
// Liked and Disliked are mutually exclusive; Starred is independent.
type VideoReaction struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID  string `gorm:"not null;uniqueIndex:idx_video_reactions_user_video" json:"user_id"`
	VideoID string `gorm:"not null;uniqueIndex:idx_video_reactions_user_video;index" json:"video_id"`

	Liked    bool `gorm:"default:false" json:"liked"`
	Disliked bool `gorm:"default:false" json:"disliked"`
	Starred  bool `gorm:"default:false" json:"starred"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *VideoReaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Comment represents a comment on a Video
type Comment struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	VideoID string `gorm:"not null;index" json:"video_id"`
	Video   Video  `gorm:"foreignKey:VideoID" json:"-"`
	UserID  string `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Message string `gorm:"type:text;not null" json:"message"`

	// Threading - parent_comment_id is null for top-level comments.
	// Storage keeps one level of nesting; deeper replies get normalized
	// to the grandparent at create time.
	ParentCommentID *string  `gorm:"type:uuid;index" json:"parent_comment_id,omitempty"`
	Parent          *Comment `gorm:"foreignKey:ParentCommentID" json:"-"`

	LikeCount    int `gorm:"default:0" json:"like_count"`
	DislikeCount int `gorm:"default:0" json:"dislike_count"`

	// Soft-delete flag; hidden comments stay in threads as placeholders
	Visible bool `gorm:"default:true" json:"visible"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CommentReaction tracks one viewer's like/dislike state on one comment
type CommentReaction struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string `gorm:"not null;uniqueIndex:idx_comment_reactions_user_comment" json:"user_id"`
	CommentID string `gorm:"not null;uniqueIndex:idx_comment_reactions_user_comment;index" json:"comment_id"`

	Liked    bool `gorm:"default:false" json:"liked"`
	Disliked bool `gorm:"default:false" json:"disliked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *CommentReaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
