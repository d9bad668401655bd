package client

import "time"

// User is the comment author shape embedded in API responses
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// Video is the video shape returned by GET /videos/:id
type Video struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PlaybackURL  string    `json:"playback_url"`
	Duration     float64   `json:"duration"`
	LikeCount    int       `json:"like_count"`
	DislikeCount int       `json:"dislike_count"`
	StarCount    int       `json:"star_count"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ViewerEngagement is the calling viewer's reaction state on a video
type ViewerEngagement struct {
	Liked    bool `json:"liked"`
	Disliked bool `json:"disliked"`
	Starred  bool `json:"starred"`
}

// VideoDetail is the full GET /videos/:id response
type VideoDetail struct {
	Video            Video             `json:"video"`
	ViewerEngagement *ViewerEngagement `json:"viewer_engagement,omitempty"`
}

// Comment is a single comment row; ParentCommentID is nil for top-level
// comments
type Comment struct {
	ID              string    `json:"id"`
	VideoID         string    `json:"video_id"`
	UserID          string    `json:"user_id"`
	User            User      `json:"user"`
	Message         string    `json:"message"`
	ParentCommentID *string   `json:"parent_comment_id,omitempty"`
	LikeCount       int       `json:"like_count"`
	DislikeCount    int       `json:"dislike_count"`
	// Visible is false for soft-deleted comments, which arrive with a
	// placeholder message so their replies keep a parent
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
}

// Pagination describes one page of a listing
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// UserEngagement carries the viewer's per-comment reaction sets for a page
type UserEngagement struct {
	LikedComments    []string `json:"liked_comments"`
	DislikedComments []string `json:"disliked_comments"`
}

// CommentsPage is the GET /videos/:id/comments response
type CommentsPage struct {
	Comments       []Comment      `json:"comments"`
	Pagination     Pagination     `json:"pagination"`
	UserEngagement UserEngagement `json:"user_engagement"`
}

// ReactionResult is the response to a video like/dislike toggle
type ReactionResult struct {
	Success      bool `json:"success"`
	Liked        bool `json:"liked"`
	Disliked     bool `json:"disliked"`
	LikeCount    int  `json:"like_count"`
	DislikeCount int  `json:"dislike_count"`
}

// StarResult is the response to a star toggle
type StarResult struct {
	Success   bool `json:"success"`
	Starred   bool `json:"starred"`
	StarCount int  `json:"star_count"`
}

// CommentReactionResult is the response to a comment like/dislike toggle
type CommentReactionResult struct {
	Success      bool   `json:"success"`
	Action       string `json:"action,omitempty"` // "liked" or "unliked", comment-like only
	Liked        bool   `json:"liked"`
	Disliked     bool   `json:"disliked"`
	LikeCount    int    `json:"like_count"`
	DislikeCount int    `json:"dislike_count"`
}
