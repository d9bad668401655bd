package handlers

import (
	"errors"
	"net/http"

	"github.com/clipstream/clipstream/internal/apierr"
	"github.com/clipstream/clipstream/internal/cooldown"
	"github.com/clipstream/clipstream/internal/database"
	"github.com/clipstream/clipstream/internal/metrics"
	"github.com/clipstream/clipstream/internal/models"
	"github.com/clipstream/clipstream/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Watch-time precondition for starring: 20% of the reported duration
const starWatchFraction = 0.20

// Engagement action names used for cooldown keys and metrics
const (
	actionLike           = "like"
	actionDislike        = "dislike"
	actionStar           = "star"
	actionCommentLike    = "comment_like"
	actionCommentDislike = "comment_dislike"
)

// LikeVideo toggles the viewer's like on a video
// POST /api/v1/videos/:id/like
func (h *Handlers) LikeVideo(c *gin.Context) {
	h.toggleVideoReaction(c, actionLike)
}

// DislikeVideo toggles the viewer's dislike on a video
// POST /api/v1/videos/:id/dislike
func (h *Handlers) DislikeVideo(c *gin.Context) {
	h.toggleVideoReaction(c, actionDislike)
}

// StarVideo toggles the viewer's star on a video. Starring requires the
// client-reported watched seconds to reach 20% of the video duration;
// un-starring has no watch requirement. The watched value is trusted as
// reported - the server does not track playback itself.
// POST /api/v1/videos/:id/star
func (h *Handlers) StarVideo(c *gin.Context) {
	h.toggleVideoReaction(c, actionStar)
}

func (h *Handlers) toggleVideoReaction(c *gin.Context, action string) {
	videoID := c.Param("id")
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		WatchedSeconds int `json:"watched_seconds"`
	}
	if action == actionStar {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.RespondBadRequest(c, err.Error())
			return
		}
	}

	var video models.Video
	if err := database.DB.First(&video, "id = ? AND visible = ?", videoID, true).Error; err != nil {
		util.RespondNotFound(c, "video")
		return
	}

	var reaction models.VideoReaction
	err := database.DB.Where("user_id = ? AND video_id = ?", userID, videoID).First(&reaction).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		util.RespondInternalError(c, "failed to load reaction state")
		return
	}

	// Starring (turning the flag on) is gated on watch time; un-starring is not
	if action == actionStar && !reaction.Starred {
		required := int(starWatchFraction * video.Duration)
		if req.WatchedSeconds < required {
			metrics.RecordEngagement(action, "precondition_failed")
			util.RespondWithAPIError(c, apierr.InsufficientWatchTime(req.WatchedSeconds, required))
			return
		}
	}

	window := cooldown.WindowLike
	if action == actionStar {
		window = cooldown.WindowStar
	}
	allowed, remaining, err := h.cooldowns.Attempt(c.Request.Context(), cooldown.Key(userID, action, videoID), window)
	if err != nil {
		util.RespondInternalError(c, "cooldown check failed")
		return
	}
	if !allowed {
		metrics.RecordRateLimited(action)
		util.RespondRateLimited(c, remaining.Milliseconds())
		return
	}

	result, err := applyVideoToggle(videoID, userID, action)
	if err != nil {
		metrics.RecordEngagement(action, "error")
		util.RespondInternalError(c, "failed to update reaction")
		return
	}
	metrics.RecordEngagement(action, "ok")

	switch action {
	case actionLike:
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"liked":         result.Reaction.Liked,
			"like_count":    result.Video.LikeCount,
			"dislike_count": result.Video.DislikeCount,
		})
	case actionDislike:
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"disliked":      result.Reaction.Disliked,
			"like_count":    result.Video.LikeCount,
			"dislike_count": result.Video.DislikeCount,
		})
	case actionStar:
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"starred":    result.Reaction.Starred,
			"star_count": result.Video.StarCount,
		})
	}
}

// videoToggleResult carries the post-toggle authoritative state
type videoToggleResult struct {
	Reaction models.VideoReaction
	Video    models.Video
}

// applyVideoToggle flips the reaction and adjusts the aggregates in one
// transaction. Liking clears an active dislike and vice versa; starring
// leaves like/dislike untouched.
func applyVideoToggle(videoID, userID, action string) (*videoToggleResult, error) {
	var result videoToggleResult

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var reaction models.VideoReaction
		err := tx.Where("user_id = ? AND video_id = ?", userID, videoID).First(&reaction).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			reaction = models.VideoReaction{UserID: userID, VideoID: videoID}
			if err := tx.Create(&reaction).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		likeDelta, dislikeDelta, starDelta := 0, 0, 0

		switch action {
		case actionLike:
			if reaction.Liked {
				reaction.Liked = false
				likeDelta = -1
			} else {
				reaction.Liked = true
				likeDelta = 1
				if reaction.Disliked {
					reaction.Disliked = false
					dislikeDelta = -1
				}
			}
		case actionDislike:
			if reaction.Disliked {
				reaction.Disliked = false
				dislikeDelta = -1
			} else {
				reaction.Disliked = true
				dislikeDelta = 1
				if reaction.Liked {
					reaction.Liked = false
					likeDelta = -1
				}
			}
		case actionStar:
			if reaction.Starred {
				reaction.Starred = false
				starDelta = -1
			} else {
				reaction.Starred = true
				starDelta = 1
			}
		}

		if err := tx.Model(&models.VideoReaction{}).
			Where("id = ?", reaction.ID).
			Updates(map[string]interface{}{
				"liked":    reaction.Liked,
				"disliked": reaction.Disliked,
				"starred":  reaction.Starred,
			}).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if likeDelta != 0 {
			updates["like_count"] = gorm.Expr("like_count + ?", likeDelta)
		}
		if dislikeDelta != 0 {
			updates["dislike_count"] = gorm.Expr("dislike_count + ?", dislikeDelta)
		}
		if starDelta != 0 {
			updates["star_count"] = gorm.Expr("star_count + ?", starDelta)
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Video{}).Where("id = ?", videoID).Updates(updates).Error; err != nil {
				return err
			}
		}

		// Re-read so the response carries the authoritative counts
		if err := tx.First(&result.Video, "id = ?", videoID).Error; err != nil {
			return err
		}
		result.Reaction = reaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// LikeComment toggles the viewer's like on a comment
// POST /api/v1/videos/:id/comments/:commentId/like
func (h *Handlers) LikeComment(c *gin.Context) {
	h.toggleCommentReaction(c, actionCommentLike)
}

// DislikeComment toggles the viewer's dislike on a comment
// POST /api/v1/videos/:id/comments/:commentId/dislike
func (h *Handlers) DislikeComment(c *gin.Context) {
	h.toggleCommentReaction(c, actionCommentDislike)
}

func (h *Handlers) toggleCommentReaction(c *gin.Context, action string) {
	videoID := c.Param("id")
	commentID := c.Param("commentId")
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var comment models.Comment
	if err := database.DB.First(&comment, "id = ? AND video_id = ? AND visible = ?", commentID, videoID, true).Error; err != nil {
		util.RespondNotFound(c, "comment")
		return
	}

	allowed, remaining, err := h.cooldowns.Attempt(c.Request.Context(), cooldown.Key(userID, action, commentID), cooldown.WindowCommentReact)
	if err != nil {
		util.RespondInternalError(c, "cooldown check failed")
		return
	}
	if !allowed {
		metrics.RecordRateLimited(action)
		util.RespondRateLimited(c, remaining.Milliseconds())
		return
	}

	result, err := applyCommentToggle(commentID, userID, action)
	if err != nil {
		metrics.RecordEngagement(action, "error")
		util.RespondInternalError(c, "failed to update comment reaction")
		return
	}
	metrics.RecordEngagement(action, "ok")

	switch action {
	case actionCommentLike:
		state := "unliked"
		if result.Reaction.Liked {
			state = "liked"
		}
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"action":        state,
			"liked":         result.Reaction.Liked,
			"like_count":    result.Comment.LikeCount,
			"dislike_count": result.Comment.DislikeCount,
		})
	case actionCommentDislike:
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"disliked":      result.Reaction.Disliked,
			"like_count":    result.Comment.LikeCount,
			"dislike_count": result.Comment.DislikeCount,
		})
	}
}

// commentToggleResult carries the post-toggle authoritative state
type commentToggleResult struct {
	Reaction models.CommentReaction
	Comment  models.Comment
}

func applyCommentToggle(commentID, userID, action string) (*commentToggleResult, error) {
	var result commentToggleResult

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var reaction models.CommentReaction
		err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&reaction).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			reaction = models.CommentReaction{UserID: userID, CommentID: commentID}
			if err := tx.Create(&reaction).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		likeDelta, dislikeDelta := 0, 0

		switch action {
		case actionCommentLike:
			if reaction.Liked {
				reaction.Liked = false
				likeDelta = -1
			} else {
				reaction.Liked = true
				likeDelta = 1
				if reaction.Disliked {
					reaction.Disliked = false
					dislikeDelta = -1
				}
			}
		case actionCommentDislike:
			if reaction.Disliked {
				reaction.Disliked = false
				dislikeDelta = -1
			} else {
				reaction.Disliked = true
				dislikeDelta = 1
				if reaction.Liked {
					reaction.Liked = false
					likeDelta = -1
				}
			}
		}

		if err := tx.Model(&models.CommentReaction{}).
			Where("id = ?", reaction.ID).
			Updates(map[string]interface{}{
				"liked":    reaction.Liked,
				"disliked": reaction.Disliked,
			}).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if likeDelta != 0 {
			updates["like_count"] = gorm.Expr("like_count + ?", likeDelta)
		}
		if dislikeDelta != 0 {
			updates["dislike_count"] = gorm.Expr("dislike_count + ?", dislikeDelta)
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).Updates(updates).Error; err != nil {
				return err
			}
		}

		if err := tx.First(&result.Comment, "id = ?", commentID).Error; err != nil {
			return err
		}
		result.Reaction = reaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
