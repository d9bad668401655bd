package handlers

import (
	"net/http"
	"strconv"

	"github.com/clipstream/clipstream/internal/cooldown"
	"github.com/clipstream/clipstream/internal/database"
	"github.com/clipstream/clipstream/internal/logger"
	"github.com/clipstream/clipstream/internal/metrics"
	"github.com/clipstream/clipstream/internal/models"
	"github.com/clipstream/clipstream/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// deletedPlaceholder replaces the message of a soft-deleted comment. The row
// stays in listings so its replies keep their parent.
const deletedPlaceholder = "[Comment deleted]"

// GetComments retrieves a page of comments for a video, flat, with the
// viewer's per-comment like/dislike sets. Tree assembly happens client-side.
// Soft-deleted comments are included as placeholders so threads stay intact.
// GET /api/v1/videos/:id/comments?sort=&page=&page_size=&search=
func (h *Handlers) GetComments(c *gin.Context) {
	videoID := c.Param("id")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	sort := c.DefaultQuery("sort", "newest")
	search := c.Query("search")

	var video models.Video
	if err := database.DB.First(&video, "id = ? AND visible = ?", videoID, true).Error; err != nil {
		util.RespondNotFound(c, "video")
		return
	}

	query := database.DB.
		Preload("User").
		Where("video_id = ?", videoID)

	if search != "" {
		query = query.Where("LOWER(message) LIKE LOWER(?)", "%"+search+"%")
	}

	switch sort {
	case "oldest":
		query = query.Order("created_at ASC")
	case "top":
		query = query.Order("like_count DESC, created_at DESC")
	default: // newest
		query = query.Order("created_at DESC")
	}

	var comments []models.Comment
	if err := query.Limit(pageSize).Offset((page - 1) * pageSize).Find(&comments).Error; err != nil {
		util.RespondInternalError(c, "failed to get comments")
		return
	}

	var total int64
	countQuery := database.DB.Model(&models.Comment{}).Where("video_id = ?", videoID)
	if search != "" {
		countQuery = countQuery.Where("LOWER(message) LIKE LOWER(?)", "%"+search+"%")
	}
	if err := countQuery.Count(&total).Error; err != nil {
		logger.WarnWithFields("Failed to count comments for video "+videoID, err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	// Per-viewer engagement sets, empty for anonymous viewers
	likedComments := []string{}
	dislikedComments := []string{}
	if viewerID := util.ViewerIDFromContext(c); viewerID != "" {
		var reactions []models.CommentReaction
		err := database.DB.
			Joins("JOIN comments ON comments.id = comment_reactions.comment_id").
			Where("comment_reactions.user_id = ? AND comments.video_id = ?", viewerID, videoID).
			Find(&reactions).Error
		if err != nil {
			logger.WarnWithFields("Failed to load viewer comment reactions", err)
		}
		for _, r := range reactions {
			if r.Liked {
				likedComments = append(likedComments, r.CommentID)
			}
			if r.Disliked {
				dislikedComments = append(dislikedComments, r.CommentID)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages,
		},
		"user_engagement": gin.H{
			"liked_comments":    likedComments,
			"disliked_comments": dislikedComments,
		},
	})
}

// CreateComment creates a new top-level comment on a video
// POST /api/v1/videos/:id/comment
func (h *Handlers) CreateComment(c *gin.Context) {
	videoID := c.Param("id")
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Message string `json:"message" binding:"required,min=1,max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var video models.Video
	if err := database.DB.First(&video, "id = ? AND visible = ?", videoID, true).Error; err != nil {
		util.RespondNotFound(c, "video")
		return
	}

	allowed, remaining, err := h.cooldowns.Attempt(c.Request.Context(), cooldown.Key(userID, "comment", videoID), cooldown.WindowComment)
	if err != nil {
		util.RespondInternalError(c, "cooldown check failed")
		return
	}
	if !allowed {
		metrics.RecordRateLimited("comment")
		util.RespondRateLimited(c, remaining.Milliseconds())
		return
	}

	comment := models.Comment{
		VideoID: videoID,
		UserID:  userID,
		Message: req.Message,
		Visible: true,
	}

	if err := database.DB.Create(&comment).Error; err != nil {
		util.RespondInternalError(c, "failed to create comment")
		return
	}

	if err := database.DB.Model(&video).UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
		logger.WarnWithFields("Failed to increment comment count for video "+videoID, err)
	}

	if err := database.DB.Preload("User").First(&comment, "id = ?", comment.ID).Error; err != nil {
		logger.WarnWithFields("Failed to load comment with user for video "+videoID, err)
	}

	metrics.RecordCommentCreated("comment")

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"comment": comment,
	})
}

// CreateReply creates a reply to an existing comment. Storage keeps one
// nesting level: replying to a reply attaches to that reply's parent.
// POST /api/v1/videos/:id/comments/:commentId/reply
func (h *Handlers) CreateReply(c *gin.Context) {
	videoID := c.Param("id")
	parentID := c.Param("commentId")
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Message string `json:"message" binding:"required,min=1,max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var video models.Video
	if err := database.DB.First(&video, "id = ? AND visible = ?", videoID, true).Error; err != nil {
		util.RespondNotFound(c, "video")
		return
	}

	var parent models.Comment
	if err := database.DB.First(&parent, "id = ? AND video_id = ?", parentID, videoID).Error; err != nil {
		util.RespondNotFound(c, "comment")
		return
	}
	if !parent.Visible {
		util.RespondValidationError(c, "comment", "comment has been deleted")
		return
	}

	// One level of nesting - replying to a reply attaches to its parent
	effectiveParentID := parent.ID
	if parent.ParentCommentID != nil {
		effectiveParentID = *parent.ParentCommentID
	}

	allowed, remaining, err := h.cooldowns.Attempt(c.Request.Context(), cooldown.Key(userID, "comment", videoID), cooldown.WindowComment)
	if err != nil {
		util.RespondInternalError(c, "cooldown check failed")
		return
	}
	if !allowed {
		metrics.RecordRateLimited("comment")
		util.RespondRateLimited(c, remaining.Milliseconds())
		return
	}

	reply := models.Comment{
		VideoID:         videoID,
		UserID:          userID,
		Message:         req.Message,
		ParentCommentID: &effectiveParentID,
		Visible:         true,
	}

	if err := database.DB.Create(&reply).Error; err != nil {
		util.RespondInternalError(c, "failed to create reply")
		return
	}

	if err := database.DB.Model(&video).UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
		logger.WarnWithFields("Failed to increment comment count for video "+videoID, err)
	}

	if err := database.DB.Preload("User").First(&reply, "id = ?", reply.ID).Error; err != nil {
		logger.WarnWithFields("Failed to load reply with user for video "+videoID, err)
	}

	metrics.RecordCommentCreated("reply")

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"reply":   reply,
	})
}

// DeleteComment soft-deletes a comment; the row stays for threading
// DELETE /api/v1/videos/:id/comments/:commentId
func (h *Handlers) DeleteComment(c *gin.Context) {
	videoID := c.Param("id")
	commentID := c.Param("commentId")
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var comment models.Comment
	if err := database.DB.First(&comment, "id = ? AND video_id = ?", commentID, videoID).Error; err != nil {
		util.RespondNotFound(c, "comment")
		return
	}

	if comment.UserID != userID {
		util.RespondForbidden(c, "you do not own this comment")
		return
	}

	// Soft delete - mask the message but keep the row for threading
	if err := database.DB.Model(&comment).Updates(map[string]interface{}{
		"visible": false,
		"message": deletedPlaceholder,
	}).Error; err != nil {
		util.RespondInternalError(c, "failed to delete comment")
		return
	}

	if err := database.DB.Model(&models.Video{}).Where("id = ? AND comment_count > 0", videoID).
		UpdateColumn("comment_count", gorm.Expr("comment_count - 1")).Error; err != nil {
		logger.WarnWithFields("Failed to decrement comment count for video "+videoID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
