package handlers

import (
	"net/http"

	"github.com/clipstream/clipstream/internal/database"
	"github.com/clipstream/clipstream/internal/models"
	"github.com/clipstream/clipstream/internal/util"
	"github.com/gin-gonic/gin"
)

// GetVideo returns a video with its engagement aggregates. When the request
// carries a valid token, the response also includes the viewer's own reaction
// state so the client can render the buttons without a second round trip.
// GET /api/v1/videos/:id
func (h *Handlers) GetVideo(c *gin.Context) {
	videoID := c.Param("id")

	var video models.Video
	if err := database.DB.Preload("User").First(&video, "id = ? AND visible = ?", videoID, true).Error; err != nil {
		util.RespondNotFound(c, "video")
		return
	}

	response := gin.H{"video": video}

	if viewerID := util.ViewerIDFromContext(c); viewerID != "" {
		var reaction models.VideoReaction
		engagement := gin.H{"liked": false, "disliked": false, "starred": false}
		if err := database.DB.Where("user_id = ? AND video_id = ?", viewerID, videoID).First(&reaction).Error; err == nil {
			engagement["liked"] = reaction.Liked
			engagement["disliked"] = reaction.Disliked
			engagement["starred"] = reaction.Starred
		}
		response["viewer_engagement"] = engagement
	}

	c.JSON(http.StatusOK, response)
}

// PatchVideoMetadata records player-reported playback metadata. Duration is
// what the star watch-time requirement is computed against; a zero duration
// means the requirement is zero and starring is always allowed.
// PATCH /api/v1/videos/:id/metadata
func (h *Handlers) PatchVideoMetadata(c *gin.Context) {
	videoID := c.Param("id")

	var req struct {
		Duration float64 `json:"duration" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "duration must be a positive number of seconds")
		return
	}

	result := database.DB.Model(&models.Video{}).
		Where("id = ? AND visible = ?", videoID, true).
		Update("duration", req.Duration)
	if result.Error != nil {
		util.RespondInternalError(c, "failed to update video metadata")
		return
	}
	if result.RowsAffected == 0 {
		util.RespondNotFound(c, "video")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "duration": req.Duration})
}
