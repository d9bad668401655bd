package handlers

import (
	"net/http"
	"testing"

	"github.com/clipstream/clipstream/internal/cooldown"
	"github.com/clipstream/clipstream/internal/database"
	"github.com/clipstream/clipstream/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// ReactionTestSuite covers the video and comment reaction toggle endpoints
type ReactionTestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	handlers *Handlers
	user     *models.User
	video    *models.Video
}

func (suite *ReactionTestSuite) SetupSuite() {
	suite.db = newTestDB(suite.T(), "reactions_test")
	database.DB = suite.db

	suite.handlers = NewHandlers(cooldown.NewMemoryStore())

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	api := suite.router.Group("/api/v1")
	videos := api.Group("/videos")
	videos.Use(mockAuth())
	videos.POST("/:id/like", suite.handlers.LikeVideo)
	videos.POST("/:id/dislike", suite.handlers.DislikeVideo)
	videos.POST("/:id/star", suite.handlers.StarVideo)
	videos.POST("/:id/comments/:commentId/like", suite.handlers.LikeComment)
	videos.POST("/:id/comments/:commentId/dislike", suite.handlers.DislikeComment)
}

func (suite *ReactionTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM comment_reactions")
	suite.db.Exec("DELETE FROM video_reactions")
	suite.db.Exec("DELETE FROM comments")
	suite.db.Exec("DELETE FROM videos")
	suite.db.Exec("DELETE FROM users")

	// Each test starts with a fresh cooldown store so windows never leak
	// across tests
	suite.resetCooldowns()

	suite.user = &models.User{Username: "viewer1", DisplayName: "Viewer One"}
	require.NoError(suite.T(), suite.db.Create(suite.user).Error)

	suite.video = &models.Video{
		UserID:   suite.user.ID,
		Title:    "Test Clip",
		Duration: 100,
		Visible:  true,
	}
	require.NoError(suite.T(), suite.db.Create(suite.video).Error)
}

// resetCooldowns swaps in a fresh store, clearing any claimed windows so a
// test can perform back-to-back toggles without tripping the 429 path
func (suite *ReactionTestSuite) resetCooldowns() {
	suite.handlers.cooldowns = cooldown.NewMemoryStore()
}

func (suite *ReactionTestSuite) createComment(message string) *models.Comment {
	comment := &models.Comment{
		VideoID: suite.video.ID,
		UserID:  suite.user.ID,
		Message: message,
		Visible: true,
	}
	require.NoError(suite.T(), suite.db.Create(comment).Error)
	return comment
}

func (suite *ReactionTestSuite) TestLikeVideoToggle() {
	t := suite.T()

	w := performJSON(suite.router, "POST", "/api/v1/videos/"+suite.video.ID+"/like", nil, suite.user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["like_count"])

	// Toggling again removes the like
	suite.resetCooldowns()
	w = performJSON(suite.router, "POST", "/api/v1/videos/"+suite.video.ID+"/like", nil, suite.user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	body = decodeBody(t, w)
	assert.Equal(t, false, body["liked"])
	assert.Equal(t, float64(0), body["like_count"])

	var video models.Video
	suite.db.First(&video, "id = ?", suite.video.ID)
	assert.Equal(t, 0, video.LikeCount)
}

func (suite *ReactionTestSuite) TestDislikeClearsLike() {
	t := suite.T()

	w := performJSON(suite.router, "POST", "/api/v1/videos/"+suite.video.ID+"/like", nil, suite.user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(suite.router, "POST", "/api/v1/videos/"+suite.video.ID+"/dislike", nil, suite.user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["disliked"])
	assert.Equal(t, float64(0), body["like_count"])
	assert.Equal(t, float64(1), body["dislike_count"])

	var reaction models.VideoReaction
	require.NoError(t, suite.db.Where("user_id = ? AND video_id = ?", suite.user.ID, suite.video.ID).First(&reaction).Error)
	assert.False(t, reaction.Liked)
	assert.True(t, reaction.Disliked)
}

func (suite *ReactionTestSuite) TestLikeCooldown() {
	t := suite.T()

	w := performJSON(suite.router, "POST", "/api/v1/videos/"+suite.video.ID+"/like", nil, suite.user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	// Same user, same action, same target inside the window
	w = performJSON(suite.router, "POST", "/api/v1/videos/"+suite.video.ID+"/like", nil, suite.user.ID)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "RATE_LIMITED", body["code"])
	assert.Greater(t, body["remaining_ms"], float64(0))

	// The rejected attempt must not have changed state
	var video models.Video
	suite.db.First(&video, "id = ?", suite.video.ID)
	assert.Equal(t, 1, video.LikeCount)
}

func (suite *ReactionTestSuite) TestCooldownIsPerTarget() {
	t := suite.T()

	other := &models.Video{UserID: suite.user.ID, Title: "Another Clip", Duration: 60, Visible: true}
	require.NoError(t, suite.db.Create(other).Error)

	w := performJSON(suite.router, "POST", "/api/v1/videos/"+suite.video.ID+"/like", nil, suite.user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	// A different target is a different cooldown key
	w = performJSON(suite.router, "POST", "/api/v1/videos/"+other.ID+"/like", nil, suite.user.ID)
	assert.Equal(t, http.StatusOK, w.Code)
}

func (suite *ReactionTestSuite) TestStarRequiresWatchTime() {
	t := suite.T()

	// Duration 100s, requirement is 20s watched
	w := performJSON(suite.router, "POST", "/api/v1/videos/"+suite.video.ID+"/star",
		map[string]interface{}{"watched_seconds": 10}, suite.user.ID)
	require.Equal(t, http.StatusForbidden, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "INSUFFICIENT_WATCH_TIME", body["code"])

	var count int64
	suite.db.Model(&models.VideoReaction{}).Where("starred = ?", true).Count(&count)
	assert.Equal(t, int64(0), count)

	w = performJSON(suite.router, "POST", "/api/v1/videos/"+suite.video.ID+"/star",
		map[string]interface{}{"watched_seconds": 20}, suite.user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	body = decodeBody(t, w)
	assert.Equal(t, true, body["starred"])
	assert.Equal(t, float64(1), body["star_count"])
}

func (suite *ReactionTestSuite) TestUnstarSkipsWatchGate() {
	t := suite.T()

	w := performJSON(suite.router, "POST", "/api/v1/videos/"+suite.video.ID+"/star",
		map[string]interface{}{"watched_seconds": 50}, suite.user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	// Removing a star carries no watch requirement
	suite.resetCooldowns()
	w = performJSON(suite.router, "POST", "/api/v1/videos/"+suite.video.ID+"/star",
		map[string]interface{}{"watched_seconds": 0}, suite.user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["starred"])
	assert.Equal(t, float64(0), body["star_count"])
}

func (suite *ReactionTestSuite) TestStarZeroDurationAlwaysAllowed() {
	t := suite.T()

	// Duration unknown means the watch requirement computes to zero
	unknown := &models.Video{UserID: suite.user.ID, Title: "No Metadata Yet", Visible: true}
	require.NoError(t, suite.db.Create(unknown).Error)

	w := performJSON(suite.router, "POST", "/api/v1/videos/"+unknown.ID+"/star",
		map[string]interface{}{"watched_seconds": 0}, suite.user.ID)
	assert.Equal(t, http.StatusOK, w.Code)
}

func (suite *ReactionTestSuite) TestReactUnknownVideo() {
	t := suite.T()

	w := performJSON(suite.router, "POST", "/api/v1/videos/00000000-0000-0000-0000-000000000000/like", nil, suite.user.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *ReactionTestSuite) TestReactRequiresAuth() {
	t := suite.T()

	w := performJSON(suite.router, "POST", "/api/v1/videos/"+suite.video.ID+"/like", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (suite *ReactionTestSuite) TestCommentLikeToggle() {
	t := suite.T()

	comment := suite.createComment("nice clip")

	path := "/api/v1/videos/" + suite.video.ID + "/comments/" + comment.ID + "/like"
	w := performJSON(suite.router, "POST", path, nil, suite.user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "liked", body["action"])
	assert.Equal(t, float64(1), body["like_count"])

	suite.resetCooldowns()
	w = performJSON(suite.router, "POST", path, nil, suite.user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	body = decodeBody(t, w)
	assert.Equal(t, "unliked", body["action"])
	assert.Equal(t, float64(0), body["like_count"])
}

func (suite *ReactionTestSuite) TestCommentDislikeClearsLike() {
	t := suite.T()

	comment := suite.createComment("mixed feelings")

	base := "/api/v1/videos/" + suite.video.ID + "/comments/" + comment.ID
	w := performJSON(suite.router, "POST", base+"/like", nil, suite.user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(suite.router, "POST", base+"/dislike", nil, suite.user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["disliked"])
	assert.Equal(t, float64(0), body["like_count"])
	assert.Equal(t, float64(1), body["dislike_count"])
}

func (suite *ReactionTestSuite) TestCommentReactionCooldown() {
	t := suite.T()

	comment := suite.createComment("spam target")

	path := "/api/v1/videos/" + suite.video.ID + "/comments/" + comment.ID + "/like"
	w := performJSON(suite.router, "POST", path, nil, suite.user.ID)
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(suite.router, "POST", path, nil, suite.user.ID)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "RATE_LIMITED", body["code"])
}

func (suite *ReactionTestSuite) TestCommentReactionUnknownComment() {
	t := suite.T()

	path := "/api/v1/videos/" + suite.video.ID + "/comments/00000000-0000-0000-0000-000000000000/like"
	w := performJSON(suite.router, "POST", path, nil, suite.user.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReactionTestSuite(t *testing.T) {
	suite.Run(t, new(ReactionTestSuite))
}
