// Package seed populates the database with realistic development data.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/clipstream/clipstream/internal/logger"
	"github.com/clipstream/clipstream/internal/models"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev fills the development database: users, videos, comments with one
// level of replies, and reaction rows consistent with the video counters.
func (s *Seeder) SeedDev() error {
	logger.Log.Info("Creating users...")
	users, err := s.seedUsers(50)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Log.Info("Creating videos...")
	videos, err := s.seedVideos(users, 120)
	if err != nil {
		return fmt.Errorf("failed to seed videos: %w", err)
	}

	logger.Log.Info("Creating comments...")
	comments, err := s.seedComments(users, videos, 400)
	if err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	logger.Log.Info("Creating reactions...")
	if err := s.seedReactions(users, videos, comments); err != nil {
		return fmt.Errorf("failed to seed reactions: %w", err)
	}

	return nil
}

// SeedTest creates the minimal fixture set for manual API poking
func (s *Seeder) SeedTest() error {
	users, err := s.seedUsers(3)
	if err != nil {
		return err
	}
	videos, err := s.seedVideos(users, 5)
	if err != nil {
		return err
	}
	_, err = s.seedComments(users, videos, 10)
	return err
}

// Clean removes all seeded rows
func (s *Seeder) Clean() error {
	for _, model := range []interface{}{
		&models.CommentReaction{},
		&models.VideoReaction{},
		&models.Comment{},
		&models.Video{},
		&models.User{},
	} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user := models.User{
			Username:    fmt.Sprintf("%s%d", gofakeit.Username(), i),
			DisplayName: gofakeit.Name(),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedVideos(users []models.User, count int) ([]models.Video, error) {
	videos := make([]models.Video, 0, count)
	for i := 0; i < count; i++ {
		owner := users[rand.Intn(len(users))]
		video := models.Video{
			UserID:      owner.ID,
			Title:       gofakeit.Sentence(rand.Intn(5) + 2),
			Description: gofakeit.Paragraph(1, 2, 8, " "),
			PlaybackURL: fmt.Sprintf("https://cdn.clipstream.dev/%s.m3u8", gofakeit.UUID()),
			Duration:    float64(rand.Intn(900) + 30),
			Visible:     true,
		}
		if err := s.db.Create(&video).Error; err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, nil
}

func (s *Seeder) seedComments(users []models.User, videos []models.Video, count int) ([]models.Comment, error) {
	comments := make([]models.Comment, 0, count)
	byVideo := make(map[string][]string)

	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		video := videos[rand.Intn(len(videos))]

		comment := models.Comment{
			VideoID: video.ID,
			UserID:  author.ID,
			Message: gofakeit.Sentence(rand.Intn(12) + 3),
			Visible: true,
		}

		// Roughly a third of comments are replies to an earlier top-level
		// comment on the same video
		if parents := byVideo[video.ID]; len(parents) > 0 && rand.Intn(3) == 0 {
			parentID := parents[rand.Intn(len(parents))]
			comment.ParentCommentID = &parentID
		}

		if err := s.db.Create(&comment).Error; err != nil {
			return nil, err
		}
		if comment.ParentCommentID == nil {
			byVideo[video.ID] = append(byVideo[video.ID], comment.ID)
		}
		comments = append(comments, comment)

		if err := s.db.Model(&models.Video{}).Where("id = ?", video.ID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
			return nil, err
		}
	}
	return comments, nil
}

func (s *Seeder) seedReactions(users []models.User, videos []models.Video, comments []models.Comment) error {
	for _, video := range videos {
		for _, user := range users {
			// Most user-video pairs have no reaction
			if rand.Intn(4) != 0 {
				continue
			}

			reaction := models.VideoReaction{UserID: user.ID, VideoID: video.ID}
			likeDelta, dislikeDelta, starDelta := 0, 0, 0

			switch rand.Intn(3) {
			case 0:
				reaction.Liked = true
				likeDelta = 1
			case 1:
				reaction.Disliked = true
				dislikeDelta = 1
			case 2:
				reaction.Liked = true
				reaction.Starred = true
				likeDelta, starDelta = 1, 1
			}

			if err := s.db.Create(&reaction).Error; err != nil {
				return err
			}
			if err := s.db.Model(&models.Video{}).Where("id = ?", video.ID).
				UpdateColumns(map[string]interface{}{
					"like_count":    gorm.Expr("like_count + ?", likeDelta),
					"dislike_count": gorm.Expr("dislike_count + ?", dislikeDelta),
					"star_count":    gorm.Expr("star_count + ?", starDelta),
				}).Error; err != nil {
				return err
			}
		}
	}

	for _, comment := range comments {
		for i := 0; i < rand.Intn(4); i++ {
			user := users[rand.Intn(len(users))]

			var existing models.CommentReaction
			if err := s.db.Where("user_id = ? AND comment_id = ?", user.ID, comment.ID).First(&existing).Error; err == nil {
				continue
			}

			reaction := models.CommentReaction{UserID: user.ID, CommentID: comment.ID, Liked: true}
			if err := s.db.Create(&reaction).Error; err != nil {
				return err
			}
			if err := s.db.Model(&models.Comment{}).Where("id = ?", comment.ID).
				UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
