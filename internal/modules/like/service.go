package like

import (
	"errors"
	"strings"

	"github.com/quillspace/core/internal/models"
	"gorm.io/gorm"
)

// ToggleResult reports the state after a toggle. Liked means a like record
// exists for the (user, blog) pair after the operation. Every endpoint uses
// this one definition.
type ToggleResult struct {
	LikeCount int64
	Liked     bool
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Toggle flips the like membership for (userID, blogID) and returns the
// fresh count. The (user, blog) unique index is the sole concurrency
// guard: a duplicate insert losing the race is treated as "already liked"
// and retried as a delete, never as an error to the caller.
func (s *Service) Toggle(userID, blogID string) (ToggleResult, error) {
	res := s.db.Where("user_id = ? AND blog_id = ?", userID, blogID).Delete(&models.BlogLikeModel{})
	if res.Error != nil {
		return ToggleResult{}, res.Error
	}

	liked := false
	if res.RowsAffected == 0 {
		rec := models.BlogLikeModel{UserID: userID, BlogID: blogID}
		err := s.db.Create(&rec).Error
		switch {
		case err == nil:
			liked = true
		case isUniqueViolation(err):
			// Lost an insert race against a concurrent toggle: the pair is
			// already liked, so this toggle becomes the delete.
			if err := s.db.Where("user_id = ? AND blog_id = ?", userID, blogID).
				Delete(&models.BlogLikeModel{}).Error; err != nil {
				return ToggleResult{}, err
			}
		default:
			return ToggleResult{}, err
		}
	}

	count, err := s.Count(blogID)
	if err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{LikeCount: count, Liked: liked}, nil
}

// Count returns the live number of likes for a blog. Always a fresh count,
// never an incrementally maintained counter.
func (s *Service) Count(blogID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.BlogLikeModel{}).Where("blog_id = ?", blogID).Count(&count).Error
	return count, err
}

// IsLiked reports whether a like record currently exists for the pair.
func (s *Service) IsLiked(userID, blogID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.BlogLikeModel{}).
		Where("user_id = ? AND blog_id = ?", userID, blogID).Count(&count).Error
	return count > 0, err
}

// isUniqueViolation matches a duplicate-key failure across the MySQL
// driver and the SQLite driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint")
}
