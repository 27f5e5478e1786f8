package comment

import (
	"errors"
	"strings"

	"github.com/quillspace/core/internal/middleware"
	"github.com/quillspace/core/internal/models"
	"github.com/quillspace/core/internal/pkg/jwt"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("comment not found")
	ErrForbidden = errors.New("not authorized for this comment")
)

type CreateCommentDTO struct {
	BlogID  string `json:"blogid"  binding:"required"`
	Comment string `json:"comment" binding:"required,max=500"`
}

type UpdateCommentDTO struct {
	Comment string `json:"comment" binding:"required,max=500"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create inserts a comment and returns it with the author joined.
func (s *Service) Create(userID string, dto *CreateCommentDTO) (*models.CommentModel, error) {
	cm := models.CommentModel{
		UserID:  userID,
		BlogID:  dto.BlogID,
		Comment: strings.TrimSpace(dto.Comment),
	}
	if err := s.db.Create(&cm).Error; err != nil {
		return nil, err
	}
	return s.getByID(cm.ID)
}

// ListForBlog returns a blog's comments, newest first, authors joined.
func (s *Service) ListForBlog(blogID string) ([]models.CommentModel, error) {
	var comments []models.CommentModel
	err := s.db.Preload("User").
		Where("blog_id = ?", blogID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// CountForBlog returns the live comment count for a blog.
func (s *Service) CountForBlog(blogID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.CommentModel{}).Where("blog_id = ?", blogID).Count(&count).Error
	return count, err
}

// ListAll returns every comment for admins and the caller's own comments
// otherwise, newest first.
func (s *Service) ListAll(identity *jwt.Claims) ([]models.CommentModel, error) {
	tx := s.db.Preload("User").Preload("Blog").Order("created_at DESC")
	if !identity.IsAdmin() {
		tx = tx.Where("user_id = ?", identity.UserID)
	}
	var comments []models.CommentModel
	return comments, tx.Find(&comments).Error
}

// Update replaces a comment's text. The ownership rule is evaluated
// against the freshly read row's author, never the token or a cache.
func (s *Service) Update(identity *jwt.Claims, id string, dto *UpdateCommentDTO) (*models.CommentModel, error) {
	existing, err := s.getByID(id)
	if err != nil {
		return nil, err
	}
	if !middleware.IsOwnerOrAdmin(identity, existing.UserID) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{
		"comment":   strings.TrimSpace(dto.Comment),
		"is_edited": true,
	}
	if err := s.db.Model(existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.getByID(id)
}

// Delete removes a comment, subject to the same ownership rule as Update.
func (s *Service) Delete(identity *jwt.Claims, id string) error {
	existing, err := s.getByID(id)
	if err != nil {
		return err
	}
	if !middleware.IsOwnerOrAdmin(identity, existing.UserID) {
		return ErrForbidden
	}
	return s.db.Delete(&models.CommentModel{}, "id = ?", id).Error
}

func (s *Service) getByID(id string) (*models.CommentModel, error) {
	var cm models.CommentModel
	if err := s.db.Preload("User").First(&cm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cm, nil
}
