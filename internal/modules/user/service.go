package user

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/quillspace/core/internal/middleware"
	"github.com/quillspace/core/internal/models"
	"github.com/quillspace/core/internal/pkg/jwt"
	"github.com/quillspace/core/internal/pkg/pagination"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrForbidden  = errors.New("not allowed for this user")
	ErrEmailTaken = errors.New("email already in use")
)

type UpdateUserDTO struct {
	Name  string `json:"name"  binding:"omitempty,min=2,max=50"`
	Email string `json:"email" binding:"omitempty,email"`
	Bio   string `json:"bio"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListAll returns one page of accounts, newest first. Admin only, enforced
// at the route.
func (s *Service) ListAll(q pagination.Query) ([]models.UserModel, pagination.Meta, error) {
	var users []models.UserModel
	meta, err := pagination.Paginate(
		s.db.Model(&models.UserModel{}).Order("created_at DESC"), q, &users)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return users, meta, nil
}

// Get reads one account. Callers may read themselves; admins may read anyone.
func (s *Service) Get(identity *jwt.Claims, id string) (*models.UserModel, error) {
	if !middleware.IsOwnerOrAdmin(identity, id) {
		return nil, ErrForbidden
	}
	return s.find(id)
}

// Update edits an account's profile fields under the same self-or-admin
// rule. avatarURL is set only when non-empty; the upload already resolved
// by the time we get here.
func (s *Service) Update(identity *jwt.Claims, id string, dto *UpdateUserDTO, avatarURL string) (*models.UserModel, error) {
	if !middleware.IsOwnerOrAdmin(identity, id) {
		return nil, ErrForbidden
	}

	user, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(dto.Name); name != "" {
		user.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(dto.Email)); email != "" && email != user.Email {
		var count int64
		if err := s.db.Model(&models.UserModel{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
		user.Email = email
	}
	user.Bio = dto.Bio
	if avatarURL != "" {
		user.Avatar = avatarURL
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an account together with its comments and likes. Blogs stay
// behind so published content survives its author leaving.
func (s *Service) Delete(identity *jwt.Claims, id string) error {
	if !middleware.IsOwnerOrAdmin(identity, id) {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.UserModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Delete(&models.CommentModel{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BlogLikeModel{}, "user_id = ?", id).Error
	})
}

// ToggleRole flips an account between user and admin. The change only takes
// effect for the target on their next login, since tokens carry the role at
// issuance time.
func (s *Service) ToggleRole(id string) (*models.UserModel, error) {
	user, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin() {
		user.Role = models.RoleUser
	} else {
		user.Role = models.RoleAdmin
	}

	if err := s.db.Model(user).Update("role", user.Role).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) find(id string) (*models.UserModel, error) {
	var user models.UserModel
	err := s.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
