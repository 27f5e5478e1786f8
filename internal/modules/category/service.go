package category

import (
	"errors"
	"strings"

	"github.com/quillspace/core/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSlugTaken = errors.New("category with this slug already exists")
	ErrNotFound  = errors.New("category not found")
)

type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required,min=2,max=50"`
	Slug string `json:"slug" binding:"required"`
}

type UpdateCategoryDTO struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns all categories ordered by name.
func (s *Service) List() ([]models.CategoryModel, error) {
	var cats []models.CategoryModel
	return cats, s.db.Order("name ASC").Find(&cats).Error
}

func (s *Service) GetByID(id string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (s *Service) GetBySlug(slug string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.First(&cat, "slug = ?", normalizeSlug(slug)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

// Create inserts a category. Slug uniqueness is checked up front so that a
// duplicate produces a Conflict and never a half-created record.
func (s *Service) Create(dto *CreateCategoryDTO) (*models.CategoryModel, error) {
	slug := normalizeSlug(dto.Slug)

	var count int64
	if err := s.db.Model(&models.CategoryModel{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	cat := models.CategoryModel{Name: strings.TrimSpace(dto.Name), Slug: slug}
	return &cat, s.db.Create(&cat).Error
}

func (s *Service) Update(id string, dto *UpdateCategoryDTO) (*models.CategoryModel, error) {
	cat, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Slug != nil {
		slug := normalizeSlug(*dto.Slug)
		if slug != cat.Slug {
			var count int64
			if err := s.db.Model(&models.CategoryModel{}).Where("slug = ? AND id <> ?", slug, id).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, ErrSlugTaken
			}
		}
		updates["slug"] = slug
	}
	if len(updates) == 0 {
		return cat, nil
	}
	if err := s.db.Model(cat).Updates(updates).Error; err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *Service) Delete(id string) error {
	result := s.db.Delete(&models.CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
