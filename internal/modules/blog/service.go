package blog

import (
	"errors"
	"html"
	"strings"
	"time"

	"github.com/quillspace/core/internal/middleware"
	"github.com/quillspace/core/internal/models"
	"github.com/quillspace/core/internal/pkg/jwt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const relatedLimit = 5

var (
	ErrNotFound         = errors.New("blog not found")
	ErrForbidden        = errors.New("not authorized for this blog")
	ErrCategoryNotFound = errors.New("category not found")
)

// BlogDataDTO is the JSON document carried in the multipart "data" field.
type BlogDataDTO struct {
	Category      string   `json:"category" binding:"required"`
	Title         string   `json:"title"    binding:"required,min=5,max=150"`
	Slug          string   `json:"slug"`
	BlogContent   string   `json:"blogContent" binding:"required"`
	FeaturedImage string   `json:"featuredImage"`
	Tags          []string `json:"tags"`
	Status        string   `json:"status"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create persists a new blog for the authenticated author. Content is
// HTML-escaped at write time to neutralize markup; the slug gets a
// creation-timestamp suffix for uniqueness.
func (s *Service) Create(identity *jwt.Claims, dto *BlogDataDTO, featuredImage string) (*models.BlogModel, error) {
	if err := s.checkCategoryID(dto.Category); err != nil {
		return nil, err
	}

	base := dto.Slug
	if strings.TrimSpace(base) == "" {
		base = dto.Title
	}

	b := models.BlogModel{
		AuthorID:      identity.UserID,
		CategoryID:    dto.Category,
		Title:         strings.TrimSpace(dto.Title),
		Slug:          UniqueSlug(base, time.Now()),
		BlogContent:   html.EscapeString(dto.BlogContent),
		FeaturedImage: featuredImage,
		Tags:          normalizeTags(dto.Tags),
		Status:        normalizeStatus(dto.Status),
	}
	if err := s.db.Create(&b).Error; err != nil {
		return nil, err
	}
	return s.getByID(b.ID)
}

// GetForEdit returns a blog for its author or an admin.
func (s *Service) GetForEdit(identity *jwt.Claims, id string) (*models.BlogModel, error) {
	b, err := s.getByID(id)
	if err != nil {
		return nil, err
	}
	if !middleware.IsOwnerOrAdmin(identity, b.AuthorID) {
		return nil, ErrForbidden
	}
	return b, nil
}

// Update mutates a blog. The ownership rule runs against the freshly read
// row's author field.
func (s *Service) Update(identity *jwt.Claims, id string, dto *BlogDataDTO, featuredImage string) (*models.BlogModel, error) {
	existing, err := s.getByID(id)
	if err != nil {
		return nil, err
	}
	if !middleware.IsOwnerOrAdmin(identity, existing.AuthorID) {
		return nil, ErrForbidden
	}
	if err := s.checkCategoryID(dto.Category); err != nil {
		return nil, err
	}

	// Saved through the struct so the tags serializer runs; a column map
	// would bypass it.
	existing.CategoryID = dto.Category
	existing.Title = strings.TrimSpace(dto.Title)
	existing.BlogContent = html.EscapeString(dto.BlogContent)
	if slug := strings.ToLower(strings.TrimSpace(dto.Slug)); slug != "" {
		existing.Slug = slug
	}
	if dto.Status != "" {
		existing.Status = normalizeStatus(dto.Status)
	}
	if dto.Tags != nil {
		existing.Tags = models.StringSlice(normalizeTags(dto.Tags))
	}
	if featuredImage != "" {
		existing.FeaturedImage = featuredImage
	}

	if err := s.db.Omit(clause.Associations).Save(existing).Error; err != nil {
		return nil, err
	}
	return s.getByID(id)
}

// Delete removes a blog, subject to the ownership rule.
func (s *Service) Delete(identity *jwt.Claims, id string) error {
	existing, err := s.getByID(id)
	if err != nil {
		return err
	}
	if !middleware.IsOwnerOrAdmin(identity, existing.AuthorID) {
		return ErrForbidden
	}
	return s.db.Delete(&models.BlogModel{}, "id = ?", id).Error
}

// ListPublic returns every blog, newest first, with author and category
// joined. A dangling reference simply leaves the joined field empty.
func (s *Service) ListPublic() ([]models.BlogModel, error) {
	var blogs []models.BlogModel
	err := s.withJoins().Order("created_at DESC").Find(&blogs).Error
	return blogs, err
}

// ListForDashboard returns all blogs for admins and the caller's own
// blogs otherwise.
func (s *Service) ListForDashboard(identity *jwt.Claims) ([]models.BlogModel, error) {
	tx := s.withJoins().Order("created_at DESC")
	if !identity.IsAdmin() {
		tx = tx.Where("author_id = ?", identity.UserID)
	}
	var blogs []models.BlogModel
	return blogs, tx.Find(&blogs).Error
}

// GetBySlug fetches a single blog by slug.
func (s *Service) GetBySlug(slug string) (*models.BlogModel, error) {
	var b models.BlogModel
	if err := s.withJoins().Where("slug = ?", slug).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// IncrementViews bumps the view counter. Called asynchronously from the
// public single-blog read.
func (s *Service) IncrementViews(id string) error {
	return s.db.Model(&models.BlogModel{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// Related returns up to five other blogs in the same category.
func (s *Service) Related(categorySlug, excludeSlug string) ([]models.BlogModel, error) {
	cat, err := s.categoryBySlug(categorySlug)
	if err != nil {
		return nil, err
	}

	var blogs []models.BlogModel
	err = s.withJoins().
		Where("category_id = ? AND slug <> ?", cat.ID, excludeSlug).
		Limit(relatedLimit).
		Find(&blogs).Error
	return blogs, err
}

// ByCategory returns a category's blogs plus the category itself.
func (s *Service) ByCategory(categorySlug string) ([]models.BlogModel, *models.CategoryModel, error) {
	cat, err := s.categoryBySlug(categorySlug)
	if err != nil {
		return nil, nil, err
	}

	var blogs []models.BlogModel
	err = s.withJoins().Where("category_id = ?", cat.ID).Find(&blogs).Error
	return blogs, cat, err
}

// Search performs a case-insensitive substring match over title, slug, and
// content, delegated entirely to the store.
func (s *Service) Search(q string) ([]models.BlogModel, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	var blogs []models.BlogModel
	err := s.withJoins().
		Where("LOWER(title) LIKE ? OR LOWER(slug) LIKE ? OR LOWER(blog_content) LIKE ?", pattern, pattern, pattern).
		Find(&blogs).Error
	return blogs, err
}

func (s *Service) withJoins() *gorm.DB {
	return s.db.Model(&models.BlogModel{}).Preload("Author").Preload("Category")
}

func (s *Service) getByID(id string) (*models.BlogModel, error) {
	var b models.BlogModel
	if err := s.withJoins().First(&b, "blogs.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *Service) checkCategoryID(id string) error {
	var count int64
	if err := s.db.Model(&models.CategoryModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *Service) categoryBySlug(slug string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.First(&cat, "slug = ?", strings.ToLower(strings.TrimSpace(slug))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func normalizeTags(tags []string) models.StringSlice {
	out := make(models.StringSlice, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func normalizeStatus(status string) string {
	if strings.EqualFold(strings.TrimSpace(status), models.BlogPublished) {
		return models.BlogPublished
	}
	return models.BlogDraft
}
