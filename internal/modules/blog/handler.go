package blog

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/quillspace/core/internal/middleware"
	"github.com/quillspace/core/internal/pkg/imagebed"
	"github.com/quillspace/core/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	svc      *Service
	uploader *imagebed.Uploader
	logger   *zap.Logger
}

// NewHandler builds the blog handler. uploader may be nil when no image
// bed is configured; uploads then fail with an upstream error.
func NewHandler(svc *Service, uploader *imagebed.Uploader, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, uploader: uploader, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/blog")

	g.GET("/blogs", h.listPublic)
	g.GET("/get-blog/:slug", h.getBySlug)
	g.GET("/get-related-blog/:category/:blog", h.related)
	g.GET("/get-blog-by-category/:category", h.byCategory)
	g.GET("/search", h.search)

	g.POST("/add", authMW, h.add)
	g.GET("/edit/:blogid", authMW, h.edit)
	g.PUT("/update/:blogid", authMW, h.update)
	g.DELETE("/delete/:blogid", authMW, h.delete)
	g.GET("/get-all", authMW, h.listForDashboard)
}

func (h *Handler) add(c *gin.Context) {
	dto, ok := h.bindData(c)
	if !ok {
		return
	}

	// The external upload must resolve before any entity write so a failed
	// upload cannot leave a partially-updated blog behind.
	featuredImage, ok := h.uploadIfPresent(c, dto.FeaturedImage)
	if !ok {
		return
	}
	if featuredImage == "" {
		response.BadRequest(c, "Featured image is required.")
		return
	}

	b, err := h.svc.Create(middleware.CurrentIdentity(c), dto, featuredImage)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			response.BadRequest(c, "Category not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Blog added successfully.", "blog": b})
}

func (h *Handler) edit(c *gin.Context) {
	b, err := h.svc.GetForEdit(middleware.CurrentIdentity(c), c.Param("blogid"))
	if err != nil {
		h.renderMutationError(c, err)
		return
	}
	response.OK(c, gin.H{"blog": b})
}

func (h *Handler) update(c *gin.Context) {
	dto, ok := h.bindData(c)
	if !ok {
		return
	}

	featuredImage, ok := h.uploadIfPresent(c, dto.FeaturedImage)
	if !ok {
		return
	}

	b, err := h.svc.Update(middleware.CurrentIdentity(c), c.Param("blogid"), dto, featuredImage)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			response.BadRequest(c, "Category not found.")
			return
		}
		h.renderMutationError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Blog updated successfully.", "blog": b})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(middleware.CurrentIdentity(c), c.Param("blogid")); err != nil {
		h.renderMutationError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Blog deleted successfully."})
}

func (h *Handler) listPublic(c *gin.Context) {
	blogs, err := h.svc.ListPublic()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"blogs": blogs})
}

func (h *Handler) listForDashboard(c *gin.Context) {
	blogs, err := h.svc.ListForDashboard(middleware.CurrentIdentity(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"blogs": blogs})
}

func (h *Handler) getBySlug(c *gin.Context) {
	b, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Blog not found.")
			return
		}
		response.InternalError(c, err)
		return
	}

	go func(id string) { _ = h.svc.IncrementViews(id) }(b.ID)

	response.OK(c, gin.H{"blog": b})
}

func (h *Handler) related(c *gin.Context) {
	blogs, err := h.svc.Related(c.Param("category"), c.Param("blog"))
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			response.NotFound(c, "Category not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"relatedBlogs": blogs})
}

func (h *Handler) byCategory(c *gin.Context) {
	blogs, cat, err := h.svc.ByCategory(c.Param("category"))
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			response.NotFound(c, "Category not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"blogs": blogs, "categoryData": cat})
}

func (h *Handler) search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.BadRequest(c, "Search query is required.")
		return
	}
	blogs, err := h.svc.Search(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"blogs": blogs})
}

// bindData parses and validates the JSON document in the multipart "data"
// field.
func (h *Handler) bindData(c *gin.Context) (*BlogDataDTO, bool) {
	raw := c.PostForm("data")
	if raw == "" {
		response.BadRequest(c, "Blog data is required.")
		return nil, false
	}

	var dto BlogDataDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		response.BadRequest(c, "Invalid blog data.")
		return nil, false
	}
	if err := binding.Validator.ValidateStruct(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return nil, false
	}
	return &dto, true
}

// uploadIfPresent pushes an attached file to the image bed and returns its
// URL, or falls back to the URL already carried in the payload. The bool
// result is false when the request has been aborted.
func (h *Handler) uploadIfPresent(c *gin.Context, fallback string) (string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fallback, true
	}

	if h.uploader == nil {
		response.InternalError(c, errors.New("image bed not configured"))
		return "", false
	}

	payload, err := readMultipartFile(fileHeader)
	if err != nil {
		response.InternalError(c, err)
		return "", false
	}

	url, err := h.uploader.Upload(c.Request.Context(), "blogs", fileHeader.Filename, payload)
	if err != nil {
		h.logger.Error("featured image upload failed", zap.Error(err))
		response.InternalError(c, err)
		return "", false
	}
	return url, true
}

func (h *Handler) renderMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "Blog not found.")
	case errors.Is(err, ErrForbidden):
		response.Forbidden(c, "You are not authorized for this blog.")
	default:
		response.InternalError(c, err)
	}
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
