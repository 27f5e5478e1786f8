package category

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/quillspace/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts category routes. Mutations are admin-only; the
// full listing is public.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	g := rg.Group("/category")

	g.GET("/all-category", h.list)

	g.POST("", adminMW, h.create)
	g.PUT("/:categoryid", adminMW, h.update)
	g.DELETE("/:categoryid", adminMW, h.delete)
	g.GET("/single/:categoryid", adminMW, h.show)
}

func (h *Handler) list(c *gin.Context) {
	cats, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"count": len(cats), "categories": cats})
}

func (h *Handler) show(c *gin.Context) {
	cat, err := h.svc.GetByID(c.Param("categoryid"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Category not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"category": cat})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cat, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			response.Conflict(c, "Category with this slug already exists.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Category added successfully.", "category": cat})
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cat, err := h.svc.Update(c.Param("categoryid"), &dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "Category not found.")
		case errors.Is(err, ErrSlugTaken):
			response.Conflict(c, "Category with this slug already exists.")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, gin.H{"message": "Category updated successfully.", "category": cat})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("categoryid")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Category not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Category deleted successfully."})
}
