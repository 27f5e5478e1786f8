package comment

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/quillspace/core/internal/middleware"
	"github.com/quillspace/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/comment")

	g.GET("/blog/:blogid", h.listForBlog)
	g.GET("/blog/:blogid/count", h.countForBlog)

	g.POST("", authMW, h.create)
	g.PUT("/:commentid", authMW, h.update)
	g.DELETE("/:commentid", authMW, h.delete)
	g.GET("", authMW, h.listAll)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "All fields are required (blogid, comment).")
		return
	}

	identity := middleware.CurrentIdentity(c)
	cm, err := h.svc.Create(identity.UserID, &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Comment submitted successfully.", "comment": cm})
}

func (h *Handler) listForBlog(c *gin.Context) {
	comments, err := h.svc.ListForBlog(c.Param("blogid"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"comments": comments})
}

func (h *Handler) countForBlog(c *gin.Context) {
	count, err := h.svc.CountForBlog(c.Param("blogid"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"count": count})
}

func (h *Handler) listAll(c *gin.Context) {
	comments, err := h.svc.ListAll(middleware.CurrentIdentity(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"comments": comments})
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Comment ID and new content are required.")
		return
	}

	cm, err := h.svc.Update(middleware.CurrentIdentity(c), c.Param("commentid"), &dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "Comment not found.")
		case errors.Is(err, ErrForbidden):
			response.Forbidden(c, "You are not authorized to update this comment.")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, gin.H{"message": "Comment updated successfully.", "comment": cm})
}

func (h *Handler) delete(c *gin.Context) {
	err := h.svc.Delete(middleware.CurrentIdentity(c), c.Param("commentid"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "Comment not found.")
		case errors.Is(err, ErrForbidden):
			response.Forbidden(c, "You are not authorized to delete this comment.")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, gin.H{"message": "Comment deleted successfully."})
}
