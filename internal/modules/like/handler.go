package like

import (
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
	g := rg.Group("/blog-like")

	g.POST("/like", authMW, h.toggle)
	g.GET("/likes/:blogid", h.count)
	g.GET("/likes/:blogid/:userid", h.count)
}

type toggleDTO struct {
	BlogID string `json:"blogid" binding:"required"`
}

func (h *Handler) toggle(c *gin.Context) {
	var dto toggleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "User ID and Blog ID are required")
		return
	}

	identity := middleware.CurrentIdentity(c)
	result, err := h.svc.Toggle(identity.UserID, dto.BlogID)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	message := "Blog unliked"
	if result.Liked {
		message = "Blog liked"
	}
	response.OK(c, gin.H{
		"likecount":   result.LikeCount,
		"isUserliked": result.Liked,
		"message":     message,
	})
}

func (h *Handler) count(c *gin.Context) {
	blogID := c.Param("blogid")
	if blogID == "" {
		response.BadRequest(c, "Blog ID is required")
		return
	}

	count, err := h.svc.Count(blogID)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	liked := false
	if userID := c.Param("userid"); userID != "" {
		liked, err = h.svc.IsLiked(userID, blogID)
		if err != nil {
			response.InternalError(c, err)
			return
		}
	}

	response.OK(c, gin.H{"likecount": count, "isUserliked": liked})
}
