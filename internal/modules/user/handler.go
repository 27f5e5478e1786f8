package user

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/quillspace/core/internal/middleware"
	"github.com/quillspace/core/internal/pkg/imagebed"
	"github.com/quillspace/core/internal/pkg/pagination"
	"github.com/quillspace/core/internal/pkg/response"
)

type Handler struct {
	svc      *Service
	uploader *imagebed.Uploader
	logger   *zap.Logger
}

func NewHandler(svc *Service, uploader *imagebed.Uploader, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, uploader: uploader, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/user")

	g.GET("", adminMW, h.listAll)
	g.PATCH("/role/:userid", adminMW, h.toggleRole)

	g.GET("/:userid", authMW, h.get)
	g.PUT("/:userid", authMW, h.update)
	g.DELETE("/:userid", authMW, h.delete)
}

func (h *Handler) listAll(c *gin.Context) {
	users, meta, err := h.svc.ListAll(pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"users": users, "pagination": meta})
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.svc.Get(middleware.CurrentIdentity(c), c.Param("userid"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, gin.H{"user": u})
}

func (h *Handler) update(c *gin.Context) {
	dto, ok := h.bindUserData(c)
	if !ok {
		return
	}

	// The avatar upload resolves before the account is touched so a failed
	// upload cannot leave a half-updated profile.
	avatarURL, ok := h.uploadAvatar(c)
	if !ok {
		return
	}

	u, err := h.svc.Update(middleware.CurrentIdentity(c), c.Param("userid"), dto, avatarURL)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			response.Conflict(c, "Email already in use.")
			return
		}
		h.renderError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "User updated successfully.", "user": u})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(middleware.CurrentIdentity(c), c.Param("userid")); err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "User deleted successfully."})
}

func (h *Handler) toggleRole(c *gin.Context) {
	u, err := h.svc.ToggleRole(c.Param("userid"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "User role updated successfully.", "user": u})
}

// bindUserData accepts either a plain JSON body or a multipart form with
// the JSON document in a "data" field alongside the avatar file.
func (h *Handler) bindUserData(c *gin.Context) (*UpdateUserDTO, bool) {
	var dto UpdateUserDTO

	if raw := c.PostForm("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &dto); err != nil {
			response.BadRequest(c, "Invalid user data.")
			return nil, false
		}
	} else if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return nil, false
	}

	if err := binding.Validator.ValidateStruct(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return nil, false
	}
	return &dto, true
}

func (h *Handler) uploadAvatar(c *gin.Context) (string, bool) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return "", true
	}

	if h.uploader == nil {
		response.InternalError(c, errors.New("image bed not configured"))
		return "", false
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return "", false
	}
	defer f.Close()
	payload, err := io.ReadAll(f)
	if err != nil {
		response.InternalError(c, err)
		return "", false
	}

	url, err := h.uploader.Upload(c.Request.Context(), "avatars", fileHeader.Filename, payload)
	if err != nil {
		h.logger.Error("avatar upload failed", zap.Error(err))
		response.InternalError(c, err)
		return "", false
	}
	return url, true
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "User not found.")
	case errors.Is(err, ErrForbidden):
		response.Forbidden(c, "You are not authorized for this user.")
	default:
		response.InternalError(c, err)
	}
}
