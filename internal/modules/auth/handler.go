package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/quillspace/core/internal/middleware"
	"github.com/quillspace/core/internal/models"
	"github.com/quillspace/core/internal/pkg/imagebed"
	"github.com/quillspace/core/internal/pkg/jwt"
	"github.com/quillspace/core/internal/pkg/response"
)

type Handler struct {
	svc      *Service
	google   *GoogleVerifier
	uploader *imagebed.Uploader
	logger   *zap.Logger
	prod     bool
}

func NewHandler(svc *Service, google *GoogleVerifier, uploader *imagebed.Uploader, logger *zap.Logger, prod bool) *Handler {
	return &Handler{svc: svc, google: google, uploader: uploader, logger: logger, prod: prod}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")

	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/google-login", h.googleLogin)

	g.POST("/logout", authMW, h.logout)
	g.GET("/me", authMW, h.me)
	g.PUT("/update-profile", authMW, h.updateProfile)
	g.PUT("/update-password", authMW, h.updatePassword)
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.svc.Register(&dto); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			response.Conflict(c, "User already registered.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Registration successful."})
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.svc.Login(dto.Email, dto.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(c, "Invalid login credentials.")
		case errors.Is(err, ErrNoPassword):
			response.BadRequest(c, "This account uses Google login.")
		case errors.Is(err, ErrWrongPassword):
			response.Unauthorized(c, "Invalid login credentials.")
		default:
			response.InternalError(c, err)
		}
		return
	}

	h.issueSession(c, user, "Login successful.")
}

func (h *Handler) googleLogin(c *gin.Context) {
	var dto GoogleLoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.google.Verify(c.Request.Context(), dto.IDToken)
	if err != nil {
		if errors.Is(err, ErrInvalidIDToken) {
			response.Unauthorized(c, "Invalid Google credentials.")
			return
		}
		response.InternalError(c, err)
		return
	}

	user, err := h.svc.LocateOrCreate(profile)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	h.issueSession(c, user, "Login successful.")
}

func (h *Handler) logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	response.OK(c, gin.H{"message": "Logout successful."})
}

// me returns the account as currently stored, not the token snapshot, so
// profile edits show up without a re-login.
func (h *Handler) me(c *gin.Context) {
	user, err := h.svc.GetByID(middleware.CurrentIdentity(c).UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c, "User not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"user": user})
}

func (h *Handler) updateProfile(c *gin.Context) {
	dto, ok := h.bindProfileData(c)
	if !ok {
		return
	}

	// Resolve the avatar upload before touching the account so a failed
	// upload leaves the stored profile unchanged.
	avatarURL, ok := h.uploadAvatar(c)
	if !ok {
		return
	}

	identity := middleware.CurrentIdentity(c)
	user, err := h.svc.UpdateProfile(identity.UserID, dto, avatarURL)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(c, "User not found.")
		case errors.Is(err, ErrEmailTaken):
			response.Conflict(c, "Email already in use.")
		default:
			response.InternalError(c, err)
		}
		return
	}

	// The profile inside the token is stale now; hand out a fresh one.
	token, err := jwt.Sign(user, jwt.DefaultTTL)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.setSessionCookie(c, token, int(jwt.DefaultTTL.Seconds()))
	response.OK(c, gin.H{"message": "Profile updated successfully.", "user": user, "token": token})
}

func (h *Handler) updatePassword(c *gin.Context) {
	var dto UpdatePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.svc.UpdatePassword(middleware.CurrentIdentity(c).UserID, &dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(c, "User not found.")
		case errors.Is(err, ErrWrongPassword):
			response.Unauthorized(c, "Current password is incorrect.")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, gin.H{"message": "Password updated successfully."})
}

// issueSession signs a token for the account and delivers it both as the
// session cookie and in the body for clients that prefer bearer headers.
func (h *Handler) issueSession(c *gin.Context, user *models.UserModel, message string) {
	token, err := jwt.Sign(user, jwt.DefaultTTL)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	h.setSessionCookie(c, token, int(jwt.DefaultTTL.Seconds()))
	response.OK(c, gin.H{"message": message, "user": user, "token": token})
}

// bindProfileData accepts either a plain JSON body or a multipart form with
// the JSON document in a "data" field alongside the avatar file.
func (h *Handler) bindProfileData(c *gin.Context) (*UpdateProfileDTO, bool) {
	var dto UpdateProfileDTO

	if raw := c.PostForm("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &dto); err != nil {
			response.BadRequest(c, "Invalid profile data.")
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

func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	if h.prod {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.AccessTokenCookie, token, maxAge, "/", "", h.prod, true)
}
