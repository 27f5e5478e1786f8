package app

import (
	"github.com/gin-gonic/gin"

	"github.com/quillspace/core/internal/middleware"
	"github.com/quillspace/core/internal/modules/auth"
	"github.com/quillspace/core/internal/modules/blog"
	"github.com/quillspace/core/internal/modules/category"
	"github.com/quillspace/core/internal/modules/comment"
	"github.com/quillspace/core/internal/modules/like"
	"github.com/quillspace/core/internal/modules/user"
	"github.com/quillspace/core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found.")
	})
	r.NoMethod(response.MethodNotAllowed)

	r.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	authMW := middleware.Auth()
	adminMW := middleware.OnlyAdmin()

	root := r.Group("")

	authHandler := auth.NewHandler(
		auth.NewService(a.db),
		auth.NewGoogleVerifier(a.cfg.GoogleClientID),
		a.uploader,
		a.logger,
		!a.cfg.IsDev(),
	)
	authHandler.RegisterRoutes(root, authMW)

	user.NewHandler(user.NewService(a.db), a.uploader, a.logger).RegisterRoutes(root, authMW, adminMW)
	category.NewHandler(category.NewService(a.db)).RegisterRoutes(root, adminMW)
	blog.NewHandler(blog.NewService(a.db), a.uploader, a.logger).RegisterRoutes(root, authMW)
	comment.NewHandler(comment.NewService(a.db)).RegisterRoutes(root, authMW)
	like.NewHandler(like.NewService(a.db)).RegisterRoutes(root, authMW)
}
