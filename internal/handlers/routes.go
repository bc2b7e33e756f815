package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/proyecthub/proyecthub-api/internal/middleware"
)

// RegisterRoutes mounts the API under api. Mutations and the audit log sit
// behind auth; reads and image upload are public. Only the export download
// accepts the token as a query param.
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup, validator *middleware.TokenValidator) {
	auth := middleware.Auth(validator)

	api.GET("/health", h.Health.Index)

	api.POST("/auth/login", h.Auth.Login)

	projects := api.Group("/projects")
	{
		projects.GET("", h.Project.Index)
		projects.GET("/:id", h.Project.Show)
		projects.POST("/upload-image", h.Image.Upload)
		projects.POST("", auth, h.Project.Create)
		projects.PUT("/:id", auth, h.Project.Update)
		projects.DELETE("/:id", auth, h.Project.Delete)
	}

	api.GET("/audit/export", middleware.DownloadAuth(validator), h.Audit.Export)

	audit := api.Group("/audit", auth)
	{
		audit.GET("", h.Audit.Index)
		audit.GET("/:id", h.Audit.Show)
		audit.POST("", h.Audit.Register)
		audit.POST("/:id/restore", h.Audit.Restore)
		audit.POST("/revoke/:id", h.Audit.Restore)
	}

	api.GET("/users", auth, h.User.Index)
}
