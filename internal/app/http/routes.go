package routes

import (
	authapi "gallery-app/internal/api/auth"
	clientsapi "gallery-app/internal/api/clients"
	galleriesapi "gallery-app/internal/api/galleries"
	"gallery-app/internal/app/http/middleware"
	"gallery-app/internal/domain/accounts"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth      *authapi.Handler
	Clients   *clientsapi.Handler
	Galleries *galleriesapi.Handler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	api := r.Group("/api/v1")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := api.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())
	public.POST("/admin/signup", h.Auth.AdminSignup)
	public.POST("/auth/login", h.Auth.Login)

	// Authenticated
	auth := api.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/client/galleries", h.Galleries.ClientList)
	auth.POST("/client/galleries/:galleryId/photos/:photoId/favorite", h.Galleries.ToggleFavorite)

	// Admin-only
	admin := auth.Group("/")
	admin.Use(middleware.RequireRole(accounts.RoleAdmin))
	admin.POST("/client/create", h.Clients.Create)
	admin.GET("/admin/clients", h.Clients.List)
	admin.GET("/admin/galleries", h.Galleries.List)
	admin.POST("/admin/galleries", h.Galleries.Create)
	admin.PUT("/admin/galleries/:galleryId", h.Galleries.Update)
	admin.DELETE("/admin/galleries/:galleryId", h.Galleries.Delete)
	admin.POST("/admin/galleries/:galleryId/photos", h.Galleries.UploadPhoto)
}
