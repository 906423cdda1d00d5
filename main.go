package main

import (
	"log"
	"time"

	"gallery-app/config"
	"gallery-app/database"
	authapi "gallery-app/internal/api/auth"
	clientsapi "gallery-app/internal/api/clients"
	galleriesapi "gallery-app/internal/api/galleries"
	routes "gallery-app/internal/app/http"
	"gallery-app/internal/blobstore"
	"gallery-app/internal/gallery"
	"gallery-app/internal/identity"
	"gallery-app/internal/kvstore"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	blobs, err := blobstore.NewMinio(blobstore.MinioConfig{
		Endpoint:  config.MINIO_ENDPOINT,
		AccessKey: config.MINIO_ACCESS_KEY,
		SecretKey: config.MINIO_SECRET_KEY,
		Bucket:    config.MINIO_BUCKET,
		UseSSL:    config.MINIO_USE_SSL,
	})
	if err != nil {
		log.Fatal("Failed to initialize blob storage: ", err)
	}

	kv := kvstore.NewGorm(database.DB)
	ids := identity.NewService(database.DB, []byte(config.JWT_SECRET))
	svc := gallery.NewService(kv, blobs, config.SIGNED_URL_TTL)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Handlers{
		Auth:      authapi.NewHandler(ids, svc),
		Clients:   clientsapi.NewHandler(ids, svc),
		Galleries: galleriesapi.NewHandler(svc),
	})

	r.Run(":" + config.PORT)
}
