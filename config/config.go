package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	CORS_ORIGIN string

	MINIO_ENDPOINT   string
	MINIO_ACCESS_KEY string
	MINIO_SECRET_KEY string
	MINIO_BUCKET     string
	MINIO_USE_SSL    bool

	SIGNED_URL_TTL time.Duration
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "*")

	MINIO_ENDPOINT = mustEnv("MINIO_ENDPOINT")
	MINIO_ACCESS_KEY = mustEnv("MINIO_ACCESS_KEY")
	MINIO_SECRET_KEY = mustEnv("MINIO_SECRET_KEY")
	MINIO_BUCKET = getEnv("MINIO_BUCKET", "gallery-photos")
	MINIO_USE_SSL = getEnv("MINIO_USE_SSL", "false") == "true"

	ttlSeconds, err := strconv.Atoi(getEnv("SIGNED_URL_TTL", "3600"))
	if err != nil || ttlSeconds <= 0 {
		log.Fatalf("Invalid SIGNED_URL_TTL: must be a positive number of seconds")
	}
	SIGNED_URL_TTL = time.Duration(ttlSeconds) * time.Second
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
