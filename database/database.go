package database

import (
	"log"
	"os"

	"gallery-app/internal/domain/accounts"
	"gallery-app/internal/kvstore"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(
		&accounts.User{},
		&kvstore.Document{},
	); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}

	log.Println("Connected and migrated successfully")
}
