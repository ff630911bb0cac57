package db

import (
	"log"
	"os"
	"tunelink/internal/models"
	"tunelink/internal/utils"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Open opens an embedded SQLite database and runs migrations.
// Tests pass their own path (e.g. "file::memory:").
func Open(path string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// SQLite 单连接：写操作串行化，同时保证 :memory: 库不会被连接池拆成多个
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Event{},
		&models.Song{},
	); err != nil {
		return nil, err
	}

	return gdb, nil
}

func Init() {
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "tunelink.db"
	}

	var err error
	DB, err = Open(path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	log.Println("Database connection established")

	seedAdmin()
}

// seedAdmin 初始化管理员账号（仅当不存在任何管理员时）
func seedAdmin() {
	var count int64
	DB.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("No admin account and ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping seed")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		ArtistID:         utils.GenerateArtistID(),
		ArtistName:       "admin",
		Email:            email,
		Password:         hash,
		Role:             "admin",
		ProfilePhotoPath: "/static/default-pfp.png",
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to create admin account: %v", err)
		return
	}
	log.Printf("Admin account created, artistID %s", admin.ArtistID)
}
