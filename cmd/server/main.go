package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"
	"tunelink/internal/db"
	"tunelink/internal/docstore"
	"tunelink/internal/router"
	"tunelink/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Media storage
	media, err := services.NewMediaService(os.Getenv("UPLOAD_DIR"))
	if err != nil {
		log.Fatalf("Failed to init media storage: %v", err)
	}

	// 文档库同步：MONGO_URI 未配置时跳过，应用只跑主库
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		dbName := os.Getenv("MONGO_DB")
		if dbName == "" {
			dbName = "tunelink"
		}
		docs, err := docstore.Connect(context.Background(), uri, dbName)
		if err != nil {
			log.Fatalf("Failed to connect to document store: %v", err)
		}
		services.NewSyncService(db.DB, docs, syncInterval()).Start()
		log.Println("Document store sync started")
	} else {
		log.Println("MONGO_URI not set, document store sync disabled")
	}

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("tunelink_session", store))

	// Static Assets
	r.Static("/static", "./web/static")
	r.Static("/uploads", media.Dir())
	r.StaticFile("/logo.png", "./web/static/logo.png")

	// Routes
	router.RegisterRoutes(r, media)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("TuneLink server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

// syncInterval SYNC_INTERVAL 以秒为单位，默认 5 分钟
func syncInterval() time.Duration {
	if v := os.Getenv("SYNC_INTERVAL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		log.Printf("Invalid SYNC_INTERVAL %q, using default", v)
	}
	return 5 * time.Minute
}
