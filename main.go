package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	v1 "github.com/teamforge-api/api/v1"
	"github.com/teamforge-api/config"
	"github.com/teamforge-api/database"
	"github.com/teamforge-api/lib/storage"
	"github.com/teamforge-api/repositories"
	"github.com/teamforge-api/services"
)

func main() {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Load environment variables
	config.LoadEnv()

	// Initialize database
	database.Initialize()

	// File storage for project uploads
	uploads, err := storage.NewLocalStorage(config.GetEnv("UPLOAD_DIR", "uploads"))
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Wire stores, the audit recorder and services
	projectRepo := repositories.NewProjectRepository(database.DB)
	userRepo := repositories.NewUserRepository(database.DB)
	historyRepo := repositories.NewHistoryRepository(database.DB)

	recorder := services.NewHistoryRecorder(historyRepo)
	defer recorder.Close()

	projectService := services.NewProjectService(projectRepo, recorder)
	authService := services.NewAuthService(userRepo, historyRepo, recorder)

	// Initialize router
	router := gin.Default()

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.GetEnv("CORS_ORIGIN", "http://localhost:5173")},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	// Serve uploaded files statically
	router.Static("/uploads", uploads.Dir())

	// Register API routes
	api := router.Group("/api")
	v1.RegisterRoutes(
		api,
		v1.NewAuthController(authService),
		v1.NewProjectController(projectService, uploads),
	)

	// Start server
	port := config.GetEnv("PORT", "5000")
	log.Printf("🚀 TeamForge API starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
