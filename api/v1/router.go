package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, auth *AuthController, projects *ProjectController) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	auth.RegisterRoutes(router)
	projects.RegisterRoutes(router)
}
