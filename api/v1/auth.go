package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamforge-api/dto"
	"github.com/teamforge-api/middleware"
	"github.com/teamforge-api/services"
)

// AuthController handles authentication and account API endpoints
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new auth controller
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// RegisterRoutes registers auth routes
func (c *AuthController) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", c.Signup)
		auth.POST("/login", c.Login)
		auth.POST("/logout", c.Logout)
	}

	authed := router.Group("/auth")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("/me", c.GetCurrentUser)
		authed.GET("/history", c.GetHistory)
		authed.POST("/support", c.SubmitSupportQuery)
	}
}

// Signup handles user registration
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	authResponse, err := c.authService.Register(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Registration failed",
			"error":   err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   authResponse,
	})
}

// Login handles user authentication
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	authResponse, err := c.authService.Login(req)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Authentication failed",
			"error":   err.Error(),
		})
		return
	}

	// Set token as HttpOnly cookie (expires in 24 hours)
	ctx.SetCookie(
		"access_token",     // name
		authResponse.Token, // value
		86400,              // max age (24 hours in seconds)
		"/",                // path
		"",                 // domain
		true,               // secure (HTTPS only)
		true,               // httpOnly (not accessible via JS)
	)

	// Also return token in response body for clients that prefer Bearer auth
	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   authResponse,
	})
}

// Logout handles user logout
func (c *AuthController) Logout(ctx *gin.Context) {
	// Clear the cookie by setting max-age to -1 (expired)
	ctx.SetCookie("access_token", "", -1, "/", "", true, true)

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the currently authenticated user's profile
func (c *AuthController) GetCurrentUser(ctx *gin.Context) {
	principal, ok := principalFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	user, err := c.authService.CurrentUser(principal.ID)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{
			"status":  "error",
			"message": "Failed to retrieve user profile",
			"error":   err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   user,
	})
}

// GetHistory returns the principal's audit history
func (c *AuthController) GetHistory(ctx *gin.Context) {
	principal, ok := principalFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	entries, err := c.authService.History(principal.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve history",
			"error":   err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"history": entries,
	})
}

// SubmitSupportQuery records a support query into the caller's history
func (c *AuthController) SubmitSupportQuery(ctx *gin.Context) {
	principal, ok := principalFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	var req dto.SupportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Support query is required",
		})
		return
	}

	if err := c.authService.SubmitSupportQuery(principal, req.Query); err != nil {
		ctx.JSON(statusForError(err), gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Support query received",
	})
}
