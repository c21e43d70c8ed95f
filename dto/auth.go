package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/teamforge-api/models"
)

// TokenClaims represents our custom JWT claims
type TokenClaims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Principal builds the request principal carried by these claims.
func (c *TokenClaims) Principal() models.Principal {
	return models.Principal{ID: c.UserID, Username: c.Username, Email: c.Email}
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents signup data
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"required"`
}

// AuthResponse represents the response after authentication
type AuthResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// SupportRequest represents a support query submission
type SupportRequest struct {
	Query string `json:"query" binding:"required"`
}
