package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/teamforge-api/models"
)

// principalFrom rebuilds the authenticated principal from the context
// values set by the auth middleware.
func principalFrom(c *gin.Context) (models.Principal, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		return models.Principal{}, false
	}
	username, _ := c.Get("username")
	email, _ := c.Get("email")

	principal := models.Principal{ID: userID.(string)}
	if s, ok := username.(string); ok {
		principal.Username = s
	}
	if s, ok := email.(string); ok {
		principal.Email = s
	}
	return principal, true
}
