package auth

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "user_id"
	userKey   = "user"
)

// Middleware authenticates every request and stores the user under the
// "user" and "user_id" context keys.
func Middleware(provider IdentityProvider, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := provider.Authenticate(c.Request.Context(), credential(provider, c.Request))
		if err != nil {
			message := "Invalid credentials"
			if errors.Is(err, ErrMissingCredentials) {
				message = "User not authenticated"
			}
			logger.Warn("Authentication failed",
				"path", c.Request.URL.Path,
				"request_id", c.GetHeader(utils.RequestIDHeader),
				"error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": message})
			return
		}

		SetUser(c, user)
		c.Next()
	}
}

// RequireAdmin must run after Middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied", "details": gin.H{"reason": "admin role required"}})
			return
		}
		c.Next()
	}
}

func SetUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
	c.Set(userIDKey, user.ID)
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

func IsAuthenticated(c *gin.Context) bool {
	_, ok := CurrentUser(c)
	return ok
}

// UserID is the authenticated user's id, or "" when there is none.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
