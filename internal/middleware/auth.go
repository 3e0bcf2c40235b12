package middleware

import (
	"net/http"

	"goals-service/internal/service"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates the Authorization bearer token and puts the user ID in
// the request context.
func JWTAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		userID, err := auth.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// UserID reads the authenticated user ID set by JWTAuth.
func UserID(c *gin.Context) uint {
	return c.MustGet("user_id").(uint)
}
