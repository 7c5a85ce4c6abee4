package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sahatak/utils"
)

// Context keys set by JWTAuthMiddleware.
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// JWTAuthMiddleware requires a valid bearer token and exposes the caller's
// id and role to the handlers.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Insufficient authorization"})
			return
		}

		userID, role, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, role)
		c.Next()
	}
}
