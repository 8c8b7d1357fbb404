package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/petsustain/petsustain-backend/internal/models"
	"github.com/petsustain/petsustain-backend/pkg/utils"
	"gorm.io/gorm"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// First try to get token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// If not found in header, try query parameter (for WebSocket)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(401, gin.H{"error": "Authorization header or token query parameter required"})
			c.Abort()
			return
		}

		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.JSON(401, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		c.Set("userId", uint(claims["id"].(float64)))
		c.Next()
	}
}

// RequireRole gates a route on the caller's role record. Roles live in the
// user_roles table rather than in the token so a freshly selected role takes
// effect without re-login. Lookup failures other than a missing row fail
// closed: a flaky database must not read as "not authorized" or grant access.
func RequireRole(db *gorm.DB, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var userRole models.UserRole
		err := db.Where("user_id = ?", userID).First(&userRole).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(403, gin.H{"error": "No role assigned. Select a role first."})
			c.Abort()
			return
		}
		if err != nil {
			c.JSON(503, gin.H{"error": "Role lookup unavailable"})
			c.Abort()
			return
		}

		if userRole.Role != role {
			c.JSON(403, gin.H{"error": "Access denied. " + role + " privileges required."})
			c.Abort()
			return
		}

		c.Set("role", userRole.Role)
		c.Next()
	}
}
