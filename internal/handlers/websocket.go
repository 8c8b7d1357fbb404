package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/petsustain/petsustain-backend/internal/models"
	"github.com/petsustain/petsustain-backend/internal/services"
	"gorm.io/gorm"
)

// WebSocketHandler upgrades the connection and registers the client with
// the hub. The role is looked up fresh so role-targeted broadcasts reach
// a user who picked a role after logging in.
func WebSocketHandler(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		role := ""
		var userRole models.UserRole
		err := db.Where("user_id = ?", userId).First(&userRole).Error
		if err == nil {
			role = userRole.Role
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(503, gin.H{"error": "Role lookup unavailable"})
			return
		}

		services.HandleWebSocket(hub, c.Writer, c.Request, userId, role)
	}
}
