package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/petsustain/petsustain-backend/internal/models"
	"gorm.io/gorm"
)

// SelectRole performs the one-time role assignment. The unique index on
// user_id makes the assignment immutable: a second attempt returns the
// role already held so the client can route to the right dashboard.
func SelectRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Role string `json:"role" binding:"required,oneof=donor rider shelter admin"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var existing models.UserRole
		err := db.Where("user_id = ?", userId).First(&existing).Error
		if err == nil {
			c.JSON(409, gin.H{
				"error":    "Role already assigned",
				"role":     existing.Role,
				"redirect": models.DashboardRoute(existing.Role),
			})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(503, gin.H{"error": "Role lookup unavailable"})
			return
		}

		userRole := models.UserRole{
			UserID: userId,
			Role:   input.Role,
		}

		if err := db.Create(&userRole).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to set role: " + err.Error()})
			return
		}

		c.JSON(201, gin.H{
			"message":  "Role selected successfully",
			"role":     userRole.Role,
			"redirect": models.DashboardRoute(userRole.Role),
		})
	}
}

// GetMyRole returns the caller's role, or 404 when none has been chosen
// yet (the client shows the role-selection screen on 404)
func GetMyRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var userRole models.UserRole
		err := db.Where("user_id = ?", userId).First(&userRole).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(404, gin.H{"error": "No role assigned"})
			return
		}
		if err != nil {
			c.JSON(503, gin.H{"error": "Role lookup unavailable"})
			return
		}

		c.JSON(200, gin.H{
			"role":     userRole.Role,
			"redirect": models.DashboardRoute(userRole.Role),
		})
	}
}
