package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/petsustain/petsustain-backend/internal/models"
	"github.com/petsustain/petsustain-backend/pkg/utils"
	"gorm.io/gorm"
)

// RegisterShelter performs the one-time shelter registration for a
// shelter-role user
func RegisterShelter(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Name      string  `json:"name" binding:"required"`
			Address   string  `json:"address" binding:"required"`
			Phone     string  `json:"phone"`
			Capacity  int     `json:"capacity" binding:"required,min=1"`
			Latitude  float64 `json:"latitude" binding:"required"`
			Longitude float64 `json:"longitude" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if !utils.ValidCoordinates(input.Latitude, input.Longitude) {
			c.JSON(400, gin.H{"error": "Invalid coordinates"})
			return
		}

		var existing models.Shelter
		err := db.Where("user_id = ?", userId).First(&existing).Error
		if err == nil {
			c.JSON(409, gin.H{
				"error":   "Shelter already registered",
				"shelter": existing,
			})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(500, gin.H{"error": "Failed to check existing shelter"})
			return
		}

		shelter := models.Shelter{
			UserID:    userId,
			Name:      input.Name,
			Address:   input.Address,
			Phone:     input.Phone,
			Capacity:  input.Capacity,
			Latitude:  input.Latitude,
			Longitude: input.Longitude,
		}

		if err := db.Create(&shelter).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to register shelter: " + err.Error()})
			return
		}

		c.JSON(201, shelter)
	}
}

// GetMyShelter returns the caller's shelter, or 404 when none is
// registered yet (the client shows the setup form on 404)
func GetMyShelter(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var shelter models.Shelter
		err := db.Where("user_id = ?", userId).First(&shelter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(404, gin.H{"error": "Shelter not registered"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch shelter"})
			return
		}

		c.JSON(200, shelter)
	}
}

// GetShelterDonations lists donations routed to the caller's shelter,
// newest first
func GetShelterDonations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var shelter models.Shelter
		if err := db.Where("user_id = ?", userId).First(&shelter).Error; err != nil {
			c.JSON(404, gin.H{"error": "Shelter not registered"})
			return
		}

		var donations []models.Donation
		if err := db.Where("shelter_id = ?", shelter.ID).
			Order("created_at DESC").
			Find(&donations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch donations"})
			return
		}

		c.JSON(200, donations)
	}
}

// ListShelters returns all registered shelters (riders pick a delivery
// destination from this list)
func ListShelters(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var shelters []models.Shelter
		if err := db.Order("name").Find(&shelters).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch shelters"})
			return
		}

		c.JSON(200, shelters)
	}
}

// GetNearestShelter finds the registered shelter closest to a point
func GetNearestShelter(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		latStr := c.Query("lat")
		lngStr := c.Query("lng")

		if latStr == "" || lngStr == "" {
			c.JSON(400, gin.H{"error": "Latitude and longitude are required"})
			return
		}

		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid latitude"})
			return
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid longitude"})
			return
		}
		if !utils.ValidCoordinates(lat, lng) {
			c.JSON(400, gin.H{"error": "Invalid coordinates"})
			return
		}

		shelter, err := nearestShelter(db, lat, lng)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch shelters"})
			return
		}
		if shelter == nil {
			c.JSON(404, gin.H{"error": "No registered shelters"})
			return
		}

		c.JSON(200, gin.H{
			"shelter":  shelter,
			"distance": utils.HaversineDistance(lat, lng, shelter.Latitude, shelter.Longitude),
		})
	}
}
