package handlers

import (
	"context"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/petsustain/petsustain-backend/internal/models"
	"github.com/petsustain/petsustain-backend/internal/services"
	"github.com/petsustain/petsustain-backend/pkg/utils"
	"gorm.io/gorm"
)

// CreateDonation handles the creation of a new food donation by a donor.
// The row always starts as pending with donor_id taken from the token,
// regardless of what the client sends.
func CreateDonation(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		donorID := c.GetUint("userId")

		var input struct {
			FoodType    string  `json:"foodType" binding:"required"`
			Quantity    string  `json:"quantity" binding:"required"`
			Description string  `json:"description"`
			Address     string  `json:"address" binding:"required"`
			Latitude    float64 `json:"latitude" binding:"required"`
			Longitude   float64 `json:"longitude" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if !utils.ValidCoordinates(input.Latitude, input.Longitude) {
			c.JSON(400, gin.H{"error": "Invalid coordinates"})
			return
		}

		donation := models.Donation{
			DonorID:     donorID,
			FoodType:    input.FoodType,
			Quantity:    input.Quantity,
			Description: input.Description,
			Address:     input.Address,
			Latitude:    input.Latitude,
			Longitude:   input.Longitude,
			Status:      models.DonationStatusPending,
		}

		if err := db.Create(&donation).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create donation"})
			return
		}

		// Push the new listing to rider and admin dashboards
		hub.SendDonationCreated(services.DonationCreated{Donation: &donation})

		ctx := context.Background()
		services.PublishDonationUpdate(ctx, donation.ID, "created", gin.H{
			"donorId":  donorID,
			"foodType": donation.FoodType,
		})
		services.InvalidateAdminStats(ctx)

		c.JSON(201, donation)
	}
}

// UploadDonationPhoto attaches a photo of the food to a donation
func UploadDonationPhoto(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		donorID := c.GetUint("userId")

		donationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid donation ID"})
			return
		}

		var donation models.Donation
		if err := db.First(&donation, donationID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Donation not found"})
			return
		}

		if donation.DonorID != donorID {
			c.JSON(403, gin.H{"error": "Unauthorized to update this donation"})
			return
		}

		file, err := c.FormFile("photo")
		if err != nil {
			c.JSON(400, gin.H{"error": "Photo file is required"})
			return
		}

		photoURL, err := services.UploadImage(file, "donations")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload photo: " + err.Error()})
			return
		}

		if err := db.Model(&donation).Update("photo_url", photoURL).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save photo URL"})
			return
		}

		// Replacing a photo orphans the old object
		if donation.PhotoURL != "" {
			if err := services.DeleteImage(donation.PhotoURL); err != nil {
				log.Printf("Failed to delete old photo: %v", err)
			}
		}

		c.JSON(200, gin.H{
			"message":  "Photo uploaded successfully",
			"photoUrl": photoURL,
		})
	}
}

// GetMyDonations retrieves the donor's own donations, newest first
func GetMyDonations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		donorID := c.GetUint("userId")

		var donations []models.Donation
		if err := db.Where("donor_id = ?", donorID).
			Order("created_at DESC").
			Find(&donations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch donations"})
			return
		}

		c.JSON(200, donations)
	}
}

// GetOpenDonations lists donations riders can act on (pending or assigned),
// optionally filtered to a radius around the rider's position
func GetOpenDonations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var donations []models.Donation
		if err := db.Where("status IN (?)", []string{
			models.DonationStatusPending,
			models.DonationStatusAssigned,
		}).
			Order("created_at DESC").
			Find(&donations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch donations"})
			return
		}

		latStr := c.Query("lat")
		lngStr := c.Query("lng")
		if latStr == "" || lngStr == "" {
			c.JSON(200, donations)
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
		radius, err := strconv.ParseFloat(c.DefaultQuery("radius", "50"), 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid radius"})
			return
		}
		if !utils.ValidCoordinates(lat, lng) {
			c.JSON(400, gin.H{"error": "Invalid coordinates"})
			return
		}

		// Coarse bounding-box cut, then precise Haversine filter
		bbox := utils.GetBoundingBox(lat, lng, radius)
		nearby := make([]models.Donation, 0, len(donations))
		for _, donation := range donations {
			point := utils.Point{Lat: donation.Latitude, Lng: donation.Longitude}
			if !utils.IsPointInBoundingBox(point, bbox) {
				continue
			}
			if utils.IsWithinRadius(lat, lng, donation.Latitude, donation.Longitude, radius) {
				nearby = append(nearby, donation)
			}
		}

		c.JSON(200, nearby)
	}
}

// GetDonation retrieves a single donation. Visible to its donor, its
// assigned rider, and admins.
func GetDonation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		donationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid donation ID"})
			return
		}

		var donation models.Donation
		if err := db.Preload("Donor").Preload("Rider").Preload("Shelter").
			First(&donation, donationID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Donation not found"})
			return
		}

		isDonor := donation.DonorID == userID
		isRider := donation.RiderID != nil && *donation.RiderID == userID

		if !isDonor && !isRider {
			var userRole models.UserRole
			err := db.Where("user_id = ? AND role = ?", userID, models.RoleAdmin).
				First(&userRole).Error
			if err != nil {
				c.JSON(403, gin.H{"error": "Unauthorized to view this donation"})
				return
			}
		}

		c.JSON(200, donation)
	}
}
