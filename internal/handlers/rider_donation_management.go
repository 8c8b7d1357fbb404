package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/petsustain/petsustain-backend/internal/models"
	"github.com/petsustain/petsustain-backend/internal/services"
	"github.com/petsustain/petsustain-backend/pkg/utils"
	"gorm.io/gorm"
)

// AcceptDonation lets a rider claim a pending donation. The update is
// conditional on the current status, so of two riders racing for the same
// donation exactly one wins; the other gets a 409.
func AcceptDonation(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		riderID := c.GetUint("userId")

		donationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid donation ID"})
			return
		}

		result := db.Model(&models.Donation{}).
			Where("id = ? AND status = ?", donationID, models.DonationStatusPending).
			Updates(map[string]interface{}{
				"rider_id": riderID,
				"status":   models.DonationStatusAssigned,
			})
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to accept donation"})
			return
		}

		if result.RowsAffected == 0 {
			var donation models.Donation
			if err := db.First(&donation, donationID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Donation not found"})
				return
			}
			c.JSON(409, gin.H{"error": "Donation is no longer available"})
			return
		}

		var donation models.Donation
		if err := db.First(&donation, donationID).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to reload donation"})
			return
		}

		claimed := services.DonationClaimed{
			DonationID: donation.ID,
			RiderID:    riderID,
			Status:     donation.Status,
		}
		hub.SendDonationClaimed(donation.DonorID, claimed)

		ctx := context.Background()
		services.PublishDonationUpdate(ctx, donation.ID, "claimed", gin.H{
			"riderId": riderID,
		})
		services.InvalidateAdminStats(ctx)

		c.JSON(200, gin.H{
			"message":    "Order accepted. Please pick up the donation.",
			"donationId": donation.ID,
			"status":     donation.Status,
		})
	}
}

// QualityCheckDonation records the rider's inspection of an assigned
// donation: approved moves it to picked_up, bio_waste to rejected. Only
// the assigned rider can check, and only while the donation is assigned.
func QualityCheckDonation(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		riderID := c.GetUint("userId")

		donationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid donation ID"})
			return
		}

		var input struct {
			Result string `json:"result" binding:"required,oneof=approved bio_waste"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		newStatus, ok := models.StatusForQuality(input.Result)
		if !ok {
			c.JSON(400, gin.H{"error": "Invalid quality-check result"})
			return
		}

		result := db.Model(&models.Donation{}).
			Where("id = ? AND status = ? AND rider_id = ?",
				donationID, models.DonationStatusAssigned, riderID).
			Updates(map[string]interface{}{
				"quality_check": input.Result,
				"status":        newStatus,
			})
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update quality check"})
			return
		}

		if result.RowsAffected == 0 {
			var donation models.Donation
			if err := db.First(&donation, donationID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Donation not found"})
				return
			}
			if donation.RiderID == nil || *donation.RiderID != riderID {
				c.JSON(403, gin.H{"error": "Donation is not assigned to you"})
				return
			}
			c.JSON(409, gin.H{"error": "Donation has already been checked"})
			return
		}

		var donation models.Donation
		if err := db.First(&donation, donationID).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to reload donation"})
			return
		}

		checked := services.QualityChecked{
			DonationID: donation.ID,
			RiderID:    riderID,
			Result:     input.Result,
			Status:     donation.Status,
		}
		hub.SendQualityChecked(donation.DonorID, checked)

		ctx := context.Background()
		services.PublishDonationUpdate(ctx, donation.ID, "quality_checked", gin.H{
			"result": input.Result,
			"status": donation.Status,
		})
		services.InvalidateAdminStats(ctx)

		message := "Food approved. Deliver to shelter."
		if input.Result == models.QualityBioWaste {
			message = "Food marked for bio waste disposal."
		}

		c.JSON(200, gin.H{
			"message":    message,
			"donationId": donation.ID,
			"status":     donation.Status,
		})
	}
}

// DeliverDonation completes the lifecycle: picked_up -> delivered. The
// rider names the destination shelter, or the nearest registered shelter
// to the pickup point is chosen when the body is empty.
func DeliverDonation(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		riderID := c.GetUint("userId")

		donationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid donation ID"})
			return
		}

		var input struct {
			ShelterID *uint `json:"shelterId"`
		}
		// Body is optional; an empty body means "nearest shelter"
		if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var donation models.Donation
		if err := db.First(&donation, donationID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Donation not found"})
			return
		}

		if donation.RiderID == nil || *donation.RiderID != riderID {
			c.JSON(403, gin.H{"error": "Donation is not assigned to you"})
			return
		}

		var shelter models.Shelter
		if input.ShelterID != nil {
			if err := db.First(&shelter, *input.ShelterID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Shelter not found"})
				return
			}
		} else {
			found, err := nearestShelter(db, donation.Latitude, donation.Longitude)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to find a shelter"})
				return
			}
			if found == nil {
				c.JSON(400, gin.H{"error": "No registered shelters to deliver to"})
				return
			}
			shelter = *found
		}

		now := time.Now()
		result := db.Model(&models.Donation{}).
			Where("id = ? AND status = ? AND rider_id = ?",
				donationID, models.DonationStatusPickedUp, riderID).
			Updates(map[string]interface{}{
				"shelter_id":   shelter.ID,
				"status":       models.DonationStatusDelivered,
				"delivered_at": &now,
			})
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to deliver donation"})
			return
		}

		if result.RowsAffected == 0 {
			c.JSON(409, gin.H{"error": "Donation must be picked up before delivery"})
			return
		}

		delivered := services.DonationDelivered{
			DonationID: donation.ID,
			ShelterID:  shelter.ID,
			Status:     models.DonationStatusDelivered,
		}
		hub.SendDonationDelivered(donation.DonorID, shelter.UserID, delivered)

		ctx := context.Background()
		services.PublishDonationUpdate(ctx, donation.ID, "delivered", gin.H{
			"shelterId": shelter.ID,
		})
		services.InvalidateAdminStats(ctx)

		c.JSON(200, gin.H{
			"message":    "Donation delivered to " + shelter.Name,
			"donationId": donation.ID,
			"shelterId":  shelter.ID,
			"status":     models.DonationStatusDelivered,
		})
	}
}

// GetRiderAssignedDonations lists donations currently assigned to the rider
func GetRiderAssignedDonations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		riderID := c.GetUint("userId")

		var donations []models.Donation
		if err := db.Preload("Donor").
			Where("rider_id = ? AND status IN (?)", riderID, []string{
				models.DonationStatusAssigned,
				models.DonationStatusPickedUp,
			}).
			Order("created_at DESC").
			Find(&donations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch assigned donations"})
			return
		}

		c.JSON(200, donations)
	}
}

// nearestShelter picks the registered shelter closest to a pickup point
func nearestShelter(db *gorm.DB, lat, lng float64) (*models.Shelter, error) {
	var shelters []models.Shelter
	if err := db.Find(&shelters).Error; err != nil {
		return nil, err
	}
	if len(shelters) == 0 {
		return nil, nil
	}

	best := 0
	bestDistance := utils.HaversineDistance(lat, lng, shelters[0].Latitude, shelters[0].Longitude)
	for i := 1; i < len(shelters); i++ {
		distance := utils.HaversineDistance(lat, lng, shelters[i].Latitude, shelters[i].Longitude)
		if distance < bestDistance {
			best = i
			bestDistance = distance
		}
	}

	return &shelters[best], nil
}
