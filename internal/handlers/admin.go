package handlers

import (
	"context"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/petsustain/petsustain-backend/internal/models"
	"github.com/petsustain/petsustain-backend/internal/services"
	"gorm.io/gorm"
)

// AdminStats holds the six dashboard counters
type AdminStats struct {
	TotalDonors        int64 `json:"totalDonors"`
	TotalRiders        int64 `json:"totalRiders"`
	TotalShelters      int64 `json:"totalShelters"`
	TotalDonations     int64 `json:"totalDonations"`
	PendingDonations   int64 `json:"pendingDonations"`
	DeliveredDonations int64 `json:"deliveredDonations"`
}

// GetAdminStats serves the admin dashboard counters. Counts come from the
// Redis cache when a donation or role mutation hasn't invalidated it since
// the last read.
func GetAdminStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()

		var cached AdminStats
		if err := services.GetCachedAdminStats(ctx, &cached); err == nil {
			c.JSON(200, cached)
			return
		}

		var stats AdminStats

		counts := []struct {
			role string
			dest *int64
		}{
			{models.RoleDonor, &stats.TotalDonors},
			{models.RoleRider, &stats.TotalRiders},
			{models.RoleShelter, &stats.TotalShelters},
		}
		for _, count := range counts {
			if err := db.Model(&models.UserRole{}).
				Where("role = ?", count.role).
				Count(count.dest).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to count roles"})
				return
			}
		}

		if err := db.Model(&models.Donation{}).Count(&stats.TotalDonations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to count donations"})
			return
		}
		if err := db.Model(&models.Donation{}).
			Where("status = ?", models.DonationStatusPending).
			Count(&stats.PendingDonations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to count donations"})
			return
		}
		if err := db.Model(&models.Donation{}).
			Where("status = ?", models.DonationStatusDelivered).
			Count(&stats.DeliveredDonations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to count donations"})
			return
		}

		if err := services.CacheAdminStats(ctx, stats); err != nil {
			log.Printf("Failed to cache admin stats: %v", err)
		}

		c.JSON(200, stats)
	}
}

// GetRecentDonations serves the admin activity feed: latest donations
// with the donor's name preloaded
func GetRecentDonations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit < 1 || limit > 100 {
			c.JSON(400, gin.H{"error": "Invalid limit"})
			return
		}

		var donations []models.Donation
		if err := db.Preload("Donor").
			Order("created_at DESC").
			Limit(limit).
			Find(&donations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch donations"})
			return
		}

		feed := make([]gin.H, 0, len(donations))
		for _, donation := range donations {
			donorName := "Unknown"
			if donation.Donor != nil {
				donorName = donation.Donor.Username
			}
			feed = append(feed, gin.H{
				"id":        donation.ID,
				"foodType":  donation.FoodType,
				"quantity":  donation.Quantity,
				"status":    donation.Status,
				"donorName": donorName,
				"createdAt": donation.CreatedAt,
			})
		}

		c.JSON(200, feed)
	}
}
