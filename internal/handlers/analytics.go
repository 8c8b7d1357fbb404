package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/petsustain/petsustain-backend/internal/models"
	"gorm.io/gorm"
)

// GetAnalytics serves platform-wide aggregates for the analytics page:
// donations by status, users by role, and donation volume per month.
func GetAnalytics(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var donations []models.Donation
		if err := db.Select("status", "created_at", "delivered_at").
			Find(&donations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch donations"})
			return
		}

		var roles []models.UserRole
		if err := db.Select("role").Find(&roles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch roles"})
			return
		}

		c.JSON(200, gin.H{
			"statusBreakdown": statusBreakdown(donations),
			"roleBreakdown":   roleBreakdown(roles),
			"monthlyTotals":   monthlyTotals(donations),
			"deliveryRate":    deliveryRate(donations),
		})
	}
}

// statusBreakdown counts donations per lifecycle status. Every status
// appears in the result, including those with zero donations.
func statusBreakdown(donations []models.Donation) map[string]int {
	breakdown := map[string]int{
		models.DonationStatusPending:   0,
		models.DonationStatusAssigned:  0,
		models.DonationStatusPickedUp:  0,
		models.DonationStatusRejected:  0,
		models.DonationStatusDelivered: 0,
	}
	for _, donation := range donations {
		breakdown[donation.Status]++
	}
	return breakdown
}

// roleBreakdown counts users per role
func roleBreakdown(roles []models.UserRole) map[string]int {
	breakdown := map[string]int{
		models.RoleDonor:   0,
		models.RoleRider:   0,
		models.RoleShelter: 0,
		models.RoleAdmin:   0,
	}
	for _, userRole := range roles {
		breakdown[userRole.Role]++
	}
	return breakdown
}

// monthlyTotals counts donations created per calendar month, keyed
// "YYYY-MM"
func monthlyTotals(donations []models.Donation) map[string]int {
	totals := make(map[string]int)
	for _, donation := range donations {
		month := donation.CreatedAt.Format("2006-01")
		totals[month]++
	}
	return totals
}

// deliveryRate is the fraction of donations that reached a shelter,
// 0 when there are no donations yet
func deliveryRate(donations []models.Donation) float64 {
	if len(donations) == 0 {
		return 0
	}
	delivered := 0
	for _, donation := range donations {
		if donation.Status == models.DonationStatusDelivered {
			delivered++
		}
	}
	return float64(delivered) / float64(len(donations))
}
