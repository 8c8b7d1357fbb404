package handlers

import (
	"testing"
	"time"

	"github.com/petsustain/petsustain-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func donationWithStatus(status string, created time.Time) models.Donation {
	return models.Donation{
		Model:  gorm.Model{CreatedAt: created},
		Status: status,
	}
}

func TestStatusBreakdown(t *testing.T) {
	now := time.Now()
	donations := []models.Donation{
		donationWithStatus(models.DonationStatusPending, now),
		donationWithStatus(models.DonationStatusPending, now),
		donationWithStatus(models.DonationStatusDelivered, now),
		donationWithStatus(models.DonationStatusRejected, now),
	}

	breakdown := statusBreakdown(donations)

	assert.Equal(t, 2, breakdown[models.DonationStatusPending])
	assert.Equal(t, 1, breakdown[models.DonationStatusDelivered])
	assert.Equal(t, 1, breakdown[models.DonationStatusRejected])
	// Statuses with no donations are still reported
	assert.Equal(t, 0, breakdown[models.DonationStatusAssigned])
	assert.Equal(t, 0, breakdown[models.DonationStatusPickedUp])
}

func TestRoleBreakdown(t *testing.T) {
	roles := []models.UserRole{
		{Role: models.RoleDonor},
		{Role: models.RoleDonor},
		{Role: models.RoleRider},
	}

	breakdown := roleBreakdown(roles)

	assert.Equal(t, 2, breakdown[models.RoleDonor])
	assert.Equal(t, 1, breakdown[models.RoleRider])
	assert.Equal(t, 0, breakdown[models.RoleShelter])
	assert.Equal(t, 0, breakdown[models.RoleAdmin])
}

func TestMonthlyTotals(t *testing.T) {
	jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)

	donations := []models.Donation{
		donationWithStatus(models.DonationStatusPending, jan),
		donationWithStatus(models.DonationStatusDelivered, jan),
		donationWithStatus(models.DonationStatusDelivered, feb),
	}

	totals := monthlyTotals(donations)

	assert.Equal(t, 2, totals["2025-01"])
	assert.Equal(t, 1, totals["2025-02"])
	assert.Len(t, totals, 2)
}

func TestDeliveryRate(t *testing.T) {
	now := time.Now()

	assert.Equal(t, float64(0), deliveryRate(nil))

	donations := []models.Donation{
		donationWithStatus(models.DonationStatusDelivered, now),
		donationWithStatus(models.DonationStatusDelivered, now),
		donationWithStatus(models.DonationStatusPending, now),
		donationWithStatus(models.DonationStatusRejected, now),
	}
	assert.InDelta(t, 0.5, deliveryRate(donations), 0.0001)
}
