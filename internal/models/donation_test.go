package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusForQuality(t *testing.T) {
	tests := []struct {
		name       string
		result     string
		wantStatus string
		wantOK     bool
	}{
		{"approved moves to picked_up", QualityApproved, DonationStatusPickedUp, true},
		{"bio_waste moves to rejected", QualityBioWaste, DonationStatusRejected, true},
		{"empty result is invalid", "", "", false},
		{"unknown result is invalid", "maybe", "", false},
		{"status name is not a result", DonationStatusPickedUp, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, ok := StatusForQuality(tt.result)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestDonationLifecyclePredicates(t *testing.T) {
	tests := []struct {
		status    string
		open      bool
		claimable bool
	}{
		{DonationStatusPending, true, true},
		{DonationStatusAssigned, true, false},
		{DonationStatusPickedUp, false, false},
		{DonationStatusRejected, false, false},
		{DonationStatusDelivered, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			d := Donation{Status: tt.status}
			assert.Equal(t, tt.open, d.IsOpen())
			assert.Equal(t, tt.claimable, d.IsClaimable())
		})
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleDonor, RoleRider, RoleShelter, RoleAdmin} {
		assert.True(t, IsValidRole(role), role)
	}
	assert.False(t, IsValidRole("driver"))
	assert.False(t, IsValidRole(""))
}

func TestDashboardRoute(t *testing.T) {
	assert.Equal(t, "/donor", DashboardRoute(RoleDonor))
	assert.Equal(t, "/rider", DashboardRoute(RoleRider))
	assert.Equal(t, "/shelter", DashboardRoute(RoleShelter))
	assert.Equal(t, "/admin", DashboardRoute(RoleAdmin))
}
