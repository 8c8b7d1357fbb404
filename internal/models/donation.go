package models

import (
	"time"

	"gorm.io/gorm"
)

// Donation represents a food-surplus listing created by a donor and tracked
// through pickup and delivery.
type Donation struct {
	gorm.Model
	DonorID      uint       `json:"donorId" gorm:"not null"`
	RiderID      *uint      `json:"riderId,omitempty" gorm:"null"`
	ShelterID    *uint      `json:"shelterId,omitempty" gorm:"null"`
	FoodType     string     `json:"foodType" gorm:"not null"`
	Quantity     string     `json:"quantity" gorm:"not null"`
	Description  string     `json:"description"`
	Address      string     `json:"address" gorm:"not null"`
	Latitude     float64    `json:"latitude" gorm:"not null"`
	Longitude    float64    `json:"longitude" gorm:"not null"`
	Status       string     `json:"status" gorm:"not null;default:'pending'"` // pending, assigned, picked_up, rejected, delivered
	QualityCheck string     `json:"qualityCheck,omitempty"`
	PhotoURL     string     `json:"photoUrl,omitempty"`
	DeliveredAt  *time.Time `json:"deliveredAt,omitempty"`
	Donor        *User      `json:"donor,omitempty" gorm:"foreignKey:DonorID"`
	Rider        *User      `json:"rider,omitempty" gorm:"foreignKey:RiderID"`
	Shelter      *Shelter   `json:"shelter,omitempty" gorm:"foreignKey:ShelterID"`
}

// TableName specifies the table name
func (Donation) TableName() string {
	return "donations"
}

// DonationStatus constants
const (
	DonationStatusPending   = "pending"
	DonationStatusAssigned  = "assigned"
	DonationStatusPickedUp  = "picked_up"
	DonationStatusRejected  = "rejected"
	DonationStatusDelivered = "delivered"
)

// QualityCheck constants
const (
	QualityApproved = "approved"
	QualityBioWaste = "bio_waste"
)

// StatusForQuality maps a rider's quality-check result onto the donation
// status it produces. approved moves the food toward delivery, bio_waste
// sends it to disposal. Any other result is invalid.
func StatusForQuality(result string) (string, bool) {
	switch result {
	case QualityApproved:
		return DonationStatusPickedUp, true
	case QualityBioWaste:
		return DonationStatusRejected, true
	}
	return "", false
}

// IsOpen reports whether the donation still shows up on rider dashboards.
func (d *Donation) IsOpen() bool {
	return d.Status == DonationStatusPending || d.Status == DonationStatusAssigned
}

// IsClaimable reports whether a rider may still accept the donation.
func (d *Donation) IsClaimable() bool {
	return d.Status == DonationStatusPending
}
