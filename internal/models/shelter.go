package models

import "gorm.io/gorm"

// Shelter is a pet shelter registered by a shelter-role user. One shelter
// per user, enforced by the unique index on user_id.
type Shelter struct {
	gorm.Model
	UserID    uint    `json:"userId" gorm:"not null;uniqueIndex"`
	Name      string  `json:"name" gorm:"not null"`
	Address   string  `json:"address" gorm:"not null"`
	Phone     string  `json:"phone"`
	Capacity  int     `json:"capacity" gorm:"not null"`
	Latitude  float64 `json:"latitude" gorm:"not null"`
	Longitude float64 `json:"longitude" gorm:"not null"`
	User      *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name
func (Shelter) TableName() string {
	return "shelters"
}
