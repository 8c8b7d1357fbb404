package models

import "gorm.io/gorm"

// Role constants
const (
	RoleDonor   = "donor"
	RoleRider   = "rider"
	RoleShelter = "shelter"
	RoleAdmin   = "admin"
)

// UserRole assigns a single platform role to a user. The unique index on
// user_id keeps the assignment one-time: a user never holds two roles.
type UserRole struct {
	gorm.Model
	UserID uint   `json:"userId" gorm:"not null;uniqueIndex"`
	Role   string `json:"role" gorm:"not null"`
	User   *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name
func (UserRole) TableName() string {
	return "user_roles"
}

// IsValidRole reports whether role is one of the four platform roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleDonor, RoleRider, RoleShelter, RoleAdmin:
		return true
	}
	return false
}

// DashboardRoute maps a role to the client route its dashboard lives on.
func DashboardRoute(role string) string {
	switch role {
	case RoleDonor:
		return "/donor"
	case RoleRider:
		return "/rider"
	case RoleShelter:
		return "/shelter"
	case RoleAdmin:
		return "/admin"
	}
	return "/"
}
