package models

import (
	"time"
)

// User roles
const (
	RoleSuperuser = "superuser"
	RoleLandlord  = "landlord"
	RoleTenant    = "tenant"
)

// User account statuses
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents the users table
type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"column:name"`
	Email     string    `json:"email" gorm:"column:email;uniqueIndex"`
	Password  string    `json:"-" gorm:"column:password"`
	Role      string    `json:"role" gorm:"column:role;default:tenant"`
	Phone     *string   `json:"phone" gorm:"column:phone"`
	Status    string    `json:"status" gorm:"column:status;default:active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the insert table name for User
func (User) TableName() string {
	return "users"
}

// IsSuperuser reports whether the user has the superuser role
func (u *User) IsSuperuser() bool {
	return u.Role == RoleSuperuser
}

// IsLandlord reports whether the user has the landlord role
func (u *User) IsLandlord() bool {
	return u.Role == RoleLandlord
}

// IsTenant reports whether the user has the tenant role
func (u *User) IsTenant() bool {
	return u.Role == RoleTenant
}
