package Models

import (
	"time"

	"gorm.io/gorm"
)

// Driver is an operator who can take keys and run trips.
type Driver struct {
	gorm.Model
	Name          string     `json:"name" gorm:"not null"`
	Phone         string     `json:"phone"`
	LicenseNumber string     `json:"license_number"`
	LicenseExpiry *time.Time `json:"license_expiry"`
	IsActive      bool       `json:"is_active" gorm:"not null;default:true"`
	Notes         string     `json:"notes" gorm:"type:text"`
}

func (Driver) TableName() string {
	return "drivers"
}
