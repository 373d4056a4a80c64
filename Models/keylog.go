package Models

import (
	"time"

	"gorm.io/gorm"
)

// Key log entry statuses.
const (
	KeyLogOut      = "out"
	KeyLogReturned = "returned"
)

// KeyLogEntry records one key handoff window: who took the keys of which
// vehicle, with odometer/fuel snapshots at checkout and at return. At most
// one entry per vehicle may be in the "out" state at any time; closed
// entries are never modified again.
type KeyLogEntry struct {
	gorm.Model
	VehicleID uint `json:"vehicle_id" gorm:"index;not null"`
	DriverID  uint `json:"driver_id" gorm:"index;not null"`

	CheckoutTime     time.Time `json:"checkout_time" gorm:"not null"`
	CheckoutOdometer float64   `json:"checkout_odometer"`
	CheckoutFuel     float64   `json:"checkout_fuel"`

	// Location is the key storage location text (board hook, cabinet slot).
	Location string `json:"location"`

	ReturnTime     *time.Time `json:"return_time"`
	ReturnOdometer *float64   `json:"return_odometer"`
	ReturnFuel     *float64   `json:"return_fuel"`
	ReturnLocation string     `json:"return_location"`

	Status string `json:"status" gorm:"index;not null;default:'out'"`
	Notes  string `json:"notes" gorm:"type:text"`
}

func (KeyLogEntry) TableName() string {
	return "key_log"
}
