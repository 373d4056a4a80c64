package Models

import (
	"time"

	"gorm.io/gorm"
)

// Trip statuses.
const (
	TripActive    = "active"
	TripCompleted = "completed"
	TripCancelled = "cancelled"
)

// Trip is one bounded usage period of a vehicle. Start odometer and fuel are
// copied from the vehicle row inside the same transaction that starts the
// trip, never supplied by the caller. Distance and FuelConsumed are computed
// exactly once, at completion, and never recomputed afterwards.
type Trip struct {
	gorm.Model
	// Road card numbers restart each year; the unique index turns a numbering
	// collision between interleaved trip starts into a hard error.
	RoadCardNumber string `json:"road_card_number" gorm:"uniqueIndex"`
	VehicleID      uint   `json:"vehicle_id" gorm:"index;not null"`
	DriverID       uint   `json:"driver_id" gorm:"index;not null"`
	KeyLogID       *uint  `json:"key_log_id" gorm:"index"`

	StartTime     time.Time `json:"start_time" gorm:"not null"`
	StartOdometer float64   `json:"start_odometer" gorm:"not null"`
	StartFuel     float64   `json:"start_fuel" gorm:"not null"`

	Purpose string `json:"purpose"`
	Route   string `json:"route"`

	EndTime     *time.Time `json:"end_time"`
	EndOdometer *float64   `json:"end_odometer"`
	EndFuel     *float64   `json:"end_fuel"`

	// RefuelLiters accumulates fuel added mid-trip through fueling records.
	RefuelLiters float64 `json:"refuel_liters" gorm:"not null;default:0"`

	// Computed at completion: Distance = end - start odometer,
	// FuelConsumed = start fuel + refuels - end fuel.
	Distance     *float64 `json:"distance"`
	FuelConsumed *float64 `json:"fuel_consumed"`

	Status string `json:"status" gorm:"index;not null;default:'active'"`
	Notes  string `json:"notes" gorm:"type:text"`
}

func (Trip) TableName() string {
	return "trips"
}
