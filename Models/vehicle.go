package Models

import (
	"fmt"

	"gorm.io/gorm"
)

// Vehicle lifecycle statuses. The status column is the single admission-control
// field for checkout and trip operations: every state transition is written as
// UPDATE ... WHERE id = ? AND status = ? so a lost race surfaces as zero
// affected rows instead of a double assignment.
const (
	StatusAvailable  = "available"
	StatusCheckedOut = "checked_out"
	StatusInTrip     = "in_trip"
	StatusService    = "service"
	StatusBroken     = "broken"
)

// VehicleStatuses lists every valid value of the status column.
var VehicleStatuses = []string{
	StatusAvailable,
	StatusCheckedOut,
	StatusInTrip,
	StatusService,
	StatusBroken,
}

// Vehicle is the authoritative record of a vehicle's physical state.
// Odometer and FuelLevel are only ever advanced through fleet operations
// (checkout, return, trip completion, fueling); the odometer never runs
// backwards over the vehicle's lifetime.
type Vehicle struct {
	gorm.Model
	RegistrationNumber string `json:"registration_number" gorm:"uniqueIndex;not null"`
	Make               string `json:"make"`
	VehicleModel       string `json:"vehicle_model" gorm:"column:vehicle_model"`
	VIN                string `json:"vin"`
	ProductionYear     int    `json:"production_year"`
	FuelType           string `json:"fuel_type"`

	// RatedConsumption is the normative fuel consumption in L/100km, used
	// for the comparison figure on completed trips.
	RatedConsumption float64  `json:"rated_consumption"`
	TankCapacity     *float64 `json:"tank_capacity"`

	Odometer  float64 `json:"odometer" gorm:"not null;default:0"`
	FuelLevel float64 `json:"fuel_level" gorm:"not null;default:0"`
	Status    string  `json:"status" gorm:"index;not null;default:'available'"`
	Notes     string  `json:"notes" gorm:"type:text"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// Validate rejects rows that could never represent a real vehicle state.
// Called from the BeforeCreate hook so bad data cannot enter on insert;
// updates carry partial maps and are validated by their callers.
func (v *Vehicle) Validate() error {
	if v.RegistrationNumber == "" {
		return fmt.Errorf("registration number is required")
	}
	if v.Odometer < 0 {
		return fmt.Errorf("odometer cannot be negative")
	}
	if v.FuelLevel < 0 {
		return fmt.Errorf("fuel level cannot be negative")
	}
	valid := false
	for _, s := range VehicleStatuses {
		if v.Status == s {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown vehicle status %q", v.Status)
	}
	return nil
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	return v.Validate()
}
