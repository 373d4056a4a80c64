package Models

import (
	"time"

	"gorm.io/gorm"
)

// FuelingLog records a single refueling event. Fuelings are the only
// sanctioned way a vehicle's fuel level goes up; everything else only
// drains it.
type FuelingLog struct {
	gorm.Model
	VehicleID uint  `json:"vehicle_id" gorm:"index;not null"`
	TripID    *uint `json:"trip_id" gorm:"index"`

	FuelingTime       time.Time `json:"fueling_time" gorm:"not null"`
	OdometerAtFueling float64   `json:"odometer_at_fueling"`
	LitersAdded       float64   `json:"liters_added" gorm:"not null"`

	PricePerLiter *float64 `json:"price_per_liter"`
	TotalCost     *float64 `json:"total_cost"`
	Notes         string   `json:"notes" gorm:"type:text"`
}

func (FuelingLog) TableName() string {
	return "fueling_log"
}
