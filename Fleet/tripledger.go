package Fleet

import (
	"errors"
	"fmt"
	"time"

	"LongDrive/Models"

	"gorm.io/gorm"
)

// TripLedger owns the trip history. Trips start active, inherit their start
// odometer/fuel from the vehicle row, and are closed exactly once. The
// derived distance and fuel-consumed values are written at completion and
// never recomputed.
type TripLedger struct {
	db *gorm.DB
}

func NewTripLedger(db *gorm.DB) *TripLedger {
	return &TripLedger{db: db}
}

// WithTx returns a ledger bound to the given transaction.
func (l *TripLedger) WithTx(tx *gorm.DB) *TripLedger {
	return &TripLedger{db: tx}
}

// Get fetches a trip by id.
func (l *TripLedger) Get(id uint) (*Models.Trip, error) {
	var trip Models.Trip
	if err := l.db.First(&trip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindNotFound, "trip %d not found", id)
		}
		return nil, StorageError("fetch trip", err)
	}
	return &trip, nil
}

// ActiveTripForVehicle returns the vehicle's active trip, or nil.
func (l *TripLedger) ActiveTripForVehicle(vehicleID uint) (*Models.Trip, error) {
	var trip Models.Trip
	err := l.db.Where("vehicle_id = ? AND status = ?", vehicleID, Models.TripActive).First(&trip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, StorageError("fetch active trip", err)
	}
	return &trip, nil
}

// StartTrip appends an active trip. startOdometer/startFuel must be the
// vehicle's current values, read inside the same unit of work. keyLogID
// optionally links the trip to the key handoff that preceded it.
func (l *TripLedger) StartTrip(vehicleID, driverID uint, startOdometer, startFuel float64, purpose, route string, keyLogID *uint) (*Models.Trip, error) {
	active, err := l.ActiveTripForVehicle(vehicleID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, NewError(KindAlreadyActiveTrip,
			"vehicle %d already has active trip %d", vehicleID, active.ID)
	}

	number, err := l.nextRoadCardNumber()
	if err != nil {
		return nil, err
	}

	trip := &Models.Trip{
		RoadCardNumber: number,
		VehicleID:      vehicleID,
		DriverID:       driverID,
		KeyLogID:       keyLogID,
		StartTime:      time.Now(),
		StartOdometer:  startOdometer,
		StartFuel:      startFuel,
		Purpose:        purpose,
		Route:          route,
		Status:         Models.TripActive,
	}
	if err := l.db.Create(trip).Error; err != nil {
		return nil, StorageError("create trip", err)
	}
	return trip, nil
}

// CompleteTrip closes an active trip and computes the derived values:
//
//	distance     = endOdometer - startOdometer
//	fuelConsumed = startFuel + refuels - endFuel
//
// refuelLiters covers fuel added mid-trip that was not recorded through
// RecordFueling; it is added on top of the trip's accumulated RefuelLiters.
func (l *TripLedger) CompleteTrip(tripID uint, endOdometer, endFuel, refuelLiters float64, notes string) (*Models.Trip, error) {
	trip, err := l.Get(tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != Models.TripActive {
		return nil, NewError(KindConflict, "trip %d is %s, not active", tripID, trip.Status)
	}
	if endOdometer < trip.StartOdometer {
		return nil, NewError(KindMileageRegression,
			"end odometer %.1f is below the trip's start reading %.1f", endOdometer, trip.StartOdometer)
	}
	if refuelLiters < 0 {
		return nil, NewError(KindValidation, "refuel liters cannot be negative")
	}

	now := time.Now()
	distance := endOdometer - trip.StartOdometer
	fuelConsumed := trip.StartFuel + trip.RefuelLiters + refuelLiters - endFuel

	trip.EndTime = &now
	trip.EndOdometer = &endOdometer
	trip.EndFuel = &endFuel
	trip.RefuelLiters += refuelLiters
	trip.Distance = &distance
	trip.FuelConsumed = &fuelConsumed
	trip.Status = Models.TripCompleted
	if notes != "" {
		trip.Notes = notes
	}

	if err := l.db.Save(trip).Error; err != nil {
		return nil, StorageError("complete trip", err)
	}
	return trip, nil
}

// Cancel closes an active trip without end readings. The vehicle's state is
// untouched by design; cancellation means the trip never happened.
func (l *TripLedger) Cancel(tripID uint, reason string) (*Models.Trip, error) {
	trip, err := l.Get(tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != Models.TripActive {
		return nil, NewError(KindConflict, "trip %d is %s, not active", tripID, trip.Status)
	}

	now := time.Now()
	trip.EndTime = &now
	trip.Status = Models.TripCancelled
	if reason != "" {
		trip.Notes = reason
	}

	if err := l.db.Save(trip).Error; err != nil {
		return nil, StorageError("cancel trip", err)
	}
	return trip, nil
}

// AddRefuel records mid-trip fuel on an active trip so the consumption
// arithmetic at completion stays honest.
func (l *TripLedger) AddRefuel(tripID uint, liters float64) (*Models.Trip, error) {
	trip, err := l.Get(tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != Models.TripActive {
		return nil, NewError(KindConflict, "trip %d is %s, not active", tripID, trip.Status)
	}
	if liters <= 0 {
		return nil, NewError(KindValidation, "refuel liters must be positive")
	}

	trip.RefuelLiters += liters
	if err := l.db.Save(trip).Error; err != nil {
		return nil, StorageError("update trip refuel", err)
	}
	return trip, nil
}

// ListActive returns all active trips, oldest first.
func (l *TripLedger) ListActive() ([]Models.Trip, error) {
	var trips []Models.Trip
	if err := l.db.Where("status = ?", Models.TripActive).
		Order("start_time").
		Find(&trips).Error; err != nil {
		return nil, StorageError("list active trips", err)
	}
	return trips, nil
}

// TripFilter narrows List results. Zero values mean "no restriction".
type TripFilter struct {
	VehicleID uint
	DriverID  uint
	Status    string
	From      time.Time
	To        time.Time
	Limit     int
}

// List returns trips matching the filter, newest first.
func (l *TripLedger) List(filter TripFilter) ([]Models.Trip, error) {
	q := l.db.Order("start_time DESC")
	if filter.VehicleID != 0 {
		q = q.Where("vehicle_id = ?", filter.VehicleID)
	}
	if filter.DriverID != 0 {
		q = q.Where("driver_id = ?", filter.DriverID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		q = q.Where("start_time >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("start_time <= ?", filter.To)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	var trips []Models.Trip
	if err := q.Limit(limit).Find(&trips).Error; err != nil {
		return nil, StorageError("list trips", err)
	}
	return trips, nil
}

// nextRoadCardNumber issues RC-<year>-<seq>, restarting the sequence each
// year like the paper road-card books did.
func (l *TripLedger) nextRoadCardNumber() (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("RC-%d-", year)

	var count int64
	if err := l.db.Model(&Models.Trip{}).
		Where("road_card_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", StorageError("count road cards", err)
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}
