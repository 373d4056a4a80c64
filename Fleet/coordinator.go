package Fleet

import (
	"errors"
	"time"

	"LongDrive/Models"

	"gorm.io/gorm"
)

// Coordinator sequences registry and ledger writes for the cross-entity
// operations: key checkout/return, trip start/completion/cancellation,
// fueling, and manual status edits. Every public method runs as one database
// transaction; either all of its writes commit or none do. A ledger row must
// never be observable without its matching vehicle state, and vice versa.
//
// Races on the vehicle row are resolved by the registry's conditional update,
// not by locks: the loser gets a typed error and decides for itself whether
// the precondition still holds.
type Coordinator struct {
	db       *gorm.DB
	Vehicles *VehicleRegistry
	Keys     *KeyLedger
	Trips    *TripLedger
}

func NewCoordinator(db *gorm.DB) *Coordinator {
	return &Coordinator{
		db:       db,
		Vehicles: NewVehicleRegistry(db),
		Keys:     NewKeyLedger(db),
		Trips:    NewTripLedger(db),
	}
}

// CheckoutRequest describes a key handoff. Odometer and fuel are the values
// read off the vehicle at the key board; they correct the registry if the
// last return was sloppy.
type CheckoutRequest struct {
	VehicleID uint
	DriverID  uint
	Odometer  float64
	Fuel      float64
	Location  string
}

// Checkout hands the vehicle's keys to a driver: one open key log entry plus
// the available -> checked_out transition, atomically.
func (c *Coordinator) Checkout(req CheckoutRequest) (*Models.KeyLogEntry, error) {
	tx := c.db.Begin()
	if tx.Error != nil {
		return nil, StorageError("begin transaction", tx.Error)
	}
	defer rollbackOnPanic(tx)

	vehicle, err := c.Vehicles.WithTx(tx).Get(req.VehicleID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if vehicle.Status != Models.StatusAvailable {
		tx.Rollback()
		return nil, NewError(KindVehicleUnavailable,
			"vehicle %s is %s", vehicle.RegistrationNumber, vehicle.Status)
	}
	if err := c.requireActiveDriver(tx, req.DriverID); err != nil {
		tx.Rollback()
		return nil, err
	}

	entry, err := c.Keys.WithTx(tx).OpenCheckout(req.VehicleID, req.DriverID, req.Odometer, req.Fuel, req.Location)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	_, err = c.Vehicles.WithTx(tx).ApplyStateChange(req.VehicleID,
		Models.StatusAvailable, Models.StatusCheckedOut, &req.Odometer, &req.Fuel)
	if err != nil {
		tx.Rollback()
		// A lost race on the status column means the vehicle was taken
		// between our read and our write.
		if IsKind(err, KindConflict) {
			return nil, NewError(KindVehicleUnavailable,
				"vehicle %s was taken by another operation", vehicle.RegistrationNumber)
		}
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, StorageError("commit checkout", err)
	}
	return entry, nil
}

// ReturnRequest closes a key handoff with the readings taken at the board.
type ReturnRequest struct {
	EntryID  uint
	Odometer float64
	Fuel     float64
	Location string
}

// ReturnKey closes the key log entry and moves the vehicle back to available
// with the return readings, atomically.
func (c *Coordinator) ReturnKey(req ReturnRequest) (*Models.KeyLogEntry, error) {
	tx := c.db.Begin()
	if tx.Error != nil {
		return nil, StorageError("begin transaction", tx.Error)
	}
	defer rollbackOnPanic(tx)

	entry, err := c.Keys.WithTx(tx).CloseCheckout(req.EntryID, req.Odometer, req.Fuel, req.Location)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	_, err = c.Vehicles.WithTx(tx).ApplyStateChange(entry.VehicleID,
		Models.StatusCheckedOut, Models.StatusAvailable, &req.Odometer, &req.Fuel)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, StorageError("commit key return", err)
	}
	return entry, nil
}

// StartTripRequest opens a trip. There are deliberately no odometer/fuel
// fields: the trip inherits the vehicle's current values inside the
// transaction, so the start readings can never disagree with the registry.
type StartTripRequest struct {
	VehicleID uint
	DriverID  uint
	Purpose   string
	Route     string
}

// StartTrip opens a trip on an available vehicle: one active trip row plus
// the available -> in_trip transition, atomically.
func (c *Coordinator) StartTrip(req StartTripRequest) (*Models.Trip, error) {
	tx := c.db.Begin()
	if tx.Error != nil {
		return nil, StorageError("begin transaction", tx.Error)
	}
	defer rollbackOnPanic(tx)

	vehicle, err := c.Vehicles.WithTx(tx).Get(req.VehicleID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if vehicle.Status != Models.StatusAvailable {
		tx.Rollback()
		return nil, NewError(KindVehicleUnavailable,
			"vehicle %s is %s", vehicle.RegistrationNumber, vehicle.Status)
	}
	if err := c.requireActiveDriver(tx, req.DriverID); err != nil {
		tx.Rollback()
		return nil, err
	}

	trip, err := c.Trips.WithTx(tx).StartTrip(req.VehicleID, req.DriverID,
		vehicle.Odometer, vehicle.FuelLevel, req.Purpose, req.Route, nil)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	_, err = c.Vehicles.WithTx(tx).ApplyStateChange(req.VehicleID,
		Models.StatusAvailable, Models.StatusInTrip, nil, nil)
	if err != nil {
		tx.Rollback()
		if IsKind(err, KindConflict) {
			return nil, NewError(KindVehicleUnavailable,
				"vehicle %s was taken by another operation", vehicle.RegistrationNumber)
		}
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, StorageError("commit trip start", err)
	}
	return trip, nil
}

// CompleteTripRequest closes a trip with the readings taken on return.
// RefuelLiters covers mid-trip fuel that was not recorded through
// RecordFueling.
type CompleteTripRequest struct {
	TripID       uint
	EndOdometer  float64
	EndFuel      float64
	RefuelLiters float64
	Notes        string
}

// CompleteTrip closes the trip, computes its derived distance and fuel
// consumption, and writes the end readings back to the vehicle with the
// in_trip -> available transition, atomically. The vehicle must never be
// left in_trip after its trip row reads completed, nor available while the
// trip row is still active; any failure after the ledger write rolls the
// whole unit back.
func (c *Coordinator) CompleteTrip(req CompleteTripRequest) (*Models.Trip, error) {
	tx := c.db.Begin()
	if tx.Error != nil {
		return nil, StorageError("begin transaction", tx.Error)
	}
	defer rollbackOnPanic(tx)

	trip, err := c.Trips.WithTx(tx).CompleteTrip(req.TripID, req.EndOdometer, req.EndFuel, req.RefuelLiters, req.Notes)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	_, err = c.Vehicles.WithTx(tx).ApplyStateChange(trip.VehicleID,
		Models.StatusInTrip, Models.StatusAvailable, &req.EndOdometer, &req.EndFuel)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, StorageError("commit trip completion", err)
	}
	return trip, nil
}

// CancelTrip voids an active trip. The vehicle returns to available with its
// odometer and fuel untouched; a cancelled trip never moved the vehicle.
func (c *Coordinator) CancelTrip(tripID uint, reason string) (*Models.Trip, error) {
	tx := c.db.Begin()
	if tx.Error != nil {
		return nil, StorageError("begin transaction", tx.Error)
	}
	defer rollbackOnPanic(tx)

	trip, err := c.Trips.WithTx(tx).Cancel(tripID, reason)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	_, err = c.Vehicles.WithTx(tx).ApplyStateChange(trip.VehicleID,
		Models.StatusInTrip, Models.StatusAvailable, nil, nil)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, StorageError("commit trip cancellation", err)
	}
	return trip, nil
}

// FuelingRequest records a refueling event.
type FuelingRequest struct {
	VehicleID     uint
	Liters        float64
	Odometer      float64
	PricePerLiter *float64
	Notes         string
}

// RecordFueling appends a fueling log row and raises the vehicle's fuel and
// odometer, atomically. Fueling is valid while the vehicle is out or on a
// trip; when a trip is active the liters are also accumulated on the trip so
// its consumption arithmetic stays correct at completion.
func (c *Coordinator) RecordFueling(req FuelingRequest) (*Models.FuelingLog, error) {
	if req.Liters <= 0 {
		return nil, NewError(KindValidation, "liters added must be positive")
	}

	tx := c.db.Begin()
	if tx.Error != nil {
		return nil, StorageError("begin transaction", tx.Error)
	}
	defer rollbackOnPanic(tx)

	vehicle, err := c.Vehicles.WithTx(tx).Get(req.VehicleID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	newFuel := vehicle.FuelLevel + req.Liters

	record := &Models.FuelingLog{
		VehicleID:         req.VehicleID,
		FuelingTime:       time.Now(),
		OdometerAtFueling: req.Odometer,
		LitersAdded:       req.Liters,
		PricePerLiter:     req.PricePerLiter,
		Notes:             req.Notes,
	}
	if req.PricePerLiter != nil {
		cost := req.Liters * *req.PricePerLiter
		record.TotalCost = &cost
	}

	// Mid-trip fueling flows into the trip's refuel total.
	if vehicle.Status == Models.StatusInTrip {
		trip, err := c.Trips.WithTx(tx).ActiveTripForVehicle(req.VehicleID)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if trip != nil {
			if _, err := c.Trips.WithTx(tx).AddRefuel(trip.ID, req.Liters); err != nil {
				tx.Rollback()
				return nil, err
			}
			record.TripID = &trip.ID
		}
	}

	if err := tx.Create(record).Error; err != nil {
		tx.Rollback()
		return nil, StorageError("create fueling log", err)
	}

	_, err = c.Vehicles.WithTx(tx).ApplyStateChange(req.VehicleID,
		vehicle.Status, vehicle.Status, &req.Odometer, &newFuel)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, StorageError("commit fueling", err)
	}
	return record, nil
}

// SetVehicleStatus handles manual edits: sending a vehicle to service,
// marking it broken, or restoring it. The transition graph refuses any move
// out of checked_out or in_trip, so open ledger entries can never be
// orphaned by a manual edit.
func (c *Coordinator) SetVehicleStatus(vehicleID uint, newStatus, notes string) (*Models.Vehicle, error) {
	tx := c.db.Begin()
	if tx.Error != nil {
		return nil, StorageError("begin transaction", tx.Error)
	}
	defer rollbackOnPanic(tx)

	vehicle, err := c.Vehicles.WithTx(tx).Get(vehicleID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	updated, err := c.Vehicles.WithTx(tx).ApplyStateChange(vehicleID,
		vehicle.Status, newStatus, nil, nil)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if notes != "" {
		if err := tx.Model(updated).Update("notes", notes).Error; err != nil {
			tx.Rollback()
			return nil, StorageError("update vehicle notes", err)
		}
		updated.Notes = notes
	}

	if err := tx.Commit().Error; err != nil {
		return nil, StorageError("commit status change", err)
	}
	return updated, nil
}

func (c *Coordinator) requireActiveDriver(tx *gorm.DB, driverID uint) error {
	var driver Models.Driver
	if err := tx.First(&driver, driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewError(KindNotFound, "driver %d not found", driverID)
		}
		return StorageError("fetch driver", err)
	}
	if !driver.IsActive {
		return NewError(KindValidation, "driver %s is not active", driver.Name)
	}
	return nil
}

func rollbackOnPanic(tx *gorm.DB) {
	if r := recover(); r != nil {
		tx.Rollback()
		panic(r)
	}
}
