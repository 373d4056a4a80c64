package Fleet

import (
	"errors"
	"strings"

	"LongDrive/Models"

	"gorm.io/gorm"
)

// VehicleRegistry owns the authoritative vehicle rows. Every other component
// reads and writes vehicle state through it; ApplyStateChange is the only
// way a vehicle's status/odometer/fuel ever change.
type VehicleRegistry struct {
	db *gorm.DB
}

func NewVehicleRegistry(db *gorm.DB) *VehicleRegistry {
	return &VehicleRegistry{db: db}
}

// WithTx returns a registry bound to the given transaction. The coordinator
// uses this so registry writes commit or roll back with the rest of the unit
// of work.
func (r *VehicleRegistry) WithTx(tx *gorm.DB) *VehicleRegistry {
	return &VehicleRegistry{db: tx}
}

// Get fetches a vehicle by id.
func (r *VehicleRegistry) Get(id uint) (*Models.Vehicle, error) {
	var v Models.Vehicle
	if err := r.db.First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindNotFound, "vehicle %d not found", id)
		}
		return nil, StorageError("fetch vehicle", err)
	}
	return &v, nil
}

// GetByRegistration fetches a vehicle by its registration number.
func (r *VehicleRegistry) GetByRegistration(registration string) (*Models.Vehicle, error) {
	reg := normalizeRegistration(registration)
	var v Models.Vehicle
	if err := r.db.Where("registration_number = ?", reg).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindNotFound, "vehicle %s not found", reg)
		}
		return nil, StorageError("fetch vehicle", err)
	}
	return &v, nil
}

// List returns all vehicles ordered by registration number, optionally
// filtered by status.
func (r *VehicleRegistry) List(statusFilter string) ([]Models.Vehicle, error) {
	q := r.db.Order("registration_number")
	if statusFilter != "" {
		q = q.Where("status = ?", statusFilter)
	}
	var vehicles []Models.Vehicle
	if err := q.Find(&vehicles).Error; err != nil {
		return nil, StorageError("list vehicles", err)
	}
	return vehicles, nil
}

// Create registers a new vehicle. The registration number is normalized to
// upper case and must be unique across the fleet.
func (r *VehicleRegistry) Create(v *Models.Vehicle) error {
	v.RegistrationNumber = normalizeRegistration(v.RegistrationNumber)
	if v.Status == "" {
		v.Status = Models.StatusAvailable
	}
	if err := v.Validate(); err != nil {
		return NewError(KindValidation, "%v", err)
	}

	var count int64
	if err := r.db.Model(&Models.Vehicle{}).
		Where("registration_number = ?", v.RegistrationNumber).
		Count(&count).Error; err != nil {
		return StorageError("check registration", err)
	}
	if count > 0 {
		return NewError(KindDuplicateRegistration, "registration number %s already exists", v.RegistrationNumber)
	}

	if err := r.db.Create(v).Error; err != nil {
		// The unique index is the backstop for races the count check misses.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return NewError(KindDuplicateRegistration, "registration number %s already exists", v.RegistrationNumber)
		}
		return StorageError("create vehicle", err)
	}
	return nil
}

// UpdateDetails changes the descriptive fields of a vehicle. State fields
// (status, odometer, fuel) are out of reach here; those go through
// ApplyStateChange.
func (r *VehicleRegistry) UpdateDetails(id uint, details *Models.Vehicle) (*Models.Vehicle, error) {
	v, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	reg := normalizeRegistration(details.RegistrationNumber)
	if reg != "" && reg != v.RegistrationNumber {
		var count int64
		if err := r.db.Model(&Models.Vehicle{}).
			Where("registration_number = ? AND id <> ?", reg, id).
			Count(&count).Error; err != nil {
			return nil, StorageError("check registration", err)
		}
		if count > 0 {
			return nil, NewError(KindDuplicateRegistration, "registration number %s already exists", reg)
		}
		v.RegistrationNumber = reg
	}

	v.Make = details.Make
	v.VehicleModel = details.VehicleModel
	v.VIN = details.VIN
	v.ProductionYear = details.ProductionYear
	v.FuelType = details.FuelType
	v.RatedConsumption = details.RatedConsumption
	v.TankCapacity = details.TankCapacity
	v.Notes = details.Notes

	if err := v.Validate(); err != nil {
		return nil, NewError(KindValidation, "%v", err)
	}
	if err := r.db.Save(v).Error; err != nil {
		return nil, StorageError("update vehicle", err)
	}
	return v, nil
}

// Delete removes a vehicle that has no history. Vehicles referenced by any
// key log, trip or fueling row cannot be deleted; the alternative (cascade
// delete of the history) is deliberately not offered.
func (r *VehicleRegistry) Delete(id uint) error {
	if _, err := r.Get(id); err != nil {
		return err
	}

	for _, ref := range []struct {
		model interface{}
		name  string
	}{
		{&Models.KeyLogEntry{}, "key log entries"},
		{&Models.Trip{}, "trips"},
		{&Models.FuelingLog{}, "fueling records"},
	} {
		var count int64
		if err := r.db.Model(ref.model).Where("vehicle_id = ?", id).Count(&count).Error; err != nil {
			return StorageError("check references", err)
		}
		if count > 0 {
			return NewError(KindConflict, "vehicle %d has %s and cannot be deleted", id, ref.name)
		}
	}

	if err := r.db.Delete(&Models.Vehicle{}, id).Error; err != nil {
		return StorageError("delete vehicle", err)
	}
	return nil
}

// ApplyStateChange is the conditional update at the heart of the engine.
// The UPDATE carries WHERE id = ? AND status = expectedStatus, so it succeeds
// only if nobody changed the status since the caller read it. Zero affected
// rows means the caller lost the race and gets KindConflict; the caller
// decides whether to re-fetch and retry.
//
// newOdometer and newFuel are optional; when nil the current values stay.
// A lower odometer is rejected (KindMileageRegression) and a fuel level above
// the tank capacity, when the capacity is known, is rejected rather than
// clamped (KindFuelOverflow).
func (r *VehicleRegistry) ApplyStateChange(id uint, expectedStatus, newStatus string, newOdometer, newFuel *float64) (*Models.Vehicle, error) {
	v, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(expectedStatus, newStatus) {
		return nil, NewError(KindVehicleUnavailable,
			"vehicle %s cannot move from %s to %s", v.RegistrationNumber, expectedStatus, newStatus)
	}

	updates := map[string]interface{}{"status": newStatus}
	if newOdometer != nil {
		if *newOdometer < v.Odometer {
			return nil, NewError(KindMileageRegression,
				"odometer %.1f is below the current reading %.1f", *newOdometer, v.Odometer)
		}
		updates["odometer"] = *newOdometer
	}
	if newFuel != nil {
		if *newFuel < 0 {
			return nil, NewError(KindValidation, "fuel level cannot be negative")
		}
		if v.TankCapacity != nil && *newFuel > *v.TankCapacity {
			return nil, NewError(KindFuelOverflow,
				"fuel level %.1f L exceeds tank capacity %.1f L", *newFuel, *v.TankCapacity)
		}
		updates["fuel_level"] = *newFuel
	}

	res := r.db.Model(&Models.Vehicle{}).
		Where("id = ? AND status = ?", id, expectedStatus).
		Updates(updates)
	if res.Error != nil {
		return nil, StorageError("update vehicle state", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, NewError(KindConflict,
			"vehicle %s is no longer %s", v.RegistrationNumber, expectedStatus)
	}

	return r.Get(id)
}

func normalizeRegistration(reg string) string {
	return strings.ToUpper(strings.TrimSpace(reg))
}
