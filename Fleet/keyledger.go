package Fleet

import (
	"errors"
	"time"

	"LongDrive/Models"

	"gorm.io/gorm"
)

// KeyLedger owns the key handoff history. Entries are appended at checkout,
// closed exactly once at return and never touched again.
type KeyLedger struct {
	db *gorm.DB
}

func NewKeyLedger(db *gorm.DB) *KeyLedger {
	return &KeyLedger{db: db}
}

// WithTx returns a ledger bound to the given transaction.
func (l *KeyLedger) WithTx(tx *gorm.DB) *KeyLedger {
	return &KeyLedger{db: tx}
}

// Get fetches a key log entry by id.
func (l *KeyLedger) Get(id uint) (*Models.KeyLogEntry, error) {
	var entry Models.KeyLogEntry
	if err := l.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindNotFound, "key log entry %d not found", id)
		}
		return nil, StorageError("fetch key log entry", err)
	}
	return &entry, nil
}

// OpenEntryForVehicle returns the open entry for the vehicle, or nil when
// the keys are on the board.
func (l *KeyLedger) OpenEntryForVehicle(vehicleID uint) (*Models.KeyLogEntry, error) {
	var entry Models.KeyLogEntry
	err := l.db.Where("vehicle_id = ? AND status = ?", vehicleID, Models.KeyLogOut).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, StorageError("fetch open key log entry", err)
	}
	return &entry, nil
}

// OpenCheckout appends an "out" entry for the vehicle. Fails with
// KindAlreadyCheckedOut when an open entry exists; the vehicle status CAS in
// the same unit of work backs this check up against races.
func (l *KeyLedger) OpenCheckout(vehicleID, driverID uint, odometer, fuel float64, location string) (*Models.KeyLogEntry, error) {
	open, err := l.OpenEntryForVehicle(vehicleID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, NewError(KindAlreadyCheckedOut,
			"vehicle %d already has keys out (entry %d)", vehicleID, open.ID)
	}

	entry := &Models.KeyLogEntry{
		VehicleID:        vehicleID,
		DriverID:         driverID,
		CheckoutTime:     time.Now(),
		CheckoutOdometer: odometer,
		CheckoutFuel:     fuel,
		Location:         location,
		Status:           Models.KeyLogOut,
	}
	if err := l.db.Create(entry).Error; err != nil {
		return nil, StorageError("create key log entry", err)
	}
	return entry, nil
}

// CloseCheckout closes an open entry with the return snapshot. A closed
// entry stays closed: closing it twice is a conflict, not an update.
func (l *KeyLedger) CloseCheckout(entryID uint, returnOdometer, returnFuel float64, location string) (*Models.KeyLogEntry, error) {
	entry, err := l.Get(entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != Models.KeyLogOut {
		return nil, NewError(KindConflict, "key log entry %d is already returned", entryID)
	}

	now := time.Now()
	entry.ReturnTime = &now
	entry.ReturnOdometer = &returnOdometer
	entry.ReturnFuel = &returnFuel
	entry.ReturnLocation = location
	entry.Status = Models.KeyLogReturned

	if err := l.db.Save(entry).Error; err != nil {
		return nil, StorageError("close key log entry", err)
	}
	return entry, nil
}

// ListOpen returns all open entries, optionally restricted to one vehicle.
func (l *KeyLedger) ListOpen(vehicleID *uint) ([]Models.KeyLogEntry, error) {
	q := l.db.Where("status = ?", Models.KeyLogOut).Order("checkout_time")
	if vehicleID != nil {
		q = q.Where("vehicle_id = ?", *vehicleID)
	}
	var entries []Models.KeyLogEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, StorageError("list open key log entries", err)
	}
	return entries, nil
}

// ListForVehicle returns the newest entries for a vehicle, open or closed.
func (l *KeyLedger) ListForVehicle(vehicleID uint, limit int) ([]Models.KeyLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []Models.KeyLogEntry
	if err := l.db.Where("vehicle_id = ?", vehicleID).
		Order("checkout_time DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, StorageError("list key log entries", err)
	}
	return entries, nil
}
