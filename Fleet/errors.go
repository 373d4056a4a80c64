package Fleet

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure a fleet operation can return. Handlers
// map kinds onto HTTP status codes; the engine itself never returns a raw
// storage error to a caller.
type ErrorKind string

const (
	// KindNotFound - the referenced vehicle, driver, trip or key log entry
	// does not exist.
	KindNotFound ErrorKind = "not_found"

	// KindDuplicateRegistration - a vehicle with the same registration
	// number already exists.
	KindDuplicateRegistration ErrorKind = "duplicate_registration"

	// KindVehicleUnavailable - the vehicle's status does not permit the
	// requested transition.
	KindVehicleUnavailable ErrorKind = "vehicle_unavailable"

	// KindAlreadyCheckedOut - an open key log entry already exists for the
	// vehicle.
	KindAlreadyCheckedOut ErrorKind = "already_checked_out"

	// KindAlreadyActiveTrip - an active trip already exists for the vehicle.
	KindAlreadyActiveTrip ErrorKind = "already_active_trip"

	// KindMileageRegression - a new odometer reading is lower than the
	// current/start reading.
	KindMileageRegression ErrorKind = "mileage_regression"

	// KindFuelOverflow - a new fuel level exceeds the vehicle's tank
	// capacity.
	KindFuelOverflow ErrorKind = "fuel_overflow"

	// KindConflict - a conditional update lost a race: the row's status
	// changed between read and write. Callers may re-fetch and retry;
	// the engine never retries on its own.
	KindConflict ErrorKind = "conflict"

	// KindValidation - the request itself is malformed. Raised before any
	// transaction opens.
	KindValidation ErrorKind = "validation"

	// KindStorageUnavailable - the database failed. Deliberately distinct
	// from every business-rule kind.
	KindStorageUnavailable ErrorKind = "storage_unavailable"
)

// Error is the typed failure returned by every fleet operation.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a business-rule error of the given kind.
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// StorageError wraps a database fault. op names the failed operation.
func StorageError(op string, err error) *Error {
	return &Error{Kind: KindStorageUnavailable, Message: op, Err: err}
}

// KindOf returns the kind of err, or "" if err is not a fleet error.
func KindOf(err error) ErrorKind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// IsKind reports whether err is a fleet error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
