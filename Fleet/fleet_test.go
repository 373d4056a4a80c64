package Fleet

import (
	"path/filepath"
	"testing"

	"LongDrive/Models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Models.Connect(filepath.Join(t.TempDir(), "fleet_test.db"))
	require.NoError(t, err)
	return db
}

func createVehicle(t *testing.T, db *gorm.DB, registration string, odometer, fuel float64, tank *float64) *Models.Vehicle {
	t.Helper()
	v := &Models.Vehicle{
		RegistrationNumber: registration,
		Make:               "Ford",
		VehicleModel:       "Transit",
		FuelType:           "Diesel",
		RatedConsumption:   8.0,
		TankCapacity:       tank,
		Odometer:           odometer,
		FuelLevel:          fuel,
		Status:             Models.StatusAvailable,
	}
	require.NoError(t, NewVehicleRegistry(db).Create(v))
	return v
}

func createDriver(t *testing.T, db *gorm.DB, name string, active bool) *Models.Driver {
	t.Helper()
	d := &Models.Driver{Name: name, IsActive: active}
	require.NoError(t, db.Create(d).Error)
	return d
}

// forceStatus flips a vehicle's status behind the engine's back, simulating
// a concurrent writer that won a race.
func forceStatus(t *testing.T, db *gorm.DB, vehicleID uint, status string) {
	t.Helper()
	res := db.Model(&Models.Vehicle{}).Where("id = ?", vehicleID).Update("status", status)
	require.NoError(t, res.Error)
	require.EqualValues(t, 1, res.RowsAffected)
}

func floatPtr(f float64) *float64 {
	return &f
}
