package Fleet

import (
	"fmt"
	"testing"
	"time"

	"LongDrive/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStartTripAssignsRoadCardNumbers(t *testing.T) {
	db := newTestDB(t)
	ledger := NewTripLedger(db)
	v1 := createVehicle(t, db, "WA 60001", 1000, 30, nil)
	v2 := createVehicle(t, db, "WA 60002", 2000, 40, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	first, err := ledger.StartTrip(v1.ID, d.ID, 1000, 30, "delivery", "", nil)
	require.NoError(t, err)
	second, err := ledger.StartTrip(v2.ID, d.ID, 2000, 40, "delivery", "", nil)
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("RC-%d-0001", year), first.RoadCardNumber)
	assert.Equal(t, fmt.Sprintf("RC-%d-0002", year), second.RoadCardNumber)
	assert.Equal(t, Models.TripActive, first.Status)
	assert.Nil(t, first.Distance)
}

func TestRoadCardNumberCollisionRejected(t *testing.T) {
	db := newTestDB(t)
	ledger := NewTripLedger(db)
	v := createVehicle(t, db, "WA 60012", 1000, 30, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	trip, err := ledger.StartTrip(v.ID, d.ID, 1000, 30, "delivery", "", nil)
	require.NoError(t, err)

	// Two interleaved starts drawing the same number must collide on the
	// unique index instead of writing twins into the ledger.
	dup := &Models.Trip{
		RoadCardNumber: trip.RoadCardNumber,
		VehicleID:      v.ID,
		DriverID:       d.ID,
		StartTime:      time.Now(),
		Status:         Models.TripActive,
	}
	err = db.Create(dup).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestStartTripSecondActiveRejected(t *testing.T) {
	db := newTestDB(t)
	ledger := NewTripLedger(db)
	v := createVehicle(t, db, "WA 60003", 1000, 30, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	_, err := ledger.StartTrip(v.ID, d.ID, 1000, 30, "delivery", "", nil)
	require.NoError(t, err)

	_, err = ledger.StartTrip(v.ID, d.ID, 1000, 30, "delivery", "", nil)
	require.Error(t, err)
	assert.Equal(t, KindAlreadyActiveTrip, KindOf(err))
}

func TestCompleteTripDerivedValues(t *testing.T) {
	db := newTestDB(t)
	ledger := NewTripLedger(db)
	v := createVehicle(t, db, "WA 60004", 50000, 40, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	trip, err := ledger.StartTrip(v.ID, d.ID, 50000, 40, "delivery", "Warszawa-Radom", nil)
	require.NoError(t, err)

	done, err := ledger.CompleteTrip(trip.ID, 50200, 24, 0, "")
	require.NoError(t, err)
	assert.Equal(t, Models.TripCompleted, done.Status)
	require.NotNil(t, done.Distance)
	assert.InDelta(t, 200, *done.Distance, 0.0001)
	require.NotNil(t, done.FuelConsumed)
	assert.InDelta(t, 16, *done.FuelConsumed, 0.0001)
	require.NotNil(t, done.EndTime)
}

func TestCompleteTripCountsRefuels(t *testing.T) {
	db := newTestDB(t)
	ledger := NewTripLedger(db)
	v := createVehicle(t, db, "WA 60005", 10000, 20, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	trip, err := ledger.StartTrip(v.ID, d.ID, 10000, 20, "delivery", "", nil)
	require.NoError(t, err)

	_, err = ledger.AddRefuel(trip.ID, 30)
	require.NoError(t, err)

	// 5 more liters reported only at completion.
	done, err := ledger.CompleteTrip(trip.ID, 10400, 15, 5, "")
	require.NoError(t, err)
	assert.InDelta(t, 35, done.RefuelLiters, 0.0001)
	// 20 at start + 35 refueled - 15 at end.
	assert.InDelta(t, 40, *done.FuelConsumed, 0.0001)
}

func TestCompleteTripTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	ledger := NewTripLedger(db)
	v := createVehicle(t, db, "WA 60006", 1000, 30, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	trip, err := ledger.StartTrip(v.ID, d.ID, 1000, 30, "delivery", "", nil)
	require.NoError(t, err)
	_, err = ledger.CompleteTrip(trip.ID, 1100, 20, 0, "")
	require.NoError(t, err)

	_, err = ledger.CompleteTrip(trip.ID, 1200, 10, 0, "")
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	got, err := ledger.Get(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, 1100.0, *got.EndOdometer)
}

func TestCompleteTripMileageRegression(t *testing.T) {
	db := newTestDB(t)
	ledger := NewTripLedger(db)
	v := createVehicle(t, db, "WA 60007", 5000, 30, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	trip, err := ledger.StartTrip(v.ID, d.ID, 5000, 30, "delivery", "", nil)
	require.NoError(t, err)

	_, err = ledger.CompleteTrip(trip.ID, 4900, 20, 0, "")
	require.Error(t, err)
	assert.Equal(t, KindMileageRegression, KindOf(err))

	got, err := ledger.Get(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.TripActive, got.Status)
}

func TestCancelTrip(t *testing.T) {
	db := newTestDB(t)
	ledger := NewTripLedger(db)
	v := createVehicle(t, db, "WA 60008", 1000, 30, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	trip, err := ledger.StartTrip(v.ID, d.ID, 1000, 30, "delivery", "", nil)
	require.NoError(t, err)

	cancelled, err := ledger.Cancel(trip.ID, "wrong vehicle picked")
	require.NoError(t, err)
	assert.Equal(t, Models.TripCancelled, cancelled.Status)
	assert.Nil(t, cancelled.Distance)
	assert.Equal(t, "wrong vehicle picked", cancelled.Notes)

	active, err := ledger.ActiveTripForVehicle(v.ID)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestAddRefuelOnClosedTripConflicts(t *testing.T) {
	db := newTestDB(t)
	ledger := NewTripLedger(db)
	v := createVehicle(t, db, "WA 60009", 1000, 30, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	trip, err := ledger.StartTrip(v.ID, d.ID, 1000, 30, "delivery", "", nil)
	require.NoError(t, err)
	_, err = ledger.CompleteTrip(trip.ID, 1100, 20, 0, "")
	require.NoError(t, err)

	_, err = ledger.AddRefuel(trip.ID, 10)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestListTripsFilter(t *testing.T) {
	db := newTestDB(t)
	ledger := NewTripLedger(db)
	v1 := createVehicle(t, db, "WA 60010", 1000, 30, nil)
	v2 := createVehicle(t, db, "WA 60011", 2000, 40, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	t1, err := ledger.StartTrip(v1.ID, d.ID, 1000, 30, "delivery", "", nil)
	require.NoError(t, err)
	_, err = ledger.CompleteTrip(t1.ID, 1100, 20, 0, "")
	require.NoError(t, err)
	_, err = ledger.StartTrip(v2.ID, d.ID, 2000, 40, "delivery", "", nil)
	require.NoError(t, err)

	completed, err := ledger.List(TripFilter{Status: Models.TripCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, t1.ID, completed[0].ID)

	byVehicle, err := ledger.List(TripFilter{VehicleID: v2.ID})
	require.NoError(t, err)
	require.Len(t, byVehicle, 1)
	assert.Equal(t, v2.ID, byVehicle[0].VehicleID)

	active, err := ledger.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, v2.ID, active[0].VehicleID)
}
