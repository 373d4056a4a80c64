package Fleet

import (
	"testing"

	"LongDrive/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutReturnRoundTrip(t *testing.T) {
	db := newTestDB(t)
	engine := NewCoordinator(db)
	v := createVehicle(t, db, "WA 70001", 100, 40, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	entry, err := engine.Checkout(CheckoutRequest{
		VehicleID: v.ID,
		DriverID:  d.ID,
		Odometer:  100,
		Fuel:      40,
		Location:  "depot",
	})
	require.NoError(t, err)
	assert.Equal(t, Models.KeyLogOut, entry.Status)

	got, err := engine.Vehicles.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.StatusCheckedOut, got.Status)

	_, err = engine.ReturnKey(ReturnRequest{
		EntryID:  entry.ID,
		Odometer: 150,
		Fuel:     30,
		Location: "depot",
	})
	require.NoError(t, err)

	got, err = engine.Vehicles.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.StatusAvailable, got.Status)
	assert.Equal(t, 150.0, got.Odometer)
	assert.Equal(t, 30.0, got.FuelLevel)

	closed, err := engine.Keys.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.KeyLogReturned, closed.Status)
}

func TestCheckoutUnavailableVehicleLeavesNoEntry(t *testing.T) {
	db := newTestDB(t)
	engine := NewCoordinator(db)
	v := createVehicle(t, db, "WA 70002", 100, 40, nil)
	d := createDriver(t, db, "Jan Kowalski", true)
	forceStatus(t, db, v.ID, Models.StatusService)

	_, err := engine.Checkout(CheckoutRequest{VehicleID: v.ID, DriverID: d.ID, Odometer: 100, Fuel: 40})
	require.Error(t, err)
	assert.Equal(t, KindVehicleUnavailable, KindOf(err))

	entries, err := engine.Keys.ListForVehicle(v.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCheckoutInactiveDriverRejected(t *testing.T) {
	db := newTestDB(t)
	engine := NewCoordinator(db)
	v := createVehicle(t, db, "WA 70003", 100, 40, nil)
	d := createDriver(t, db, "Adam Nowak", false)

	_, err := engine.Checkout(CheckoutRequest{VehicleID: v.ID, DriverID: d.ID, Odometer: 100, Fuel: 40})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	got, err := engine.Vehicles.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.StatusAvailable, got.Status)
}

func TestTripLifecycle(t *testing.T) {
	db := newTestDB(t)
	engine := NewCoordinator(db)
	v := createVehicle(t, db, "WA 70004", 50000, 40, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	trip, err := engine.StartTrip(StartTripRequest{
		VehicleID: v.ID,
		DriverID:  d.ID,
		Purpose:   "delivery",
		Route:     "Warszawa-Radom",
	})
	require.NoError(t, err)
	assert.Equal(t, 50000.0, trip.StartOdometer)
	assert.Equal(t, 40.0, trip.StartFuel)

	got, err := engine.Vehicles.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.StatusInTrip, got.Status)

	// A second start against the same vehicle must fail and leave no row.
	_, err = engine.StartTrip(StartTripRequest{VehicleID: v.ID, DriverID: d.ID, Purpose: "delivery"})
	require.Error(t, err)
	assert.Equal(t, KindVehicleUnavailable, KindOf(err))

	var tripCount int64
	require.NoError(t, db.Model(&Models.Trip{}).Where("vehicle_id = ?", v.ID).Count(&tripCount).Error)
	assert.EqualValues(t, 1, tripCount)

	done, err := engine.CompleteTrip(CompleteTripRequest{
		TripID:      trip.ID,
		EndOdometer: 50200,
		EndFuel:     24,
	})
	require.NoError(t, err)
	assert.InDelta(t, 200, *done.Distance, 0.0001)
	assert.InDelta(t, 16, *done.FuelConsumed, 0.0001)

	got, err = engine.Vehicles.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.StatusAvailable, got.Status)
	assert.Equal(t, 50200.0, got.Odometer)
	assert.Equal(t, 24.0, got.FuelLevel)
}

func TestCompleteTripMileageRegressionLeavesStateUntouched(t *testing.T) {
	db := newTestDB(t)
	engine := NewCoordinator(db)
	v := createVehicle(t, db, "WA 70005", 50000, 40, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	trip, err := engine.StartTrip(StartTripRequest{VehicleID: v.ID, DriverID: d.ID, Purpose: "delivery"})
	require.NoError(t, err)

	_, err = engine.CompleteTrip(CompleteTripRequest{TripID: trip.ID, EndOdometer: 49900, EndFuel: 30})
	require.Error(t, err)
	assert.Equal(t, KindMileageRegression, KindOf(err))

	got, err := engine.Trips.Get(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.TripActive, got.Status)

	vGot, err := engine.Vehicles.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.StatusInTrip, vGot.Status)
	assert.Equal(t, 50000.0, vGot.Odometer)
}

func TestCompleteTripRollsBackWhenVehicleRaces(t *testing.T) {
	db := newTestDB(t)
	engine := NewCoordinator(db)
	v := createVehicle(t, db, "WA 70006", 50000, 40, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	trip, err := engine.StartTrip(StartTripRequest{VehicleID: v.ID, DriverID: d.ID, Purpose: "delivery"})
	require.NoError(t, err)

	// A concurrent writer yanks the vehicle out from under the completion.
	forceStatus(t, db, v.ID, Models.StatusBroken)

	_, err = engine.CompleteTrip(CompleteTripRequest{TripID: trip.ID, EndOdometer: 50200, EndFuel: 24})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	// The ledger write inside the failed unit of work must be gone.
	got, err := engine.Trips.Get(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.TripActive, got.Status)
	assert.Nil(t, got.EndOdometer)
	assert.Nil(t, got.Distance)
}

func TestCancelTripRestoresVehicle(t *testing.T) {
	db := newTestDB(t)
	engine := NewCoordinator(db)
	v := createVehicle(t, db, "WA 70007", 50000, 40, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	trip, err := engine.StartTrip(StartTripRequest{VehicleID: v.ID, DriverID: d.ID, Purpose: "delivery"})
	require.NoError(t, err)

	cancelled, err := engine.CancelTrip(trip.ID, "dispatcher error")
	require.NoError(t, err)
	assert.Equal(t, Models.TripCancelled, cancelled.Status)

	got, err := engine.Vehicles.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.StatusAvailable, got.Status)
	assert.Equal(t, 50000.0, got.Odometer)
	assert.Equal(t, 40.0, got.FuelLevel)
}

func TestRecordFuelingMidTrip(t *testing.T) {
	db := newTestDB(t)
	engine := NewCoordinator(db)
	v := createVehicle(t, db, "WA 70008", 10000, 20, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	trip, err := engine.StartTrip(StartTripRequest{VehicleID: v.ID, DriverID: d.ID, Purpose: "delivery"})
	require.NoError(t, err)

	record, err := engine.RecordFueling(FuelingRequest{
		VehicleID:     v.ID,
		Liters:        30,
		Odometer:      10150,
		PricePerLiter: floatPtr(6.50),
	})
	require.NoError(t, err)
	require.NotNil(t, record.TripID)
	assert.Equal(t, trip.ID, *record.TripID)
	require.NotNil(t, record.TotalCost)
	assert.InDelta(t, 195, *record.TotalCost, 0.0001)

	got, err := engine.Vehicles.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.FuelLevel)
	assert.Equal(t, 10150.0, got.Odometer)
	assert.Equal(t, Models.StatusInTrip, got.Status)

	done, err := engine.CompleteTrip(CompleteTripRequest{TripID: trip.ID, EndOdometer: 10400, EndFuel: 35})
	require.NoError(t, err)
	// 20 at start + 30 refueled - 35 at end.
	assert.InDelta(t, 15, *done.FuelConsumed, 0.0001)
}

func TestRecordFuelingOverflowRejected(t *testing.T) {
	db := newTestDB(t)
	engine := NewCoordinator(db)
	v := createVehicle(t, db, "WA 70009", 1000, 50, floatPtr(60))

	_, err := engine.RecordFueling(FuelingRequest{VehicleID: v.ID, Liters: 20, Odometer: 1000})
	require.Error(t, err)
	assert.Equal(t, KindFuelOverflow, KindOf(err))

	var count int64
	require.NoError(t, db.Model(&Models.FuelingLog{}).Where("vehicle_id = ?", v.ID).Count(&count).Error)
	assert.Zero(t, count)

	got, err := engine.Vehicles.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.FuelLevel)
}

func TestSetVehicleStatusGuardsOpenWork(t *testing.T) {
	db := newTestDB(t)
	engine := NewCoordinator(db)
	v := createVehicle(t, db, "WA 70010", 1000, 30, nil)
	d := createDriver(t, db, "Jan Kowalski", true)

	updated, err := engine.SetVehicleStatus(v.ID, Models.StatusService, "oil change")
	require.NoError(t, err)
	assert.Equal(t, Models.StatusService, updated.Status)
	assert.Equal(t, "oil change", updated.Notes)

	restored, err := engine.SetVehicleStatus(v.ID, Models.StatusAvailable, "")
	require.NoError(t, err)
	assert.Equal(t, Models.StatusAvailable, restored.Status)

	_, err = engine.StartTrip(StartTripRequest{VehicleID: v.ID, DriverID: d.ID, Purpose: "delivery"})
	require.NoError(t, err)

	// A vehicle on a trip cannot be yanked into service by hand.
	_, err = engine.SetVehicleStatus(v.ID, Models.StatusService, "")
	require.Error(t, err)
	assert.Equal(t, KindVehicleUnavailable, KindOf(err))
}
