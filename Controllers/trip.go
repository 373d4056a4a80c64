package Controllers

import (
	"time"

	"LongDrive/Fleet"
	"LongDrive/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TripHandler contains handler methods for trip queries. Mutations go
// through the FleetHandler.
type TripHandler struct {
	DB    *gorm.DB
	Trips *Fleet.TripLedger
}

func NewTripHandler(db *gorm.DB) *TripHandler {
	return &TripHandler{DB: db, Trips: Fleet.NewTripLedger(db)}
}

// GetTrips returns trips filtered by the query parameters vehicle_id,
// driver_id, status, start_date and end_date, newest first.
func (h *TripHandler) GetTrips(c *fiber.Ctx) error {
	filter := Fleet.TripFilter{
		Status: c.Query("status"),
		Limit:  c.QueryInt("limit"),
	}
	if id := c.QueryInt("vehicle_id"); id > 0 {
		filter.VehicleID = uint(id)
	}
	if id := c.QueryInt("driver_id"); id > 0 {
		filter.DriverID = uint(id)
	}
	if from := c.Query("start_date"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return badRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		}
		filter.From = t
	}
	if to := c.Query("end_date"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return badRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		}
		// Include the whole end day.
		filter.To = t.AddDate(0, 0, 1)
	}

	trips, err := h.Trips.List(filter)
	if err != nil {
		return fleetError(c, err)
	}
	return c.JSON(trips)
}

// GetActiveTrips returns all trips currently on the road.
func (h *TripHandler) GetActiveTrips(c *fiber.Ctx) error {
	trips, err := h.Trips.ListActive()
	if err != nil {
		return fleetError(c, err)
	}
	return c.JSON(trips)
}

// GetTrip returns a single trip.
func (h *TripHandler) GetTrip(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid trip id")
	}
	trip, ferr := h.Trips.Get(id)
	if ferr != nil {
		return fleetError(c, ferr)
	}
	return c.JSON(trip)
}

// GetTripCard returns the full road-card data set for a trip: the trip, its
// vehicle, driver, fuelings, and the normative consumption figure for
// comparison against the measured one.
func (h *TripHandler) GetTripCard(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid trip id")
	}
	trip, ferr := h.Trips.Get(id)
	if ferr != nil {
		return fleetError(c, ferr)
	}

	var vehicle Models.Vehicle
	if err := h.DB.First(&vehicle, trip.VehicleID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load vehicle for trip",
		})
	}
	var driver Models.Driver
	if err := h.DB.First(&driver, trip.DriverID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load driver for trip",
		})
	}
	var fuelings []Models.FuelingLog
	if err := h.DB.Where("trip_id = ?", trip.ID).Order("fueling_time").Find(&fuelings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load fuelings for trip",
		})
	}

	card := fiber.Map{
		"trip":     trip,
		"vehicle":  vehicle,
		"driver":   driver,
		"fuelings": fuelings,
	}
	// Normative consumption over the driven distance, for the consumption
	// comparison column of the paper road card.
	if trip.Distance != nil {
		normative := *trip.Distance * vehicle.RatedConsumption / 100
		card["normative_consumption"] = normative
	}
	return c.JSON(card)
}
