package Controllers

import (
	"LongDrive/Fleet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FleetHandler exposes the coordinator's operations. It holds no business
// logic: every rule lives in the Fleet package, this layer only parses,
// validates and translates errors.
type FleetHandler struct {
	Engine *Fleet.Coordinator
}

func NewFleetHandler(db *gorm.DB) *FleetHandler {
	return &FleetHandler{Engine: Fleet.NewCoordinator(db)}
}

type checkoutRequest struct {
	VehicleID uint    `json:"vehicle_id" validate:"required"`
	DriverID  uint    `json:"driver_id" validate:"required"`
	Odometer  float64 `json:"odometer" validate:"gte=0"`
	Fuel      float64 `json:"fuel" validate:"gte=0"`
	Location  string  `json:"location"`
}

// Checkout hands a vehicle's keys to a driver.
func (h *FleetHandler) Checkout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	entry, err := h.Engine.Checkout(Fleet.CheckoutRequest{
		VehicleID: req.VehicleID,
		DriverID:  req.DriverID,
		Odometer:  req.Odometer,
		Fuel:      req.Fuel,
		Location:  req.Location,
	})
	if err != nil {
		return fleetError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Keys checked out",
		"entry":   entry,
	})
}

type returnKeyRequest struct {
	EntryID  uint    `json:"entry_id" validate:"required"`
	Odometer float64 `json:"odometer" validate:"gte=0"`
	Fuel     float64 `json:"fuel" validate:"gte=0"`
	Location string  `json:"location"`
}

// ReturnKey closes a key checkout and updates the vehicle's state.
func (h *FleetHandler) ReturnKey(c *fiber.Ctx) error {
	var req returnKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	entry, err := h.Engine.ReturnKey(Fleet.ReturnRequest{
		EntryID:  req.EntryID,
		Odometer: req.Odometer,
		Fuel:     req.Fuel,
		Location: req.Location,
	})
	if err != nil {
		return fleetError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Keys returned",
		"entry":   entry,
	})
}

type startTripRequest struct {
	VehicleID uint   `json:"vehicle_id" validate:"required"`
	DriverID  uint   `json:"driver_id" validate:"required"`
	Purpose   string `json:"purpose" validate:"required"`
	Route     string `json:"route"`
}

// StartTrip opens a trip. The start odometer and fuel come from the vehicle
// row, never from the request.
func (h *FleetHandler) StartTrip(c *fiber.Ctx) error {
	var req startTripRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	trip, err := h.Engine.StartTrip(Fleet.StartTripRequest{
		VehicleID: req.VehicleID,
		DriverID:  req.DriverID,
		Purpose:   req.Purpose,
		Route:     req.Route,
	})
	if err != nil {
		return fleetError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Trip started",
		"trip":    trip,
	})
}

type completeTripRequest struct {
	EndOdometer  float64 `json:"end_odometer" validate:"gte=0"`
	EndFuel      float64 `json:"end_fuel" validate:"gte=0"`
	RefuelLiters float64 `json:"refuel_liters" validate:"gte=0"`
	Notes        string  `json:"notes"`
}

// CompleteTrip closes a trip with its end readings.
func (h *FleetHandler) CompleteTrip(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid trip id")
	}

	var req completeTripRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	trip, ferr := h.Engine.CompleteTrip(Fleet.CompleteTripRequest{
		TripID:       id,
		EndOdometer:  req.EndOdometer,
		EndFuel:      req.EndFuel,
		RefuelLiters: req.RefuelLiters,
		Notes:        req.Notes,
	})
	if ferr != nil {
		return fleetError(c, ferr)
	}

	return c.JSON(fiber.Map{
		"message": "Trip completed",
		"trip":    trip,
	})
}

// CancelTrip voids an active trip without touching the vehicle's readings.
func (h *FleetHandler) CancelTrip(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid trip id")
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}

	trip, ferr := h.Engine.CancelTrip(id, req.Reason)
	if ferr != nil {
		return fleetError(c, ferr)
	}

	return c.JSON(fiber.Map{
		"message": "Trip cancelled",
		"trip":    trip,
	})
}

type fuelingRequest struct {
	VehicleID     uint     `json:"vehicle_id" validate:"required"`
	Liters        float64  `json:"liters" validate:"required,gt=0"`
	Odometer      float64  `json:"odometer" validate:"gte=0"`
	PricePerLiter *float64 `json:"price_per_liter"`
	Notes         string   `json:"notes"`
}

// RecordFueling appends a fueling event and raises the vehicle's fuel level.
func (h *FleetHandler) RecordFueling(c *fiber.Ctx) error {
	var req fuelingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	record, err := h.Engine.RecordFueling(Fleet.FuelingRequest{
		VehicleID:     req.VehicleID,
		Liters:        req.Liters,
		Odometer:      req.Odometer,
		PricePerLiter: req.PricePerLiter,
		Notes:         req.Notes,
	})
	if err != nil {
		return fleetError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Fueling recorded",
		"fueling": record,
	})
}

type statusChangeRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// SetStatus handles manual status edits (service, broken, restore).
func (h *FleetHandler) SetStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid vehicle id")
	}

	var req statusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	vehicle, ferr := h.Engine.SetVehicleStatus(id, req.Status, req.Notes)
	if ferr != nil {
		return fleetError(c, ferr)
	}

	return c.JSON(fiber.Map{
		"message": "Vehicle status updated",
		"vehicle": vehicle,
	})
}
