package Controllers

import (
	"strconv"

	"LongDrive/Fleet"
	"LongDrive/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// VehicleHandler contains handler methods for vehicle routes
type VehicleHandler struct {
	Registry *Fleet.VehicleRegistry
}

func NewVehicleHandler(db *gorm.DB) *VehicleHandler {
	return &VehicleHandler{Registry: Fleet.NewVehicleRegistry(db)}
}

// GetVehicles returns the fleet, optionally filtered by ?status=.
func (h *VehicleHandler) GetVehicles(c *fiber.Ctx) error {
	vehicles, err := h.Registry.List(c.Query("status"))
	if err != nil {
		return fleetError(c, err)
	}
	return c.JSON(vehicles)
}

// GetVehicle returns a single vehicle by id.
func (h *VehicleHandler) GetVehicle(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid vehicle id")
	}
	vehicle, ferr := h.Registry.Get(id)
	if ferr != nil {
		return fleetError(c, ferr)
	}
	return c.JSON(vehicle)
}

type vehicleRequest struct {
	RegistrationNumber string   `json:"registration_number" validate:"required"`
	Make               string   `json:"make" validate:"required"`
	VehicleModel       string   `json:"vehicle_model" validate:"required"`
	VIN                string   `json:"vin"`
	ProductionYear     int      `json:"production_year"`
	FuelType           string   `json:"fuel_type"`
	RatedConsumption   float64  `json:"rated_consumption" validate:"gte=0"`
	TankCapacity       *float64 `json:"tank_capacity"`
	Odometer           float64  `json:"odometer" validate:"gte=0"`
	FuelLevel          float64  `json:"fuel_level" validate:"gte=0"`
	Notes              string   `json:"notes"`
}

// CreateVehicle registers a new vehicle in the fleet.
func (h *VehicleHandler) CreateVehicle(c *fiber.Ctx) error {
	var req vehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	vehicle := Models.Vehicle{
		RegistrationNumber: req.RegistrationNumber,
		Make:               req.Make,
		VehicleModel:       req.VehicleModel,
		VIN:                req.VIN,
		ProductionYear:     req.ProductionYear,
		FuelType:           req.FuelType,
		RatedConsumption:   req.RatedConsumption,
		TankCapacity:       req.TankCapacity,
		Odometer:           req.Odometer,
		FuelLevel:          req.FuelLevel,
		Status:             Models.StatusAvailable,
		Notes:              req.Notes,
	}
	if err := h.Registry.Create(&vehicle); err != nil {
		return fleetError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Vehicle registered successfully",
		"vehicle": vehicle,
	})
}

// UpdateVehicle changes a vehicle's descriptive fields. Status, odometer and
// fuel are not reachable here; those change only through fleet operations.
func (h *VehicleHandler) UpdateVehicle(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid vehicle id")
	}

	var req vehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	vehicle, ferr := h.Registry.UpdateDetails(id, &Models.Vehicle{
		RegistrationNumber: req.RegistrationNumber,
		Make:               req.Make,
		VehicleModel:       req.VehicleModel,
		VIN:                req.VIN,
		ProductionYear:     req.ProductionYear,
		FuelType:           req.FuelType,
		RatedConsumption:   req.RatedConsumption,
		TankCapacity:       req.TankCapacity,
		Notes:              req.Notes,
	})
	if ferr != nil {
		return fleetError(c, ferr)
	}

	return c.JSON(fiber.Map{
		"message": "Vehicle updated successfully",
		"vehicle": vehicle,
	})
}

// DeleteVehicle removes a vehicle with no ledger history.
func (h *VehicleHandler) DeleteVehicle(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid vehicle id")
	}
	if err := h.Registry.Delete(id); err != nil {
		return fleetError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Vehicle deleted successfully",
	})
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
