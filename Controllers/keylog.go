package Controllers

import (
	"LongDrive/Fleet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// KeyLogHandler contains handler methods for key log queries.
type KeyLogHandler struct {
	Keys *Fleet.KeyLedger
}

func NewKeyLogHandler(db *gorm.DB) *KeyLogHandler {
	return &KeyLogHandler{Keys: Fleet.NewKeyLedger(db)}
}

// GetOpenEntries lists keys currently out, optionally for one vehicle
// (?vehicle_id=).
func (h *KeyLogHandler) GetOpenEntries(c *fiber.Ctx) error {
	var vehicleID *uint
	if id := c.QueryInt("vehicle_id"); id > 0 {
		v := uint(id)
		vehicleID = &v
	}
	entries, err := h.Keys.ListOpen(vehicleID)
	if err != nil {
		return fleetError(c, err)
	}
	return c.JSON(entries)
}

// GetVehicleHistory lists the newest key log entries for a vehicle.
func (h *KeyLogHandler) GetVehicleHistory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid vehicle id")
	}
	entries, ferr := h.Keys.ListForVehicle(id, c.QueryInt("limit"))
	if ferr != nil {
		return fleetError(c, ferr)
	}
	return c.JSON(entries)
}

// GetEntry returns a single key log entry.
func (h *KeyLogHandler) GetEntry(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid entry id")
	}
	entry, ferr := h.Keys.Get(id)
	if ferr != nil {
		return fleetError(c, ferr)
	}
	return c.JSON(entry)
}
