package Controllers

import (
	"time"

	"LongDrive/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DriverHandler contains handler methods for driver routes
type DriverHandler struct {
	DB *gorm.DB
}

func NewDriverHandler(db *gorm.DB) *DriverHandler {
	return &DriverHandler{DB: db}
}

// GetDrivers returns all drivers; ?active=true narrows to active ones.
func (h *DriverHandler) GetDrivers(c *fiber.Ctx) error {
	q := h.DB.Order("name")
	if c.Query("active") == "true" {
		q = q.Where("is_active = ?", true)
	}
	var drivers []Models.Driver
	if err := q.Find(&drivers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch drivers",
		})
	}
	return c.JSON(drivers)
}

// GetDriver returns a single driver.
func (h *DriverHandler) GetDriver(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid driver id")
	}
	var driver Models.Driver
	if err := h.DB.First(&driver, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Driver not found",
		})
	}
	return c.JSON(driver)
}

type driverRequest struct {
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	LicenseExpiry string `json:"license_expiry"`
	IsActive      *bool  `json:"is_active"`
	Notes         string `json:"notes"`
}

func (r *driverRequest) apply(driver *Models.Driver) error {
	driver.Name = r.Name
	driver.Phone = r.Phone
	driver.LicenseNumber = r.LicenseNumber
	driver.Notes = r.Notes
	if r.IsActive != nil {
		driver.IsActive = *r.IsActive
	}
	if r.LicenseExpiry != "" {
		expiry, err := time.Parse("2006-01-02", r.LicenseExpiry)
		if err != nil {
			return err
		}
		driver.LicenseExpiry = &expiry
	}
	return nil
}

// CreateDriver registers a new driver.
func (h *DriverHandler) CreateDriver(c *fiber.Ctx) error {
	var req driverRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	driver := Models.Driver{IsActive: true}
	if err := req.apply(&driver); err != nil {
		return badRequest(c, "Invalid license_expiry, expected YYYY-MM-DD")
	}
	if err := h.DB.Create(&driver).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create driver",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Driver created successfully",
		"driver":  driver,
	})
}

// UpdateDriver changes a driver's details or active flag.
func (h *DriverHandler) UpdateDriver(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid driver id")
	}

	var driver Models.Driver
	if err := h.DB.First(&driver, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Driver not found",
		})
	}

	var req driverRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}
	if err := req.apply(&driver); err != nil {
		return badRequest(c, "Invalid license_expiry, expected YYYY-MM-DD")
	}

	if err := h.DB.Save(&driver).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update driver",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Driver updated successfully",
		"driver":  driver,
	})
}
