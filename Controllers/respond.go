package Controllers

import (
	"LongDrive/Fleet"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// fleetError translates an engine error into the HTTP response for it.
// Business-rule failures keep their kind in the payload so the client can
// react (re-fetch on conflict, highlight the odometer field on regression)
// without parsing message text.
func fleetError(c *fiber.Ctx, err error) error {
	kind := Fleet.KindOf(err)

	status := fiber.StatusInternalServerError
	switch kind {
	case Fleet.KindNotFound:
		status = fiber.StatusNotFound
	case Fleet.KindValidation:
		status = fiber.StatusBadRequest
	case Fleet.KindDuplicateRegistration,
		Fleet.KindVehicleUnavailable,
		Fleet.KindAlreadyCheckedOut,
		Fleet.KindAlreadyActiveTrip,
		Fleet.KindConflict:
		status = fiber.StatusConflict
	case Fleet.KindMileageRegression, Fleet.KindFuelOverflow:
		status = fiber.StatusUnprocessableEntity
	case Fleet.KindStorageUnavailable:
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   string(kind),
		"message": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
	})
}
