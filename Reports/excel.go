package Reports

import (
	"bytes"
	"fmt"
	"time"

	"LongDrive/Fleet"
	"LongDrive/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportHandler builds Excel exports from the ledgers. Exports are read-only
// and never share a transaction with a state-mutating operation.
type ReportHandler struct {
	DB    *gorm.DB
	Trips *Fleet.TripLedger
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db, Trips: Fleet.NewTripLedger(db)}
}

// ExportTrips streams the trip register as an Excel file, honoring the same
// filters as the trips listing.
func (h *ReportHandler) ExportTrips(c *fiber.Ctx) error {
	filter := Fleet.TripFilter{
		Status: c.Query("status"),
		Limit:  10000,
	}
	if id := c.QueryInt("vehicle_id"); id > 0 {
		filter.VehicleID = uint(id)
	}
	if from := c.Query("start_date"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid start_date, expected YYYY-MM-DD",
			})
		}
		filter.From = t
	}
	if to := c.Query("end_date"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid end_date, expected YYYY-MM-DD",
			})
		}
		filter.To = t.AddDate(0, 0, 1)
	}

	trips, err := h.Trips.List(filter)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Failed to fetch trips",
		})
	}

	buf, err := h.tripsToExcel(trips)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to build report",
			"error":   err.Error(),
		})
	}

	filename := fmt.Sprintf("trip_register_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(buf.Bytes())
}

func (h *ReportHandler) tripsToExcel(trips []Models.Trip) (*bytes.Buffer, error) {
	// Plate numbers and driver names are resolved once so the export does
	// not hammer the database per row.
	vehicleNames, driverNames, err := h.lookupNames()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Trips"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Road Card", "Vehicle", "Driver", "Status", "Start Time", "End Time",
		"Start Odometer", "End Odometer", "Distance", "Start Fuel", "End Fuel",
		"Refuel (L)", "Fuel Consumed (L)", "Purpose", "Route",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for rowIndex, trip := range trips {
		row := rowIndex + 2

		endTime := ""
		if trip.EndTime != nil {
			endTime = trip.EndTime.Format("2006-01-02 15:04")
		}
		values := []interface{}{
			trip.RoadCardNumber,
			vehicleNames[trip.VehicleID],
			driverNames[trip.DriverID],
			trip.Status,
			trip.StartTime.Format("2006-01-02 15:04"),
			endTime,
			trip.StartOdometer,
			floatOrBlank(trip.EndOdometer),
			floatOrBlank(trip.Distance),
			trip.StartFuel,
			floatOrBlank(trip.EndFuel),
			trip.RefuelLiters,
			floatOrBlank(trip.FuelConsumed),
			trip.Purpose,
			trip.Route,
		}
		for i, value := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %v", err)
	}
	return buf, nil
}

// ExportVehicles streams the current fleet state as an Excel file.
func (h *ReportHandler) ExportVehicles(c *fiber.Ctx) error {
	var vehicles []Models.Vehicle
	if err := h.DB.Order("registration_number").Find(&vehicles).Error; err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Failed to fetch vehicles",
		})
	}

	f := excelize.NewFile()
	sheetName := "Fleet"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to build report",
		})
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Registration", "Make", "Model", "Fuel Type", "Odometer",
		"Fuel Level", "Tank Capacity", "Status", "Notes",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, v := range vehicles {
		row := rowIndex + 2
		values := []interface{}{
			v.RegistrationNumber,
			v.Make,
			v.VehicleModel,
			v.FuelType,
			v.Odometer,
			v.FuelLevel,
			floatOrBlank(v.TankCapacity),
			v.Status,
			v.Notes,
		}
		for i, value := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to build report",
		})
	}

	filename := fmt.Sprintf("fleet_state_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(buf.Bytes())
}

func (h *ReportHandler) lookupNames() (map[uint]string, map[uint]string, error) {
	var vehicles []Models.Vehicle
	if err := h.DB.Find(&vehicles).Error; err != nil {
		return nil, nil, err
	}
	vehicleNames := make(map[uint]string, len(vehicles))
	for _, v := range vehicles {
		vehicleNames[v.ID] = v.RegistrationNumber
	}

	var drivers []Models.Driver
	if err := h.DB.Find(&drivers).Error; err != nil {
		return nil, nil, err
	}
	driverNames := make(map[uint]string, len(drivers))
	for _, d := range drivers {
		driverNames[d.ID] = d.Name
	}
	return vehicleNames, driverNames, nil
}

func floatOrBlank(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}
