package FiberConfig

import (
	"fmt"
	"os"

	"LongDrive/Controllers"
	"LongDrive/Models"
	"LongDrive/Reports"
	"LongDrive/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize handlers
	authHandler := Controllers.NewAuthHandler(db)
	vehicleHandler := Controllers.NewVehicleHandler(db)
	fleetHandler := Controllers.NewFleetHandler(db)
	tripHandler := Controllers.NewTripHandler(db)
	keyLogHandler := Controllers.NewKeyLogHandler(db)
	driverHandler := Controllers.NewDriverHandler(db)
	reportHandler := Reports.NewReportHandler(db)

	// API group
	api := app.Group("/api")

	// Auth routes
	api.Post("/login", authHandler.Login)
	api.Post("/logout", authHandler.Logout)
	api.Get("/user", middleware.Verify(db, Models.PermissionViewer), authHandler.User)
	api.Post("/users", middleware.Verify(db, Models.PermissionAdmin), authHandler.Register)

	// Vehicle routes
	vehicles := api.Group("/vehicles", middleware.Verify(db, Models.PermissionViewer))
	vehicles.Get("/", vehicleHandler.GetVehicles)
	vehicles.Get("/:id", vehicleHandler.GetVehicle)
	vehicles.Get("/:id/keylog", keyLogHandler.GetVehicleHistory)
	vehicles.Post("/", middleware.Verify(db, Models.PermissionAdmin), vehicleHandler.CreateVehicle)
	vehicles.Put("/:id", middleware.Verify(db, Models.PermissionAdmin), vehicleHandler.UpdateVehicle)
	vehicles.Delete("/:id", middleware.Verify(db, Models.PermissionAdmin), vehicleHandler.DeleteVehicle)
	vehicles.Post("/:id/status", middleware.Verify(db, Models.PermissionDispatcher), fleetHandler.SetStatus)

	// Fleet operations - the consistency engine entry points
	fleet := api.Group("/fleet", middleware.Verify(db, Models.PermissionDispatcher))
	fleet.Post("/checkout", fleetHandler.Checkout)
	fleet.Post("/return", fleetHandler.ReturnKey)
	fleet.Post("/fueling", fleetHandler.RecordFueling)

	// Trip routes
	trips := api.Group("/trips", middleware.Verify(db, Models.PermissionViewer))
	trips.Get("/", tripHandler.GetTrips)
	trips.Get("/active", tripHandler.GetActiveTrips)
	trips.Get("/:id", tripHandler.GetTrip)
	trips.Get("/:id/card", tripHandler.GetTripCard)
	trips.Post("/", middleware.Verify(db, Models.PermissionDispatcher), fleetHandler.StartTrip)
	trips.Post("/:id/complete", middleware.Verify(db, Models.PermissionDispatcher), fleetHandler.CompleteTrip)
	trips.Post("/:id/cancel", middleware.Verify(db, Models.PermissionDispatcher), fleetHandler.CancelTrip)

	// Key log routes
	keylog := api.Group("/keylog", middleware.Verify(db, Models.PermissionViewer))
	keylog.Get("/open", keyLogHandler.GetOpenEntries)
	keylog.Get("/:id", keyLogHandler.GetEntry)

	// Driver routes
	drivers := api.Group("/drivers", middleware.Verify(db, Models.PermissionViewer))
	drivers.Get("/", driverHandler.GetDrivers)
	drivers.Get("/:id", driverHandler.GetDriver)
	drivers.Post("/", middleware.Verify(db, Models.PermissionAdmin), driverHandler.CreateDriver)
	drivers.Put("/:id", middleware.Verify(db, Models.PermissionAdmin), driverHandler.UpdateDriver)

	// Report routes
	reports := api.Group("/reports", middleware.Verify(db, Models.PermissionViewer))
	reports.Get("/trips.xlsx", reportHandler.ExportTrips)
	reports.Get("/fleet.xlsx", reportHandler.ExportVehicles)
}

func FiberConfig(db *gorm.DB) {
	fmt.Println("Server Up...")
	app := fiber.New(fiber.Config{
		AppName: "LongDrive",
	})
	app.Use(middleware.Logger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*", // Allow all origins
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true, // Important for cookies
		MaxAge:           300,  // Max age for preflight requests caching (5 minutes)
	}))

	SetupRoutes(app, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	if err := app.Listen(":" + port); err != nil {
		fmt.Println("Server stopped:", err)
	}
}
