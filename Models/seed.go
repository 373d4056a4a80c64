package Models

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSampleData loads a small demo fleet for local development. Runs only
// against an empty vehicles table so restarting the server never duplicates
// rows.
func SeedSampleData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Vehicle{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Sample data skipped, vehicles table is not empty")
		return nil
	}

	tank55 := 55.0
	tank70 := 70.0
	vehicles := []Vehicle{
		{
			RegistrationNumber: "WA-12345",
			Make:               "Ford",
			VehicleModel:       "Transit",
			FuelType:           "Diesel",
			RatedConsumption:   8.5,
			TankCapacity:       &tank70,
			Odometer:           50000,
			FuelLevel:          40,
			Status:             StatusAvailable,
		},
		{
			RegistrationNumber: "WA-67890",
			Make:               "Skoda",
			VehicleModel:       "Octavia",
			FuelType:           "Petrol",
			RatedConsumption:   6.8,
			TankCapacity:       &tank55,
			Odometer:           23500,
			FuelLevel:          30,
			Status:             StatusAvailable,
		},
		{
			RegistrationNumber: "WA-10101",
			Make:               "Renault",
			VehicleModel:       "Kangoo",
			FuelType:           "Diesel",
			RatedConsumption:   7.2,
			Odometer:           112300,
			FuelLevel:          25,
			Status:             StatusService,
			Notes:              "Timing belt replacement",
		},
	}
	if err := db.Create(&vehicles).Error; err != nil {
		return err
	}

	expiry := time.Now().AddDate(3, 0, 0)
	drivers := []Driver{
		{Name: "Jan Kowalski", Phone: "+48 600 100 200", LicenseNumber: "PL0012345", LicenseExpiry: &expiry, IsActive: true},
		{Name: "Anna Nowak", Phone: "+48 600 300 400", LicenseNumber: "PL0067890", LicenseExpiry: &expiry, IsActive: true},
		{Name: "Piotr Wisniewski", LicenseNumber: "PL0024680", IsActive: false, Notes: "On leave"},
	}
	if err := db.Create(&drivers).Error; err != nil {
		return err
	}

	password, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := User{
		Name:       "Admin",
		Email:      "admin@longdrive.local",
		Password:   password,
		Permission: PermissionAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Sample data loaded: %d vehicles, %d drivers, 1 user", len(vehicles), len(drivers))
	return nil
}
