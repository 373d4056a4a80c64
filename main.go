package main

import (
	"log"
	"os"

	"LongDrive/CronJobs"
	"LongDrive/FiberConfig"
	"LongDrive/Models"

	"github.com/joho/godotenv"
)

func main() {
	setupLogging()

	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "fleet.db"
	}

	db, err := Models.Connect(dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	if os.Getenv("SEED_SAMPLE_DATA") == "1" {
		if err := Models.SeedSampleData(db); err != nil {
			log.Println("Failed to seed sample data:", err)
		}
	}

	auditor := CronJobs.NewFleetAuditor(db, true)
	if err := auditor.Start(); err != nil {
		log.Println("Failed to start fleet auditor:", err)
	}
	defer auditor.Stop()

	FiberConfig.FiberConfig(db)
}

func setupLogging() {
	// Create logs directory if it doesn't exist
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
		return
	}

	logFile, err := os.OpenFile("logs/application.log",
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime)
}
