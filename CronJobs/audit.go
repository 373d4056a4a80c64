package CronJobs

import (
	"fmt"
	"log"

	"LongDrive/Models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// FleetAuditor re-checks the engine's invariants over the whole store on a
// schedule. It only reads and logs; a violation means a bug or a hand-edited
// database, and repairing either automatically would just hide it.
type FleetAuditor struct {
	cronScheduler  *cron.Cron
	db             *gorm.DB
	runImmediately bool
	jobID          cron.EntryID
}

// NewFleetAuditor creates an auditor over the given store.
func NewFleetAuditor(db *gorm.DB, runImmediately bool) *FleetAuditor {
	return &FleetAuditor{
		cronScheduler:  cron.New(cron.WithSeconds()),
		db:             db,
		runImmediately: runImmediately,
	}
}

// Start schedules the nightly audit at 2:00 AM.
func (a *FleetAuditor) Start() error {
	var err error
	a.jobID, err = a.cronScheduler.AddFunc("0 0 2 * * *", func() {
		log.Println("Running scheduled fleet consistency audit")
		a.logViolations()
	})
	if err != nil {
		return fmt.Errorf("error scheduling audit job: %w", err)
	}

	a.cronScheduler.Start()
	log.Println("Fleet audit scheduler started - will run daily at 2:00 AM")

	if a.runImmediately {
		log.Println("Running initial fleet consistency audit")
		a.logViolations()
	}
	return nil
}

// Stop terminates the auditor.
func (a *FleetAuditor) Stop() {
	if a.cronScheduler != nil {
		a.cronScheduler.Stop()
		log.Println("Fleet audit scheduler stopped")
	}
}

func (a *FleetAuditor) logViolations() {
	violations, err := a.RunAudit()
	if err != nil {
		log.Printf("Fleet audit failed: %v", err)
		return
	}
	if len(violations) == 0 {
		log.Println("Fleet audit passed, no violations")
		return
	}
	for _, v := range violations {
		log.Printf("Fleet audit violation: %s", v)
	}
}

// RunAudit checks every store-wide invariant and returns a description of
// each violation found.
func (a *FleetAuditor) RunAudit() ([]string, error) {
	var violations []string

	// At most one open key log entry per vehicle.
	type cardinality struct {
		VehicleID uint
		N         int64
	}
	var openKeys []cardinality
	if err := a.db.Model(&Models.KeyLogEntry{}).
		Select("vehicle_id, COUNT(*) as n").
		Where("status = ?", Models.KeyLogOut).
		Group("vehicle_id").
		Having("COUNT(*) > 1").
		Scan(&openKeys).Error; err != nil {
		return nil, err
	}
	for _, row := range openKeys {
		violations = append(violations,
			fmt.Sprintf("vehicle %d has %d open key log entries", row.VehicleID, row.N))
	}

	// At most one active trip per vehicle.
	var activeTrips []cardinality
	if err := a.db.Model(&Models.Trip{}).
		Select("vehicle_id, COUNT(*) as n").
		Where("status = ?", Models.TripActive).
		Group("vehicle_id").
		Having("COUNT(*) > 1").
		Scan(&activeTrips).Error; err != nil {
		return nil, err
	}
	for _, row := range activeTrips {
		violations = append(violations,
			fmt.Sprintf("vehicle %d has %d active trips", row.VehicleID, row.N))
	}

	// The status column must agree with the ledgers.
	var vehicles []Models.Vehicle
	if err := a.db.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	for _, v := range vehicles {
		var openCount, tripCount int64
		if err := a.db.Model(&Models.KeyLogEntry{}).
			Where("vehicle_id = ? AND status = ?", v.ID, Models.KeyLogOut).
			Count(&openCount).Error; err != nil {
			return nil, err
		}
		if err := a.db.Model(&Models.Trip{}).
			Where("vehicle_id = ? AND status = ?", v.ID, Models.TripActive).
			Count(&tripCount).Error; err != nil {
			return nil, err
		}

		switch v.Status {
		case Models.StatusCheckedOut:
			if openCount != 1 {
				violations = append(violations, fmt.Sprintf(
					"vehicle %s is checked_out but has %d open key log entries", v.RegistrationNumber, openCount))
			}
		case Models.StatusInTrip:
			if tripCount != 1 {
				violations = append(violations, fmt.Sprintf(
					"vehicle %s is in_trip but has %d active trips", v.RegistrationNumber, tripCount))
			}
		default:
			if openCount != 0 {
				violations = append(violations, fmt.Sprintf(
					"vehicle %s is %s but has an open key log entry", v.RegistrationNumber, v.Status))
			}
			if tripCount != 0 {
				violations = append(violations, fmt.Sprintf(
					"vehicle %s is %s but has an active trip", v.RegistrationNumber, v.Status))
			}
		}
	}

	// Completed trip arithmetic must hold.
	var completed []Models.Trip
	if err := a.db.Where("status = ?", Models.TripCompleted).Find(&completed).Error; err != nil {
		return nil, err
	}
	for _, t := range completed {
		if t.EndOdometer == nil || t.Distance == nil {
			violations = append(violations,
				fmt.Sprintf("trip %s is completed without end readings", t.RoadCardNumber))
			continue
		}
		if *t.EndOdometer < t.StartOdometer {
			violations = append(violations,
				fmt.Sprintf("trip %s has end odometer below start", t.RoadCardNumber))
		}
		if diff := *t.EndOdometer - t.StartOdometer - *t.Distance; diff > 0.001 || diff < -0.001 {
			violations = append(violations,
				fmt.Sprintf("trip %s distance does not match its odometer readings", t.RoadCardNumber))
		}
	}

	return violations, nil
}
