package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mmhealthtech/clinic-ops/config"
	"github.com/mmhealthtech/clinic-ops/models"
	"github.com/mmhealthtech/clinic-ops/utils"
)

const (
	testTenant = "clinic-ygn"
	docID      = uint(1)
	patientID  = uint(2)
)

// mondayKey is 2025-04-07, a Monday.
const mondayKey = "2025-04-07"

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "clinic.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// One connection keeps concurrent test transactions serialized the way
	// Postgres row locks would.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.AvailabilityWindow{},
		&models.DefaultAvailabilityWindow{},
		&models.BlackoutPeriod{},
		&models.Appointment{},
		&models.Visit{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// pinClock fixes utils.Now for the duration of the test.
func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	orig := utils.Now
	utils.Now = func() time.Time { return at }
	t.Cleanup(func() { utils.Now = orig })
}

func mondayMorning(db *gorm.DB, t *testing.T) {
	t.Helper()
	if _, err := AddWindow(db, testTenant, docID, models.Monday, 9*60, 12*60); err != nil {
		t.Fatalf("seed window: %v", err)
	}
}

func mustBook(db *gorm.DB, t *testing.T, startMin int) *models.Appointment {
	t.Helper()
	appt, err := Book(db, BookingRequest{
		TenantID:    testTenant,
		DoctorID:    docID,
		PatientID:   patientID,
		DateKey:     mondayKey,
		StartMin:    startMin,
		DurationMin: 30,
		Department:  "general",
		Reason:      "follow-up",
	})
	if err != nil {
		t.Fatalf("book %d: %v", startMin, err)
	}
	return appt
}

func testPolicy() config.Policy {
	return config.Policy{SlotDurationMin: 30, CancelWindowHours: 2, PatientBookingEnabled: true}
}
