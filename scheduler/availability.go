package scheduler

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mmhealthtech/clinic-ops/models"
	"github.com/mmhealthtech/clinic-ops/utils"
)

// Clinic-wide fallback when neither the doctor nor the tenant has
// configured any windows: 09:00-17:00.
var fallbackDefaults = []utils.Window{{StartMin: 9 * 60, EndMin: 17 * 60}}

// lockForUpdate adds SELECT ... FOR UPDATE on dialects that support it.
// SQLite (tests) serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// AddWindow stores a recurring availability window after validating its
// bounds and checking for overlap against the doctor's existing windows for
// that weekday. The read and the insert share one transaction so two
// concurrent admins cannot both pass the overlap check on stale data.
func AddWindow(db *gorm.DB, tenantID string, doctorID uint, day models.DayOfWeek, startMin, endMin int) (*models.AvailabilityWindow, error) {
	if day < models.Sunday || day > models.Saturday {
		return nil, fmt.Errorf("%w: day of week %d", ErrInvalidRange, day)
	}
	if startMin < 0 || startMin >= endMin || endMin > 24*60 {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, startMin, endMin)
	}

	window := &models.AvailabilityWindow{
		TenantID:  tenantID,
		DoctorID:  doctorID,
		DayOfWeek: day,
		StartMin:  startMin,
		EndMin:    endMin,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing []models.AvailabilityWindow
		if err := lockForUpdate(tx).
			Where("tenant_id = ? AND doctor_id = ? AND day_of_week = ?", tenantID, doctorID, day).
			Find(&existing).Error; err != nil {
			return err
		}
		for _, e := range existing {
			if utils.Overlaps(startMin, endMin, e.StartMin, e.EndMin) {
				return fmt.Errorf("%w: [%d, %d) collides with [%d, %d)",
					ErrOverlapConflict, startMin, endMin, e.StartMin, e.EndMin)
			}
		}
		return tx.Create(window).Error
	})
	if err != nil {
		return nil, err
	}
	return window, nil
}

// ListWindows returns every recurring window of a doctor, ordered by
// weekday then start minute.
func ListWindows(db *gorm.DB, tenantID string, doctorID uint) ([]models.AvailabilityWindow, error) {
	var windows []models.AvailabilityWindow
	err := db.Where("tenant_id = ? AND doctor_id = ?", tenantID, doctorID).
		Order("day_of_week asc, start_min asc").
		Find(&windows).Error
	return windows, err
}

// ListDefaults returns the clinic-wide default windows, falling back to
// 09:00-17:00 when the tenant has configured none.
func ListDefaults(db *gorm.DB, tenantID string) ([]utils.Window, error) {
	var rows []models.DefaultAvailabilityWindow
	if err := db.Where("tenant_id = ?", tenantID).Order("start_min asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return fallbackDefaults, nil
	}
	windows := make([]utils.Window, len(rows))
	for i, r := range rows {
		windows[i] = utils.Window{StartMin: r.StartMin, EndMin: r.EndMin}
	}
	return windows, nil
}

// AddBlackout stores an exception period. Blackouts only remove time, so
// no conflict check is needed on write.
func AddBlackout(db *gorm.DB, b *models.BlackoutPeriod) error {
	if _, err := utils.DayOfWeek(b.StartDate); err != nil {
		return err
	}
	if _, err := utils.DayOfWeek(b.EndDate); err != nil {
		return err
	}
	if b.EndDate < b.StartDate {
		return fmt.Errorf("%w: blackout ends before it starts", ErrInvalidRange)
	}
	if b.StartMin != nil && b.EndMin != nil && (*b.StartMin < 0 || *b.StartMin >= *b.EndMin || *b.EndMin > 24*60) {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, *b.StartMin, *b.EndMin)
	}
	return db.Create(b).Error
}

// ListBlackouts returns the doctor's blackout periods overlapping a date.
func ListBlackouts(db *gorm.DB, tenantID string, doctorID uint, dateKey string) ([]models.BlackoutPeriod, error) {
	var periods []models.BlackoutPeriod
	err := db.Where("tenant_id = ? AND doctor_id = ? AND start_date <= ? AND end_date >= ?",
		tenantID, doctorID, dateKey, dateKey).
		Find(&periods).Error
	return periods, err
}

// windowsForDate resolves the candidate windows for one calendar date:
// the doctor's custom windows for that weekday if any exist, else the
// clinic defaults. The fallback is evaluated per call, not cached.
func windowsForDate(tx *gorm.DB, tenantID string, doctorID uint, dateKey string) ([]utils.Window, error) {
	day, err := utils.DayOfWeek(dateKey)
	if err != nil {
		return nil, err
	}

	var custom []models.AvailabilityWindow
	if err := tx.Where("tenant_id = ? AND doctor_id = ?", tenantID, doctorID).
		Order("day_of_week asc, start_min asc").
		Find(&custom).Error; err != nil {
		return nil, err
	}
	if len(custom) == 0 {
		return ListDefaults(tx, tenantID)
	}

	windows := []utils.Window{}
	for _, w := range custom {
		if int(w.DayOfWeek) == day {
			windows = append(windows, utils.Window{StartMin: w.StartMin, EndMin: w.EndMin})
		}
	}
	return windows, nil
}
