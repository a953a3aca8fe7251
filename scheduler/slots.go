package scheduler

import (
	"gorm.io/gorm"

	"github.com/mmhealthtech/clinic-ops/models"
	"github.com/mmhealthtech/clinic-ops/utils"
)

// AvailableSlots computes the bookable slots for a doctor on a calendar
// date against current stored state. It is a plain read; Book re-runs the
// same computation under row locks at commit time.
func AvailableSlots(db *gorm.DB, tenantID string, doctorID uint, dateKey string, slotMin int) ([]utils.Slot, error) {
	return availableSlots(db, tenantID, doctorID, dateKey, slotMin, 0, false)
}

// availableSlots is the shared generator. When lock is set the existing
// appointments are read FOR UPDATE so a concurrent booking for the same
// (doctor, date) serializes behind this transaction. excludeID removes one
// appointment from the busy set, used when rescheduling it.
func availableSlots(tx *gorm.DB, tenantID string, doctorID uint, dateKey string, slotMin int, excludeID uint, lock bool) ([]utils.Slot, error) {
	windows, err := windowsForDate(tx, tenantID, doctorID, dateKey)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return []utils.Slot{}, nil
	}

	busy, err := busyForDate(tx, tenantID, doctorID, dateKey, excludeID, lock)
	if err != nil {
		return nil, err
	}
	return utils.GenerateSlots(dateKey, slotMin, windows, busy), nil
}

func busyForDate(tx *gorm.DB, tenantID string, doctorID uint, dateKey string, excludeID uint, lock bool) ([]utils.Window, error) {
	q := tx.Where("tenant_id = ? AND doctor_id = ? AND date = ? AND status <> ?",
		tenantID, doctorID, dateKey, models.StatusCancelled)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if lock {
		q = lockForUpdate(q)
	}

	var appointments []models.Appointment
	if err := q.Find(&appointments).Error; err != nil {
		return nil, err
	}

	blackouts, err := ListBlackouts(tx, tenantID, doctorID, dateKey)
	if err != nil {
		return nil, err
	}

	busy := make([]utils.Window, 0, len(appointments)+len(blackouts))
	for _, a := range appointments {
		busy = append(busy, utils.Window{StartMin: a.StartMin, EndMin: a.EndMin})
	}
	for _, b := range blackouts {
		start, end := b.MinuteRange()
		busy = append(busy, utils.Window{StartMin: start, EndMin: end})
	}
	return busy, nil
}
