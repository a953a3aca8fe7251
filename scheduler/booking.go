package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mmhealthtech/clinic-ops/config"
	"github.com/mmhealthtech/clinic-ops/models"
	"github.com/mmhealthtech/clinic-ops/utils"
)

// Actor identifies who initiates a cancellation. The cancel-window policy
// applies only to patients; staff may cancel at any time before the
// consultation starts.
type Actor string

const (
	ActorPatient Actor = "patient"
	ActorStaff   Actor = "staff"
)

type BookingRequest struct {
	TenantID    string
	DoctorID    uint
	PatientID   uint
	DateKey     string
	StartMin    int
	DurationMin int
	Department  string
	Reason      string
	Location    string
}

// Book validates the requested slot against current truth at commit time
// and creates the appointment. The slot list is recomputed inside the
// transaction with the doctor's existing appointments locked, so two
// concurrent requests for the same slot serialize and the loser sees the
// winner's row. The partial unique index on (tenant, doctor, date,
// start_min) is the backstop; its violation also maps to
// ErrSlotNoLongerAvailable.
func Book(db *gorm.DB, req BookingRequest) (*models.Appointment, error) {
	if _, err := utils.DayOfWeek(req.DateKey); err != nil {
		return nil, err
	}
	if req.DurationMin <= 0 || req.StartMin < 0 || req.StartMin+req.DurationMin > 24*60 {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, req.StartMin, req.StartMin+req.DurationMin)
	}

	appt := &models.Appointment{
		PublicID:   uuid.NewString(),
		TenantID:   req.TenantID,
		PatientID:  req.PatientID,
		DoctorID:   req.DoctorID,
		Department: req.Department,
		Date:       req.DateKey,
		StartMin:   req.StartMin,
		EndMin:     req.StartMin + req.DurationMin,
		Reason:     req.Reason,
		Location:   req.Location,
		Status:     models.StatusScheduled,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		slots, err := availableSlots(tx, req.TenantID, req.DoctorID, req.DateKey, req.DurationMin, 0, true)
		if err != nil {
			return err
		}
		if !utils.ContainsSlot(slots, req.StartMin, req.DurationMin) {
			return fmt.Errorf("%w: %s %s", ErrSlotNoLongerAvailable,
				req.DateKey, utils.FormatLocalISO(req.DateKey, req.StartMin))
		}
		if err := tx.Create(appt).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: slot taken concurrently", ErrSlotNoLongerAvailable)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// Reschedule moves an appointment to a new slot in a single transaction.
// The appointment's own interval is excluded from the busy set, so moving
// within the same day (or even to an adjacent slot) works. On any failure
// the original appointment is untouched.
func Reschedule(db *gorm.DB, tenantID string, id uint, newDateKey string, newStartMin, newDurationMin int) (*models.Appointment, error) {
	if _, err := utils.DayOfWeek(newDateKey); err != nil {
		return nil, err
	}
	if newDurationMin <= 0 || newStartMin < 0 || newStartMin+newDurationMin > 24*60 {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, newStartMin, newStartMin+newDurationMin)
	}

	var appt models.Appointment
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := findForUpdate(tx, tenantID, id, &appt); err != nil {
			return err
		}
		if appt.Status != models.StatusScheduled && appt.Status != models.StatusCheckedIn {
			return fmt.Errorf("%w: cannot reschedule a %s appointment", ErrInvalidTransition, appt.Status)
		}

		slots, err := availableSlots(tx, tenantID, appt.DoctorID, newDateKey, newDurationMin, appt.ID, true)
		if err != nil {
			return err
		}
		if !utils.ContainsSlot(slots, newStartMin, newDurationMin) {
			return fmt.Errorf("%w: %s", ErrSlotNoLongerAvailable,
				utils.FormatLocalISO(newDateKey, newStartMin))
		}

		appt.Date = newDateKey
		appt.StartMin = newStartMin
		appt.EndMin = newStartMin + newDurationMin
		if err := tx.Save(&appt).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: slot taken concurrently", ErrSlotNoLongerAvailable)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// Cancel marks an appointment cancelled. Legal only from scheduled or
// checked_in. For patient-initiated cancellations the policy cancel window
// is enforced: less than CancelWindowHours before the slot start fails
// with ErrCancelWindowViolation.
func Cancel(db *gorm.DB, tenantID string, id uint, reason string, actor Actor, policy config.Policy) (*models.Appointment, error) {
	var appt models.Appointment
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := findForUpdate(tx, tenantID, id, &appt); err != nil {
			return err
		}
		if !models.CanTransition(appt.Status, models.StatusCancelled) {
			return fmt.Errorf("%w: %s -> cancelled", ErrInvalidTransition, appt.Status)
		}
		if actor == ActorPatient && policy.CancelWindowHours > 0 {
			start, err := utils.ToLocalInstant(appt.Date, appt.StartMin)
			if err != nil {
				return err
			}
			window := time.Duration(policy.CancelWindowHours) * time.Hour
			if start.Sub(utils.Now()) < window {
				return fmt.Errorf("%w: needs %d hours notice", ErrCancelWindowViolation, policy.CancelWindowHours)
			}
		}
		appt.Status = models.StatusCancelled
		appt.CancelReason = reason
		return tx.Save(&appt).Error
	})
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func findForUpdate(tx *gorm.DB, tenantID string, id uint, appt *models.Appointment) error {
	err := lockForUpdate(tx).Where("tenant_id = ?", tenantID).First(appt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return err
}
