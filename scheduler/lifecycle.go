package scheduler

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mmhealthtech/clinic-ops/models"
	"github.com/mmhealthtech/clinic-ops/utils"
)

// VisitLinker links (or creates) the clinical visit record required before
// an appointment may complete. In production this calls out to the
// clinical-record service; LocalVisitLinker writes the row locally.
type VisitLinker interface {
	LinkOrCreateVisit(tx *gorm.DB, appt *models.Appointment) (uint, error)
}

type LocalVisitLinker struct{}

func (LocalVisitLinker) LinkOrCreateVisit(tx *gorm.DB, appt *models.Appointment) (uint, error) {
	visit := models.Visit{
		PublicID:  uuid.NewString(),
		TenantID:  appt.TenantID,
		PatientID: appt.PatientID,
		DoctorID:  appt.DoctorID,
		Date:      appt.Date,
		OpenedAt:  utils.Now(),
	}
	if err := tx.Create(&visit).Error; err != nil {
		return 0, err
	}
	return visit.ID, nil
}

// CheckIn marks the patient as arrived.
func CheckIn(db *gorm.DB, tenantID string, id uint) (*models.Appointment, error) {
	return transition(db, tenantID, id, models.StatusCheckedIn)
}

// Start marks the consultation as underway.
func Start(db *gorm.DB, tenantID string, id uint) (*models.Appointment, error) {
	return transition(db, tenantID, id, models.StatusInProgress)
}

// Complete closes the consultation. Visit linkage must succeed first: on
// linker failure the transaction rolls back and the appointment stays
// in_progress, so a completed appointment always has a chart.
func Complete(db *gorm.DB, tenantID string, id uint, linker VisitLinker) (*models.Appointment, error) {
	var appt models.Appointment
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := findForUpdate(tx, tenantID, id, &appt); err != nil {
			return err
		}
		if !models.CanTransition(appt.Status, models.StatusCompleted) {
			return fmt.Errorf("%w: %s -> completed", ErrInvalidTransition, appt.Status)
		}
		if appt.VisitID == nil {
			visitID, err := linker.LinkOrCreateVisit(tx, &appt)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrVisitLinkRequired, err)
			}
			appt.VisitID = &visitID
		}
		appt.Status = models.StatusCompleted
		return tx.Save(&appt).Error
	})
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func transition(db *gorm.DB, tenantID string, id uint, to models.AppointmentStatus) (*models.Appointment, error) {
	var appt models.Appointment
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := findForUpdate(tx, tenantID, id, &appt); err != nil {
			return err
		}
		if !models.CanTransition(appt.Status, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, to)
		}
		appt.Status = to
		return tx.Save(&appt).Error
	})
	if err != nil {
		return nil, err
	}
	return &appt, nil
}
