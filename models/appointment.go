package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusCheckedIn  AppointmentStatus = "checked_in"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// transitions is the appointment lifecycle: scheduled -> checked_in ->
// in_progress -> completed, with cancellation allowed only before the
// consultation starts. Completed and cancelled are terminal.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled:  {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Appointment is a committed booking of one slot for one doctor. Rows are
// never hard-deleted; cancellation is a status change. Non-cancelled rows
// for a (doctor, date) pair never overlap: the booking transaction enforces
// it, and the partial unique index on the slot start backs it up.
type Appointment struct {
	gorm.Model
	PublicID  string `json:"public_id" gorm:"size:36;uniqueIndex"`
	TenantID  string `json:"tenant_id" gorm:"size:64;index;uniqueIndex:uniq_active_slot,where:status <> 'cancelled'"`
	PatientID uint   `json:"patient_id"`
	Patient   User   `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	DoctorID  uint   `json:"doctor_id" gorm:"uniqueIndex:uniq_active_slot,where:status <> 'cancelled'"`
	Doctor    User   `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`

	Department string `json:"department"`
	Date       string `json:"date" gorm:"size:10;index;uniqueIndex:uniq_active_slot,where:status <> 'cancelled'"` // clinic-local "YYYY-MM-DD"
	StartMin   int    `json:"start_min" gorm:"uniqueIndex:uniq_active_slot,where:status <> 'cancelled'"`
	EndMin     int    `json:"end_min"`

	Reason       string            `json:"reason"`
	Location     string            `json:"location"`
	Status       AppointmentStatus `json:"status" gorm:"size:16;index"`
	CancelReason string            `json:"cancel_reason,omitempty"`

	VisitID *uint  `json:"visit_id,omitempty"`
	Visit   *Visit `json:"visit,omitempty" gorm:"foreignKey:VisitID"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	return nil
}

// StartsAtISO renders the slot start with the clinic's +06:30 offset.
func (a *Appointment) StartsAtISO() string {
	return fmt.Sprintf("%sT%02d:%02d:00+06:30", a.Date, a.StartMin/60, a.StartMin%60)
}

// Visit is the clinical record created (or linked) when a consultation
// completes. It stands in for the external clinical-record collaborator.
type Visit struct {
	gorm.Model
	PublicID  string    `json:"public_id" gorm:"size:36;uniqueIndex"`
	TenantID  string    `json:"tenant_id" gorm:"size:64;index"`
	PatientID uint      `json:"patient_id"`
	DoctorID  uint      `json:"doctor_id"`
	Date      string    `json:"date" gorm:"size:10"`
	OpenedAt  time.Time `json:"opened_at"`
}
