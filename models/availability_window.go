package models

import "gorm.io/gorm"

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// AvailabilityWindow is a recurring weekly interval during which a doctor
// accepts appointments, expressed in minutes since clinic-local midnight.
// Windows for the same (doctor, weekday) never overlap; touching endpoints
// are allowed.
type AvailabilityWindow struct {
	gorm.Model
	TenantID  string    `json:"tenant_id" gorm:"size:64;index"`
	DoctorID  uint      `json:"doctor_id" gorm:"index:idx_doctor_day"`
	Doctor    User      `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	DayOfWeek DayOfWeek `json:"day_of_week" gorm:"index:idx_doctor_day"`
	StartMin  int       `json:"start_min"`
	EndMin    int       `json:"end_min"`
}

// DefaultAvailabilityWindow is the clinic-wide fallback used for doctors
// with no custom windows. Read-mostly configuration, a handful of rows.
type DefaultAvailabilityWindow struct {
	gorm.Model
	TenantID string `json:"tenant_id" gorm:"size:64;index"`
	StartMin int    `json:"start_min"`
	EndMin   int    `json:"end_min"`
}
