package models

import "gorm.io/gorm"

// BlackoutPeriod removes a doctor's availability regardless of recurring
// windows (leave, conferences, ward rounds). StartDate and EndDate are
// inclusive clinic-local date keys. When StartMin/EndMin are nil the whole
// day is blacked out; otherwise only [StartMin, EndMin) on each covered
// date. Blackouts only subtract time, so writes need no conflict check.
type BlackoutPeriod struct {
	gorm.Model
	TenantID  string `json:"tenant_id" gorm:"size:64;index"`
	DoctorID  uint   `json:"doctor_id" gorm:"index"`
	Doctor    User   `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	StartDate string `json:"start_date" gorm:"size:10"`
	EndDate   string `json:"end_date" gorm:"size:10"`
	StartMin  *int   `json:"start_min,omitempty"`
	EndMin    *int   `json:"end_min,omitempty"`
	Reason    string `json:"reason"`
}

// Covers reports whether the blackout applies to the given date key.
// Date keys compare lexicographically.
func (b *BlackoutPeriod) Covers(dateKey string) bool {
	return b.StartDate <= dateKey && dateKey <= b.EndDate
}

// MinuteRange returns the blacked-out minutes for one covered date.
func (b *BlackoutPeriod) MinuteRange() (int, int) {
	if b.StartMin == nil || b.EndMin == nil {
		return 0, 24 * 60
	}
	return *b.StartMin, *b.EndMin
}
