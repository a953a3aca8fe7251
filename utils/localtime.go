package utils

import (
	"errors"
	"fmt"
	"time"
)

// The clinic runs on a fixed +06:30 offset with no daylight saving.
// Every date/time computation in the system goes through this file;
// nothing else is allowed to build offsets by hand.
const (
	ClinicOffsetMinutes = 6*60 + 30
	DateKeyLayout       = "2006-01-02"
)

var ClinicZone = time.FixedZone("+06:30", ClinicOffsetMinutes*60)

// Now is the wall clock. Tests replace it to pin the local date and time.
var Now = time.Now

// ErrInvalidTimestamp is returned for date/time strings that match none of
// the accepted shapes.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// TimestampKind tags how much information a parsed timestamp carried.
type TimestampKind int

const (
	KindDateOnly TimestampKind = iota // "2025-04-01", local midnight
	KindDateTime                      // "2025-04-01T09:30", assumed clinic-local
	KindZoned                         // full RFC 3339 with offset or Z
)

// LocalInstant is a point in time resolved against the clinic zone.
type LocalInstant struct {
	Kind        TimestampKind
	DateKey     string // "YYYY-MM-DD" in clinic-local time
	MinuteOfDay int    // minutes since local midnight
	Instant     time.Time
}

// TodayLocal returns the current clinic-local calendar date and minute.
func TodayLocal() LocalInstant {
	now := Now().In(ClinicZone)
	return LocalInstant{
		Kind:        KindZoned,
		DateKey:     now.Format(DateKeyLayout),
		MinuteOfDay: now.Hour()*60 + now.Minute(),
		Instant:     now,
	}
}

// ParseLocalInstant accepts a date-only string (taken as local midnight), a
// date+time string without offset (assumed clinic-local) or a fully zoned
// RFC 3339 string.
func ParseLocalInstant(input string) (LocalInstant, error) {
	if t, err := time.ParseInLocation(DateKeyLayout, input, ClinicZone); err == nil {
		return localInstant(KindDateOnly, t), nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, input, ClinicZone); err == nil {
			return localInstant(KindDateTime, t), nil
		}
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return localInstant(KindZoned, t.In(ClinicZone)), nil
	}
	return LocalInstant{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, input)
}

func localInstant(kind TimestampKind, t time.Time) LocalInstant {
	return LocalInstant{
		Kind:        kind,
		DateKey:     t.Format(DateKeyLayout),
		MinuteOfDay: t.Hour()*60 + t.Minute(),
		Instant:     t,
	}
}

// ToLocalInstant composes a calendar date and a minute-of-day into the
// absolute instant: UTC midnight of the date, shifted by the minute value
// minus the fixed offset.
func ToLocalInstant(dateKey string, minuteOfDay int) (time.Time, error) {
	base, err := time.Parse(DateKeyLayout, dateKey)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, dateKey)
	}
	utc := base.Add(time.Duration(minuteOfDay-ClinicOffsetMinutes) * time.Minute)
	return utc.In(ClinicZone), nil
}

// FormatLocalISO renders a clinic-local timestamp with the literal +06:30
// suffix. The suffix is part of the wire contract.
func FormatLocalISO(dateKey string, minuteOfDay int) string {
	return fmt.Sprintf("%sT%02d:%02d:00+06:30", dateKey, minuteOfDay/60, minuteOfDay%60)
}

// DayOfWeek returns the Sunday-indexed weekday of a clinic-local date.
func DayOfWeek(dateKey string) (int, error) {
	t, err := time.ParseInLocation(DateKeyLayout, dateKey, ClinicZone)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, dateKey)
	}
	return int(t.Weekday()), nil
}
