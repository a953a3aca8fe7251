package utils

import (
	"sort"
	"time"
)

// Window is an availability interval in minutes since local midnight,
// half-open: [StartMin, EndMin).
type Window struct {
	StartMin int
	EndMin   int
}

// Slot is an unbooked candidate appointment interval for a single date.
// It is computed on demand and never persisted.
type Slot struct {
	Date     string    `json:"date"`
	StartMin int       `json:"start_min"`
	EndMin   int       `json:"end_min"`
	StartsAt time.Time `json:"-"`
	EndsAt   time.Time `json:"-"`
	StartISO string    `json:"starts_at"`
	EndISO   string    `json:"ends_at"`
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not count.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// GenerateSlots discretizes the given availability windows for one calendar
// date into consecutive slotMin-wide slots and removes every slot that
// intersects a busy interval (existing appointments, blackouts). A trailing
// remainder shorter than slotMin is dropped. The result is ordered by
// ascending start minute.
//
// The function is pure: it reads nothing but its arguments and is safe to
// call concurrently.
func GenerateSlots(dateKey string, slotMin int, windows []Window, busy []Window) []Slot {
	if slotMin <= 0 {
		return []Slot{}
	}

	sorted := make([]Window, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartMin < sorted[j].StartMin })

	slots := []Slot{}
	for _, w := range sorted {
		for start := w.StartMin; start+slotMin <= w.EndMin; start += slotMin {
			end := start + slotMin
			if overlapsAny(start, end, busy) {
				continue
			}
			startsAt, err := ToLocalInstant(dateKey, start)
			if err != nil {
				return []Slot{}
			}
			endsAt, _ := ToLocalInstant(dateKey, end)
			slots = append(slots, Slot{
				Date:     dateKey,
				StartMin: start,
				EndMin:   end,
				StartsAt: startsAt,
				EndsAt:   endsAt,
				StartISO: FormatLocalISO(dateKey, start),
				EndISO:   FormatLocalISO(dateKey, end),
			})
		}
	}
	return slots
}

func overlapsAny(start, end int, busy []Window) bool {
	for _, b := range busy {
		if Overlaps(start, end, b.StartMin, b.EndMin) {
			return true
		}
	}
	return false
}

// ContainsSlot reports whether the generated slot list offers exactly
// [startMin, startMin+durationMin).
func ContainsSlot(slots []Slot, startMin, durationMin int) bool {
	for _, s := range slots {
		if s.StartMin == startMin && s.EndMin == startMin+durationMin {
			return true
		}
	}
	return false
}
