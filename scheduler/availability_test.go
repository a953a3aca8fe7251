package scheduler

import (
	"errors"
	"testing"

	"github.com/mmhealthtech/clinic-ops/models"
)

func TestAddWindow_RejectsInvalidRange(t *testing.T) {
	db := testDB(t)
	cases := []struct {
		name       string
		day        models.DayOfWeek
		start, end int
	}{
		{"negative start", models.Monday, -10, 60},
		{"start after end", models.Monday, 600, 540},
		{"zero width", models.Monday, 540, 540},
		{"past midnight", models.Monday, 23 * 60, 25 * 60},
		{"bad weekday", models.DayOfWeek(7), 540, 600},
	}
	for _, tc := range cases {
		if _, err := AddWindow(db, testTenant, docID, tc.day, tc.start, tc.end); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("%s: expected ErrInvalidRange, got %v", tc.name, err)
		}
	}
}

func TestAddWindow_RejectsOverlap(t *testing.T) {
	db := testDB(t)
	if _, err := AddWindow(db, testTenant, docID, models.Monday, 9*60, 12*60); err != nil {
		t.Fatalf("first window: %v", err)
	}

	overlapping := [][2]int{
		{11 * 60, 13 * 60}, // crosses the end
		{8 * 60, 10 * 60},  // crosses the start
		{10 * 60, 11 * 60}, // contained
		{8 * 60, 13 * 60},  // contains
	}
	for _, o := range overlapping {
		if _, err := AddWindow(db, testTenant, docID, models.Monday, o[0], o[1]); !errors.Is(err, ErrOverlapConflict) {
			t.Fatalf("[%d, %d): expected ErrOverlapConflict, got %v", o[0], o[1], err)
		}
	}
}

func TestAddWindow_TouchingEndpointsAllowed(t *testing.T) {
	db := testDB(t)
	if _, err := AddWindow(db, testTenant, docID, models.Monday, 9*60, 12*60); err != nil {
		t.Fatalf("morning window: %v", err)
	}
	if _, err := AddWindow(db, testTenant, docID, models.Monday, 12*60, 17*60); err != nil {
		t.Fatalf("touching afternoon window rejected: %v", err)
	}
	// Same interval on another weekday never conflicts.
	if _, err := AddWindow(db, testTenant, docID, models.Tuesday, 9*60, 12*60); err != nil {
		t.Fatalf("other weekday rejected: %v", err)
	}
	// Nor for another doctor.
	if _, err := AddWindow(db, testTenant, docID+1, models.Monday, 9*60, 12*60); err != nil {
		t.Fatalf("other doctor rejected: %v", err)
	}
}

func TestListWindows_Ordering(t *testing.T) {
	db := testDB(t)
	for _, w := range []struct {
		day        models.DayOfWeek
		start, end int
	}{
		{models.Wednesday, 14 * 60, 17 * 60},
		{models.Monday, 14 * 60, 17 * 60},
		{models.Monday, 9 * 60, 12 * 60},
	} {
		if _, err := AddWindow(db, testTenant, docID, w.day, w.start, w.end); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	windows, err := ListWindows(db, testTenant, docID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	if windows[0].DayOfWeek != models.Monday || windows[0].StartMin != 9*60 {
		t.Fatalf("expected Monday 09:00 first, got day %d start %d", windows[0].DayOfWeek, windows[0].StartMin)
	}
	if windows[1].DayOfWeek != models.Monday || windows[1].StartMin != 14*60 {
		t.Fatalf("expected Monday 14:00 second, got day %d start %d", windows[1].DayOfWeek, windows[1].StartMin)
	}
	if windows[2].DayOfWeek != models.Wednesday {
		t.Fatalf("expected Wednesday last, got day %d", windows[2].DayOfWeek)
	}
}

func TestListDefaults_FallbackWhenUnconfigured(t *testing.T) {
	db := testDB(t)
	defaults, err := ListDefaults(db, testTenant)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if len(defaults) != 1 || defaults[0].StartMin != 9*60 || defaults[0].EndMin != 17*60 {
		t.Fatalf("expected hard-coded 09:00-17:00, got %+v", defaults)
	}
}

func TestAddBlackout_Validation(t *testing.T) {
	db := testDB(t)
	bad := &models.BlackoutPeriod{
		TenantID: testTenant, DoctorID: docID,
		StartDate: "2025-04-10", EndDate: "2025-04-08",
	}
	if err := AddBlackout(db, bad); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for inverted dates, got %v", err)
	}

	ok := &models.BlackoutPeriod{
		TenantID: testTenant, DoctorID: docID,
		StartDate: "2025-04-08", EndDate: "2025-04-10", Reason: "leave",
	}
	if err := AddBlackout(db, ok); err != nil {
		t.Fatalf("valid blackout rejected: %v", err)
	}

	periods, err := ListBlackouts(db, testTenant, docID, "2025-04-09")
	if err != nil || len(periods) != 1 {
		t.Fatalf("expected 1 covering blackout, got %d (%v)", len(periods), err)
	}
	periods, err = ListBlackouts(db, testTenant, docID, "2025-04-11")
	if err != nil || len(periods) != 0 {
		t.Fatalf("expected no blackout after the range, got %d (%v)", len(periods), err)
	}
}

func TestAvailableSlots_DoctorWindowsAndBooking(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)
	mustBook(db, t, 9*60+30)

	slots, err := AvailableSlots(db, testTenant, docID, mondayKey, 30)
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	want := []int{540, 600, 630, 660, 690}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i, s := range slots {
		if s.StartMin != want[i] {
			t.Fatalf("slot %d: expected %d, got %d", i, want[i], s.StartMin)
		}
	}
}

func TestAvailableSlots_FallsBackToDefaults(t *testing.T) {
	db := testDB(t)
	// Doctor has zero custom windows on any day.
	slots, err := AvailableSlots(db, testTenant, docID, mondayKey, 30)
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if len(slots) != 16 {
		t.Fatalf("expected 16 default half-hour slots, got %d", len(slots))
	}
}

func TestAvailableSlots_CustomWeekdayElsewhereMeansNoFallback(t *testing.T) {
	db := testDB(t)
	// Windows exist, but only on Tuesday: Monday yields nothing.
	if _, err := AddWindow(db, testTenant, docID, models.Tuesday, 9*60, 12*60); err != nil {
		t.Fatalf("seed: %v", err)
	}
	slots, err := AvailableSlots(db, testTenant, docID, mondayKey, 30)
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %d", len(slots))
	}
}

func TestAvailableSlots_BlackoutSubtracted(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)

	from, to := 10*60, 11*60
	if err := AddBlackout(db, &models.BlackoutPeriod{
		TenantID: testTenant, DoctorID: docID,
		StartDate: mondayKey, EndDate: mondayKey,
		StartMin: &from, EndMin: &to,
	}); err != nil {
		t.Fatalf("blackout: %v", err)
	}

	slots, err := AvailableSlots(db, testTenant, docID, mondayKey, 30)
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	for _, s := range slots {
		if s.StartMin >= from && s.StartMin < to {
			t.Fatalf("slot %d falls inside the blackout", s.StartMin)
		}
	}
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
}

func TestAvailableSlots_CancelledAppointmentFreesSlot(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)
	appt := mustBook(db, t, 9*60)

	if _, err := Cancel(db, testTenant, appt.ID, "patient request", ActorStaff, testPolicy()); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	slots, err := AvailableSlots(db, testTenant, docID, mondayKey, 30)
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	found := false
	for _, s := range slots {
		if s.StartMin == 9*60 {
			found = true
		}
	}
	if !found {
		t.Fatal("cancelled appointment must not block its slot")
	}
}
