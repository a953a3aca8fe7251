package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mmhealthtech/clinic-ops/models"
	"github.com/mmhealthtech/clinic-ops/utils"
)

func TestBook_HappyPath(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)

	appt := mustBook(db, t, 9*60)
	if appt.Status != models.StatusScheduled {
		t.Fatalf("expected scheduled, got %s", appt.Status)
	}
	if appt.EndMin != 9*60+30 {
		t.Fatalf("expected end 570, got %d", appt.EndMin)
	}
	if appt.PublicID == "" {
		t.Fatal("expected a public ID")
	}
	if appt.StartsAtISO() != "2025-04-07T09:00:00+06:30" {
		t.Fatalf("unexpected wire timestamp %q", appt.StartsAtISO())
	}
}

func TestBook_OutsideWindows(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)

	_, err := Book(db, BookingRequest{
		TenantID: testTenant, DoctorID: docID, PatientID: patientID,
		DateKey: mondayKey, StartMin: 13 * 60, DurationMin: 30,
	})
	if !errors.Is(err, ErrSlotNoLongerAvailable) {
		t.Fatalf("expected ErrSlotNoLongerAvailable, got %v", err)
	}
}

func TestBook_MisalignedStart(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)

	// 09:10 is inside the window but not a generated slot boundary.
	_, err := Book(db, BookingRequest{
		TenantID: testTenant, DoctorID: docID, PatientID: patientID,
		DateKey: mondayKey, StartMin: 9*60 + 10, DurationMin: 30,
	})
	if !errors.Is(err, ErrSlotNoLongerAvailable) {
		t.Fatalf("expected ErrSlotNoLongerAvailable, got %v", err)
	}
}

func TestBook_InvalidInputs(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)

	if _, err := Book(db, BookingRequest{
		TenantID: testTenant, DoctorID: docID, PatientID: patientID,
		DateKey: "07-04-2025", StartMin: 9 * 60, DurationMin: 30,
	}); !errors.Is(err, utils.ErrInvalidTimestamp) {
		t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
	}

	if _, err := Book(db, BookingRequest{
		TenantID: testTenant, DoctorID: docID, PatientID: patientID,
		DateKey: mondayKey, StartMin: 9 * 60, DurationMin: 0,
	}); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestBook_SameSlotTwice(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)
	mustBook(db, t, 9*60)

	_, err := Book(db, BookingRequest{
		TenantID: testTenant, DoctorID: docID, PatientID: patientID + 1,
		DateKey: mondayKey, StartMin: 9 * 60, DurationMin: 30,
	})
	if !errors.Is(err, ErrSlotNoLongerAvailable) {
		t.Fatalf("expected ErrSlotNoLongerAvailable, got %v", err)
	}
}

func TestBook_ConcurrentSameSlot(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)

	req := BookingRequest{
		TenantID: testTenant, DoctorID: docID, PatientID: patientID,
		DateKey: mondayKey, StartMin: 10 * 60, DurationMin: 30,
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := req
			r.PatientID += uint(i)
			_, results[i] = Book(db, r)
		}(i)
	}
	wg.Wait()

	winners, losers := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrSlotNoLongerAvailable):
			losers++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 || losers != 1 {
		t.Fatalf("expected exactly one winner, got %d winners / %d losers", winners, losers)
	}

	var count int64
	db.Model(&models.Appointment{}).
		Where("doctor_id = ? AND date = ? AND start_min = ? AND status <> ?",
			docID, mondayKey, 10*60, models.StatusCancelled).
		Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 stored appointment for the slot, got %d", count)
	}
}

func TestReschedule_MovesSlot(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)
	appt := mustBook(db, t, 9*60)

	moved, err := Reschedule(db, testTenant, appt.ID, mondayKey, 11*60, 30)
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if moved.StartMin != 11*60 || moved.EndMin != 11*60+30 {
		t.Fatalf("unexpected interval [%d, %d)", moved.StartMin, moved.EndMin)
	}

	// The old slot is free again.
	slots, err := AvailableSlots(db, testTenant, docID, mondayKey, 30)
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if !utils.ContainsSlot(slots, 9*60, 30) {
		t.Fatal("expected the vacated slot to be offered again")
	}
}

func TestReschedule_SameSlotIsNoop(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)
	appt := mustBook(db, t, 9*60)

	// The appointment's own interval is excluded from the busy set, so
	// re-committing the same slot succeeds.
	moved, err := Reschedule(db, testTenant, appt.ID, mondayKey, 9*60, 30)
	if err != nil {
		t.Fatalf("reschedule onto own slot: %v", err)
	}
	if moved.StartMin != 9*60 {
		t.Fatalf("expected start 540, got %d", moved.StartMin)
	}
}

func TestReschedule_TargetTakenLeavesOriginalUntouched(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)
	appt := mustBook(db, t, 9*60)
	mustBook(db, t, 10*60)

	_, err := Reschedule(db, testTenant, appt.ID, mondayKey, 10*60, 30)
	if !errors.Is(err, ErrSlotNoLongerAvailable) {
		t.Fatalf("expected ErrSlotNoLongerAvailable, got %v", err)
	}

	var current models.Appointment
	if err := db.First(&current, appt.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if current.StartMin != 9*60 || current.Status != models.StatusScheduled {
		t.Fatalf("original appointment mutated: start %d status %s", current.StartMin, current.Status)
	}
}

func TestReschedule_CompletedAppointmentRejected(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)
	appt := mustBook(db, t, 9*60)
	advanceToCompleted(db, t, appt.ID)

	_, err := Reschedule(db, testTenant, appt.ID, mondayKey, 11*60, 30)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCancel_PatientInsideWindowRejected(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)
	appt := mustBook(db, t, 9*60)

	// One hour before a 09:00 start, with a 2-hour cancel window.
	pinClock(t, time.Date(2025, 4, 7, 8, 0, 0, 0, utils.ClinicZone))

	_, err := Cancel(db, testTenant, appt.ID, "cannot make it", ActorPatient, testPolicy())
	if !errors.Is(err, ErrCancelWindowViolation) {
		t.Fatalf("expected ErrCancelWindowViolation, got %v", err)
	}

	// Staff may cancel the same appointment at the same moment.
	cancelled, err := Cancel(db, testTenant, appt.ID, "doctor unavailable", ActorStaff, testPolicy())
	if err != nil {
		t.Fatalf("staff cancel: %v", err)
	}
	if cancelled.Status != models.StatusCancelled || cancelled.CancelReason != "doctor unavailable" {
		t.Fatalf("unexpected result %s %q", cancelled.Status, cancelled.CancelReason)
	}
}

func TestCancel_PatientOutsideWindowSucceeds(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)
	appt := mustBook(db, t, 9*60)

	pinClock(t, time.Date(2025, 4, 7, 6, 0, 0, 0, utils.ClinicZone))

	cancelled, err := Cancel(db, testTenant, appt.ID, "", ActorPatient, testPolicy())
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
}

func TestCancel_OnlyBeforeConsultation(t *testing.T) {
	db := testDB(t)
	mondayMorning(db, t)
	appt := mustBook(db, t, 9*60)

	if _, err := CheckIn(db, testTenant, appt.ID); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if _, err := Start(db, testTenant, appt.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err := Cancel(db, testTenant, appt.ID, "", ActorStaff, testPolicy())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition once in progress, got %v", err)
	}
}

func TestCancel_UnknownAppointment(t *testing.T) {
	db := testDB(t)
	_, err := Cancel(db, testTenant, 999, "", ActorStaff, testPolicy())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

