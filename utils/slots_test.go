package utils

import "testing"

// 2025-04-07 is a Monday.
const monday = "2025-04-07"

func slotStarts(slots []Slot) []int {
	starts := make([]int, len(slots))
	for i, s := range slots {
		starts[i] = s.StartMin
	}
	return starts
}

func TestGenerateSlots_SkipsBookedSlot(t *testing.T) {
	windows := []Window{{StartMin: 9 * 60, EndMin: 12 * 60}}
	busy := []Window{{StartMin: 9*60 + 30, EndMin: 10 * 60}}

	slots := GenerateSlots(monday, 30, windows, busy)

	want := []int{540, 600, 630, 660, 690}
	got := slotStarts(slots)
	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot %d: expected start %d, got %d", i, want[i], got[i])
		}
	}
}

func TestGenerateSlots_DefaultDayProduces16HalfHours(t *testing.T) {
	windows := []Window{{StartMin: 9 * 60, EndMin: 17 * 60}}

	slots := GenerateSlots(monday, 30, windows, nil)
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots for 09:00-17:00, got %d", len(slots))
	}
	if slots[0].StartMin != 9*60 || slots[15].EndMin != 17*60 {
		t.Fatalf("unexpected bounds: %d..%d", slots[0].StartMin, slots[15].EndMin)
	}
}

func TestGenerateSlots_DropsTrailingRemainder(t *testing.T) {
	// 09:00-09:50 fits one 30-minute slot; the 20-minute tail is dropped.
	windows := []Window{{StartMin: 9 * 60, EndMin: 9*60 + 50}}

	slots := GenerateSlots(monday, 30, windows, nil)
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if slots[0].EndMin != 9*60+30 {
		t.Fatalf("expected slot to end at 09:30, got %d", slots[0].EndMin)
	}
}

func TestGenerateSlots_BlackoutRemovesSlots(t *testing.T) {
	windows := []Window{{StartMin: 9 * 60, EndMin: 12 * 60}}
	// Whole morning blacked out from 10:00.
	busy := []Window{{StartMin: 10 * 60, EndMin: 24 * 60}}

	slots := GenerateSlots(monday, 30, windows, busy)
	got := slotStarts(slots)
	if len(got) != 2 || got[0] != 540 || got[1] != 570 {
		t.Fatalf("expected [540 570], got %v", got)
	}
}

func TestGenerateSlots_EmptyWindows(t *testing.T) {
	slots := GenerateSlots(monday, 30, nil, nil)
	if slots == nil || len(slots) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", slots)
	}
}

func TestGenerateSlots_OrderedAcrossWindows(t *testing.T) {
	windows := []Window{
		{StartMin: 14 * 60, EndMin: 15 * 60},
		{StartMin: 9 * 60, EndMin: 10 * 60},
	}
	slots := GenerateSlots(monday, 30, windows, nil)
	for i := 1; i < len(slots); i++ {
		if slots[i].StartMin <= slots[i-1].StartMin {
			t.Fatalf("slots out of order: %v", slotStarts(slots))
		}
	}
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
}

func TestGenerateSlots_DecoratesInstants(t *testing.T) {
	windows := []Window{{StartMin: 9 * 60, EndMin: 10 * 60}}
	slots := GenerateSlots(monday, 30, windows, nil)
	if slots[0].StartISO != "2025-04-07T09:00:00+06:30" {
		t.Fatalf("unexpected start ISO %q", slots[0].StartISO)
	}
	if slots[0].StartsAt.UTC().Format("15:04") != "02:30" {
		t.Fatalf("expected 02:30 UTC, got %s", slots[0].StartsAt.UTC().Format("15:04"))
	}
}

func TestOverlaps_TouchingEndpointsDoNotOverlap(t *testing.T) {
	if Overlaps(9*60, 12*60, 12*60, 17*60) {
		t.Fatal("touching intervals must not overlap")
	}
	if !Overlaps(9*60, 12*60, 11*60, 13*60) {
		t.Fatal("intersecting intervals must overlap")
	}
}
