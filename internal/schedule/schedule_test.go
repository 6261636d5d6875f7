package schedule

import (
	"errors"
	"testing"
	"time"
)

func mustLoadLoc(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func wednesdayWindow(fee float64) AvailabilityWindow {
	return AvailabilityWindow{Weekday: "Wednesday", StartTime: "09:00", EndTime: "10:00", Fee: fee}
}

func TestGenerateSlotsEvenWindow(t *testing.T) {
	slots, err := GenerateSlots(wednesdayWindow(500), 30)
	if err != nil {
		t.Fatalf("GenerateSlots error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].StartTime != "09:00" || slots[1].StartTime != "09:30" {
		t.Fatalf("unexpected slot times: %+v", slots)
	}
	if slots[1].EndTime != "10:00" {
		t.Fatalf("expected last slot to end at 10:00, got %s", slots[1].EndTime)
	}
	for _, s := range slots {
		if s.Fee != 500 {
			t.Fatalf("expected fee 500 on every slot, got %v", s.Fee)
		}
	}
}

func TestGenerateSlotsDropsPartialSlot(t *testing.T) {
	window := AvailabilityWindow{Weekday: "Monday", StartTime: "09:00", EndTime: "09:45", Fee: 250}
	slots, err := GenerateSlots(window, 30)
	if err != nil {
		t.Fatalf("GenerateSlots error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if slots[0].StartTime != "09:00" || slots[0].EndTime != "09:30" {
		t.Fatalf("unexpected slot: %+v", slots[0])
	}
}

func TestGenerateSlotsCountMatchesFloor(t *testing.T) {
	cases := []struct {
		start, end string
		duration   int
		want       int
	}{
		{"09:00", "12:00", 30, 6},
		{"09:00", "12:00", 45, 4},
		{"14:00", "17:00", 60, 3},
		{"09:00", "09:50", 30, 1},
		{"09:00", "09:20", 30, 0},
	}
	for _, tc := range cases {
		window := AvailabilityWindow{Weekday: "Friday", StartTime: tc.start, EndTime: tc.end, Fee: 100}
		slots, err := GenerateSlots(window, tc.duration)
		if err != nil {
			t.Fatalf("GenerateSlots(%s-%s/%d) error: %v", tc.start, tc.end, tc.duration, err)
		}
		if len(slots) != tc.want {
			t.Fatalf("GenerateSlots(%s-%s/%d): expected %d slots, got %d", tc.start, tc.end, tc.duration, tc.want, len(slots))
		}
		if tc.want > 0 && slots[0].StartTime != tc.start {
			t.Fatalf("first slot should start at %s, got %s", tc.start, slots[0].StartTime)
		}
	}
}

func TestGenerateSlotsShortWindowIsEmpty(t *testing.T) {
	window := AvailabilityWindow{Weekday: "Tuesday", StartTime: "09:00", EndTime: "09:15", Fee: 100}
	slots, err := GenerateSlots(window, 30)
	if err != nil {
		t.Fatalf("GenerateSlots error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected 0 slots, got %d", len(slots))
	}
}

func TestGenerateSlotsDeterministic(t *testing.T) {
	window := AvailabilityWindow{Weekday: "Thursday", StartTime: "10:00", EndTime: "13:00", Fee: 750}
	first, err := GenerateSlots(window, 30)
	if err != nil {
		t.Fatalf("GenerateSlots error: %v", err)
	}
	second, err := GenerateSlots(window, 30)
	if err != nil {
		t.Fatalf("GenerateSlots error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("slot counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("slot %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGenerateSlotsRejectsReversedWindow(t *testing.T) {
	window := AvailabilityWindow{Weekday: "Monday", StartTime: "10:00", EndTime: "09:00", Fee: 100}
	if _, err := GenerateSlots(window, 30); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestGenerateSlotsRejectsMalformedInput(t *testing.T) {
	window := AvailabilityWindow{Weekday: "Monday", StartTime: "9am", EndTime: "10:00", Fee: 100}
	if _, err := GenerateSlots(window, 30); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}

	valid := wednesdayWindow(100)
	if _, err := GenerateSlots(valid, 0); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := GenerateSlots(valid, -15); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestIsDateBookable(t *testing.T) {
	loc := mustLoadLoc(t)
	windows := []AvailabilityWindow{wednesdayWindow(500)}

	// 2025-07-30 is a Wednesday, 2025-07-31 a Thursday.
	ok, err := IsDateBookable("2025-07-30", windows, loc)
	if err != nil {
		t.Fatalf("IsDateBookable error: %v", err)
	}
	if !ok {
		t.Fatalf("expected Wednesday date to be bookable")
	}

	ok, err = IsDateBookable("2025-07-31", windows, loc)
	if err != nil {
		t.Fatalf("IsDateBookable error: %v", err)
	}
	if ok {
		t.Fatalf("expected Thursday date to be unbookable")
	}
}

func TestIsDateBookableInvalidDate(t *testing.T) {
	loc := mustLoadLoc(t)
	if _, err := IsDateBookable("30/07/2025", []AvailabilityWindow{wednesdayWindow(100)}, loc); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestWeekdayNameMatchIsCaseSensitive(t *testing.T) {
	loc := mustLoadLoc(t)
	windows := []AvailabilityWindow{{Weekday: "wednesday", StartTime: "09:00", EndTime: "10:00", Fee: 100}}
	ok, err := IsDateBookable("2025-07-30", windows, loc)
	if err != nil {
		t.Fatalf("IsDateBookable error: %v", err)
	}
	if ok {
		t.Fatalf("lowercase weekday must not match the computed day name")
	}
}

func TestWindowForDateFirstMatchWins(t *testing.T) {
	loc := mustLoadLoc(t)
	windows := []AvailabilityWindow{
		{Weekday: "Wednesday", StartTime: "09:00", EndTime: "12:00", Fee: 300},
		{Weekday: "Wednesday", StartTime: "14:00", EndTime: "17:00", Fee: 900},
	}
	window, err := WindowForDate("2025-07-30", windows, loc)
	if err != nil {
		t.Fatalf("WindowForDate error: %v", err)
	}
	if window == nil {
		t.Fatalf("expected a window")
	}
	if window.StartTime != "09:00" || window.Fee != 300 {
		t.Fatalf("expected the first matching window, got %+v", window)
	}
}

func TestSlotsForDateUnbookableShortCircuits(t *testing.T) {
	loc := mustLoadLoc(t)
	// Reversed window would error in generation; an unbookable date must
	// return empty without reaching it.
	windows := []AvailabilityWindow{{Weekday: "Wednesday", StartTime: "10:00", EndTime: "09:00", Fee: 100}}
	slots, err := SlotsForDate("2025-07-31", windows, 30, loc)
	if err != nil {
		t.Fatalf("SlotsForDate error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots for unbookable date, got %d", len(slots))
	}
}

func TestSlotsForDateBookable(t *testing.T) {
	loc := mustLoadLoc(t)
	windows := []AvailabilityWindow{wednesdayWindow(500)}
	slots, err := SlotsForDate("2025-07-30", windows, 30, loc)
	if err != nil {
		t.Fatalf("SlotsForDate error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].StartTime != "09:00" || slots[1].StartTime != "09:30" {
		t.Fatalf("unexpected slots: %+v", slots)
	}
}

func TestValidateWindow(t *testing.T) {
	if err := ValidateWindow(wednesdayWindow(0)); err != nil {
		t.Fatalf("valid window rejected: %v", err)
	}
	bad := AvailabilityWindow{Weekday: "Monday", StartTime: "09:00", EndTime: "09:00", Fee: 100}
	if err := ValidateWindow(bad); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow for zero-length window, got %v", err)
	}
}

func TestIsDatePast(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2025, 7, 30, 10, 0, 0, 0, loc)

	past, err := IsDatePast("2025-07-29", loc, now)
	if err != nil {
		t.Fatalf("IsDatePast error: %v", err)
	}
	if !past {
		t.Fatalf("expected yesterday to be past")
	}

	past, err = IsDatePast("2025-07-30", loc, now)
	if err != nil {
		t.Fatalf("IsDatePast error: %v", err)
	}
	if past {
		t.Fatalf("expected today to be not past")
	}
}

func TestFilterReserved(t *testing.T) {
	slots := []Slot{
		{StartTime: "09:00", EndTime: "09:30", Fee: 500},
		{StartTime: "09:30", EndTime: "10:00", Fee: 500},
		{StartTime: "10:00", EndTime: "10:30", Fee: 500},
	}
	filtered := FilterReserved(slots, map[string]bool{"09:30": true})
	if len(filtered) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(filtered))
	}
	if filtered[1].StartTime != "10:00" {
		t.Fatalf("unexpected slots: %+v", filtered)
	}
}

func TestFindSlot(t *testing.T) {
	slots, err := GenerateSlots(wednesdayWindow(500), 30)
	if err != nil {
		t.Fatalf("GenerateSlots error: %v", err)
	}
	if s := FindSlot(slots, "09:30"); s == nil || s.EndTime != "10:00" {
		t.Fatalf("expected 09:30 slot, got %+v", s)
	}
	if s := FindSlot(slots, "09:15"); s != nil {
		t.Fatalf("expected no slot at 09:15, got %+v", s)
	}
}
