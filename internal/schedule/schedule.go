package schedule

import (
	"errors"
	"fmt"
	"time"
)

// DefaultSlotMinutes is the booking slot length used when a doctor has no
// per-doctor override.
const DefaultSlotMinutes = 30

var (
	ErrInvalidDate     = errors.New("invalid date format")
	ErrInvalidTime     = errors.New("invalid time format")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidWindow   = errors.New("invalid availability window")
)

// AvailabilityWindow is one weekly recurring availability block for a doctor.
// Weekday is an English day name ("Monday".."Sunday") matched case-sensitively
// against the candidate date's weekday. Times are HH:MM wall clock.
type AvailabilityWindow struct {
	Weekday   string  `bson:"dayOfWeek" json:"dayOfWeek" validate:"required,weekday"`
	StartTime string  `bson:"startTime" json:"startTime" validate:"required,clock"`
	EndTime   string  `bson:"endTime" json:"endTime" validate:"required,clock"`
	Fee       float64 `bson:"slotFee" json:"slotFee" validate:"gte=0"`
}

// Slot is one bookable unit generated from a window. Slots are ephemeral:
// computed on demand for a single date, never persisted.
type Slot struct {
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Fee       float64 `json:"fee"`
}

func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

func ParseClockToMinutes(timeStr string) (int, error) {
	tm, err := time.Parse("15:04", timeStr)
	if err != nil {
		return 0, ErrInvalidTime
	}
	return tm.Hour()*60 + tm.Minute(), nil
}

func MinutesToClock(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// WeekdayName returns the Gregorian weekday name of a YYYY-MM-DD date,
// e.g. "2025-07-30" -> "Wednesday".
func WeekdayName(dateStr string, loc *time.Location) (string, error) {
	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return "", err
	}
	return date.Weekday().String(), nil
}

// ValidateWindow rejects windows with unparseable times or startTime >= endTime.
func ValidateWindow(window AvailabilityWindow) error {
	startMin, err := ParseClockToMinutes(window.StartTime)
	if err != nil {
		return err
	}
	endMin, err := ParseClockToMinutes(window.EndTime)
	if err != nil {
		return err
	}
	if startMin >= endMin {
		return ErrInvalidWindow
	}
	return nil
}

// IsDateBookable reports whether the date's weekday has a matching window.
func IsDateBookable(dateStr string, windows []AvailabilityWindow, loc *time.Location) (bool, error) {
	window, err := WindowForDate(dateStr, windows, loc)
	if err != nil {
		return false, err
	}
	return window != nil, nil
}

// WindowForDate returns the first window whose weekday matches the date, or
// nil when the date is not bookable. First match wins when a doctor carries
// more than one window for the same weekday.
func WindowForDate(dateStr string, windows []AvailabilityWindow, loc *time.Location) (*AvailabilityWindow, error) {
	day, err := WeekdayName(dateStr, loc)
	if err != nil {
		return nil, err
	}
	for i := range windows {
		if windows[i].Weekday == day {
			return &windows[i], nil
		}
	}
	return nil, nil
}

// GenerateSlots enumerates the bookable slots of one window in ascending time
// order. The cursor starts at StartTime and advances by the duration; a slot
// whose end would pass EndTime is dropped, not clipped, so a window that does
// not divide evenly loses its final partial slot. Uses only the window's own
// times, never the current moment, so repeated calls yield identical output.
func GenerateSlots(window AvailabilityWindow, durationMinutes int) ([]Slot, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if err := ValidateWindow(window); err != nil {
		return nil, err
	}

	startMin, _ := ParseClockToMinutes(window.StartTime)
	endMin, _ := ParseClockToMinutes(window.EndTime)

	slots := make([]Slot, 0)
	for cursor := startMin; cursor+durationMinutes <= endMin; cursor += durationMinutes {
		slots = append(slots, Slot{
			StartTime: MinutesToClock(cursor),
			EndTime:   MinutesToClock(cursor + durationMinutes),
			Fee:       window.Fee,
		})
	}
	return slots, nil
}

// SlotsForDate is the full planner pipeline: weekday match, window lookup,
// slot enumeration. A date with no matching window short-circuits to an empty
// result without attempting generation.
func SlotsForDate(dateStr string, windows []AvailabilityWindow, durationMinutes int, loc *time.Location) ([]Slot, error) {
	window, err := WindowForDate(dateStr, windows, loc)
	if err != nil {
		return nil, err
	}
	if window == nil {
		return []Slot{}, nil
	}
	return GenerateSlots(*window, durationMinutes)
}

// IsDatePast reports whether the date falls before today in the given location.
func IsDatePast(dateStr string, loc *time.Location, now time.Time) (bool, error) {
	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return false, err
	}
	startToday := time.Date(now.In(loc).Year(), now.In(loc).Month(), now.In(loc).Day(), 0, 0, 0, 0, loc)
	return date.Before(startToday), nil
}

// FilterReserved drops slots whose start time is already taken.
func FilterReserved(slots []Slot, reserved map[string]bool) []Slot {
	filtered := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if !reserved[s.StartTime] {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// FindSlot returns the generated slot starting at startTime, or nil when the
// requested time is not one the window offers.
func FindSlot(slots []Slot, startTime string) *Slot {
	for i := range slots {
		if slots[i].StartTime == startTime {
			return &slots[i]
		}
	}
	return nil
}
