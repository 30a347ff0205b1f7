package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday is a day of the club's six-day scheduling week. Sunday is not a
// teaching day and is deliberately absent from the vocabulary.
type Weekday string

// The six scheduling weekdays, in calendar order.
const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

// weekdayOrder maps each scheduling weekday to its position within the
// week. It is also the authoritative membership set for validation.
var weekdayOrder = map[Weekday]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
	Saturday:  5,
}

// Weekdays returns the scheduling week in calendar order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// ParseWeekday converts a string into a Weekday. Comparison is
// case-insensitive. Returns ErrInvalidWeekday for anything outside the
// monday-saturday vocabulary, including sunday.
func ParseWeekday(s string) (Weekday, error) {
	day := Weekday(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := weekdayOrder[day]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
	}
	return day, nil
}

// Valid reports whether the weekday belongs to the scheduling week.
func (d Weekday) Valid() bool {
	_, ok := weekdayOrder[d]
	return ok
}

// Order returns the weekday's position within the scheduling week,
// starting at 0 for Monday. Used for the default lesson ordering.
func (d Weekday) Order() int {
	return weekdayOrder[d]
}

// String implements fmt.Stringer.
func (d Weekday) String() string {
	return string(d)
}

// TimeOfDay is a clock time expressed as minutes since midnight. Lessons
// never span midnight, so a single int is enough for all interval
// arithmetic the scheduler needs.
type TimeOfDay int

// minutesPerDay bounds a TimeOfDay to a single calendar day.
const minutesPerDay = 24 * 60

// NewTimeOfDay builds a TimeOfDay from an hour and minute.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeOfDay, hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeOfDay parses a "HH:MM" string into a TimeOfDay. The whole
// input must be consumed; trailing text after the minutes is rejected.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hourPart, minutePart, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return NewTimeOfDay(hour, minute)
}

// Valid reports whether the time falls within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// String formats the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Overlaps reports whether the half-open interval [start, end) overlaps
// the half-open interval [otherStart, otherEnd). Back-to-back slots
// (one ending exactly when the other starts) do not overlap.
func Overlaps(start, end, otherStart, otherEnd TimeOfDay) bool {
	return otherStart < end && otherEnd > start
}
