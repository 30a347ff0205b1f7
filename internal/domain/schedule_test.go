package domain

import (
	"errors"
	"testing"
)

func TestParseWeekday(t *testing.T) {
	t.Parallel() // Enable parallel execution

	cases := []struct {
		input   string
		want    Weekday
		wantErr bool
	}{
		{"monday", Monday, false},
		{"Saturday", Saturday, false},
		{"  WEDNESDAY ", Wednesday, false},
		{"sunday", "", true},
		{"", "", true},
		{"mardi", "", true},
	}

	for _, tc := range cases {
		got, err := ParseWeekday(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseWeekday(%q): expected error, got %q", tc.input, got)
			}
			if !errors.Is(err, ErrInvalidWeekday) {
				t.Errorf("ParseWeekday(%q): expected ErrInvalidWeekday, got %v", tc.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseWeekday(%q): unexpected error %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("ParseWeekday(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestWeekdayOrder(t *testing.T) {
	t.Parallel()

	days := Weekdays()
	if len(days) != 6 {
		t.Fatalf("Expected 6 scheduling weekdays, got %d", len(days))
	}
	for i, day := range days {
		if day.Order() != i {
			t.Errorf("Expected %s to have order %d, got %d", day, i, day.Order())
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{"09:00", 9 * 60, false},
		{"9:30", 9*60 + 30, false},
		{"23:59", 23*60 + 59, false},
		{"00:00", 0, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"-1:00", 0, true},
		{"noon", 0, true},
		{"9:30xyz", 0, true},
		{"9:30:00", 0, true},
		{"9h30", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error, got %v", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): unexpected error %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestTimeOfDayString(t *testing.T) {
	t.Parallel()

	tod, err := NewTimeOfDay(9, 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tod.String() != "09:05" {
		t.Errorf("Expected 09:05, got %s", tod)
	}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	nine := TimeOfDay(9 * 60)
	ten := TimeOfDay(10 * 60)
	nineThirty := TimeOfDay(9*60 + 30)
	tenThirty := TimeOfDay(10*60 + 30)
	eleven := TimeOfDay(11 * 60)

	cases := []struct {
		name                   string
		aStart, aEnd           TimeOfDay
		bStart, bEnd           TimeOfDay
		want                   bool
	}{
		{"identical slots", nine, ten, nine, ten, true},
		{"partial overlap", nine, ten, nineThirty, tenThirty, true},
		{"containment", nine, eleven, nineThirty, ten, true},
		{"back to back does not overlap", nine, ten, ten, eleven, false},
		{"disjoint", nine, ten, tenThirty, eleven, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Errorf("Overlaps = %v, want %v", got, tc.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Errorf("Overlaps (swapped) = %v, want %v", got, tc.want)
			}
		})
	}
}
