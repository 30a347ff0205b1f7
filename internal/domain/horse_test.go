package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewHorse(t *testing.T) {
	t.Parallel() // Enable parallel execution

	horse, err := NewHorse("Tornado", "Arabian", 4)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if horse.ID == uuid.Nil {
		t.Error("Expected non-nil UUID")
	}
	if !horse.Available {
		t.Error("New horse should start available")
	}
	if horse.WorkSessions != 0 {
		t.Errorf("New horse should start with zero work sessions, got %d", horse.WorkSessions)
	}

	_, err = NewHorse("", "Arabian", 4)
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("Expected ErrEmptyName, got %v", err)
	}

	_, err = NewHorse("Tornado", "Arabian", -1)
	if !errors.Is(err, ErrInvalidAge) {
		t.Errorf("Expected ErrInvalidAge, got %v", err)
	}
}

func TestHorseApplyWorkload(t *testing.T) {
	t.Parallel()

	horse, err := NewHorse("Bijou", "Pony", 12)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	horse.ApplyWorkload(8, DefaultWorkSessionLimit)
	if !horse.Available {
		t.Error("Horse at exactly the limit should remain available")
	}

	horse.ApplyWorkload(9, DefaultWorkSessionLimit)
	if horse.Available {
		t.Error("Horse over the limit should become unavailable")
	}

	horse.ApplyWorkload(3, DefaultWorkSessionLimit)
	if !horse.Available {
		t.Error("Horse back under the limit should become available again")
	}
	if horse.WorkSessions != 3 {
		t.Errorf("Expected 3 work sessions, got %d", horse.WorkSessions)
	}
}

func TestHorseYoung(t *testing.T) {
	t.Parallel()

	horse, err := NewHorse("Tornado", "Arabian", 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !horse.Young(6) {
		t.Error("A 4-year-old should be young with threshold 6")
	}

	horse.Age = 6
	if horse.Young(6) {
		t.Error("A 6-year-old should not be young with threshold 6")
	}
}
