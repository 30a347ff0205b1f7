package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewRider(t *testing.T) {
	t.Parallel() // Enable parallel execution

	rider, err := NewRider("Martin", "Léa", 17, "lea.martin@example.com")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rider.ID == uuid.Nil {
		t.Error("Expected non-nil UUID")
	}
	if rider.FullName() != "Léa Martin" {
		t.Errorf("Unexpected full name: %s", rider.FullName())
	}
	if rider.InstructorQualified() {
		t.Error("Rider without instructor link should not be qualified")
	}

	_, err = NewRider("", "Léa", 17, "")
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("Expected ErrEmptyName, got %v", err)
	}

	_, err = NewRider("Martin", "Léa", 17, "not-an-email")
	if !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("Expected ErrInvalidEmail, got %v", err)
	}

	// Email is optional.
	_, err = NewRider("Martin", "Léa", 17, "")
	if err != nil {
		t.Errorf("Expected empty email to be accepted, got %v", err)
	}
}

func TestRiderInstructorQualified(t *testing.T) {
	t.Parallel()

	rider, err := NewRider("Morel", "Claire", 34, "claire@example.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	instructorID := uuid.New()
	rider.InstructorID = &instructorID
	if !rider.InstructorQualified() {
		t.Error("Rider linked to an instructor record should be qualified")
	}

	nilID := uuid.Nil
	rider.InstructorID = &nilID
	if rider.InstructorQualified() {
		t.Error("Nil instructor reference should not qualify")
	}
}
