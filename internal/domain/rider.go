package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Rider represents a club member who can be enrolled in lessons.
//
// OwnedHorseID optionally points at a horse the rider owns; the horse side
// carries no back-reference. InstructorID, when set, marks the rider as
// instructor-qualified by pointing at the matching Instructor record. The
// typed reference replaces the historical practice of matching instructor
// and rider names, which broke on homonyms.
type Rider struct {
	ID           uuid.UUID  `json:"id"`
	LastName     string     `json:"last_name"`
	FirstName    string     `json:"first_name"`
	Age          int        `json:"age"`
	Email        string     `json:"email"`
	OwnedHorseID *uuid.UUID `json:"owned_horse_id,omitempty"`
	InstructorID *uuid.UUID `json:"instructor_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewRider creates a new Rider with a generated ID and timestamps.
// Returns an error if validation fails.
func NewRider(lastName, firstName string, age int, email string) (*Rider, error) {
	rider := &Rider{
		ID:        uuid.New(),
		LastName:  lastName,
		FirstName: firstName,
		Age:       age,
		Email:     email,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := rider.Validate(); err != nil {
		return nil, err
	}

	return rider, nil
}

// Validate checks if the Rider has valid data.
func (r *Rider) Validate() error {
	if r.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if r.LastName == "" {
		return NewValidationError("last_name", "cannot be empty", ErrEmptyName)
	}
	if r.FirstName == "" {
		return NewValidationError("first_name", "cannot be empty", ErrEmptyName)
	}
	if r.Age < 0 {
		return NewValidationError("age", "cannot be negative", ErrInvalidAge)
	}
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		return NewValidationError("email", "malformed address", ErrInvalidEmail)
	}
	return nil
}

// FullName returns the rider's display name, first name first.
func (r *Rider) FullName() string {
	return r.FirstName + " " + r.LastName
}

// InstructorQualified reports whether the rider is linked to an
// instructor record and may therefore ride under supervision-only rules.
func (r *Rider) InstructorQualified() bool {
	return r.InstructorID != nil && *r.InstructorID != uuid.Nil
}
