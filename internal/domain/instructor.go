package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Instructor represents a teaching instructor. Lessons may reference one,
// and riders who are themselves instructors carry a typed reference to
// their Instructor record.
type Instructor struct {
	ID        uuid.UUID `json:"id"`
	LastName  string    `json:"last_name"`
	FirstName string    `json:"first_name"`
	Email     string    `json:"email"`
	Specialty string    `json:"specialty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewInstructor creates a new Instructor with a generated ID and timestamps.
// Returns an error if validation fails.
func NewInstructor(lastName, firstName, email, specialty string) (*Instructor, error) {
	instructor := &Instructor{
		ID:        uuid.New(),
		LastName:  lastName,
		FirstName: firstName,
		Email:     email,
		Specialty: specialty,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := instructor.Validate(); err != nil {
		return nil, err
	}

	return instructor, nil
}

// Validate checks if the Instructor has valid data.
func (i *Instructor) Validate() error {
	if i.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if i.LastName == "" {
		return NewValidationError("last_name", "cannot be empty", ErrEmptyName)
	}
	if i.FirstName == "" {
		return NewValidationError("first_name", "cannot be empty", ErrEmptyName)
	}
	if i.Email != "" && !strings.Contains(i.Email, "@") {
		return NewValidationError("email", "malformed address", ErrInvalidEmail)
	}
	return nil
}

// DisplayName returns the instructor's name with their specialty, the
// way lesson listings present trainers, e.g. "Claire Morel (dressage)".
func (i *Instructor) DisplayName() string {
	name := i.FirstName + " " + i.LastName
	if i.Specialty != "" {
		return name + " (" + i.Specialty + ")"
	}
	return name
}
