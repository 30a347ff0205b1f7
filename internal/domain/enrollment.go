package domain

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment assigns exactly one rider to one horse within one lesson.
// Enrollments have no lifecycle state of their own: they either exist or
// they don't, and a change is expressed as delete followed by create.
// They are created and deleted only through the enrollment service, which
// enforces the admission rules.
type Enrollment struct {
	ID        uuid.UUID `json:"id"`
	LessonID  uuid.UUID `json:"lesson_id"`
	RiderID   uuid.UUID `json:"rider_id"`
	HorseID   uuid.UUID `json:"horse_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEnrollment creates a new Enrollment with a generated ID.
// Returns an error if validation fails.
func NewEnrollment(lessonID, riderID, horseID uuid.UUID) (*Enrollment, error) {
	enrollment := &Enrollment{
		ID:        uuid.New(),
		LessonID:  lessonID,
		RiderID:   riderID,
		HorseID:   horseID,
		CreatedAt: time.Now().UTC(),
	}

	if err := enrollment.Validate(); err != nil {
		return nil, err
	}

	return enrollment, nil
}

// Validate checks if the Enrollment has valid data.
func (e *Enrollment) Validate() error {
	if e.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if e.LessonID == uuid.Nil {
		return NewValidationError("lesson_id", "cannot be empty", ErrInvalidID)
	}
	if e.RiderID == uuid.Nil {
		return NewValidationError("rider_id", "cannot be empty", ErrInvalidID)
	}
	if e.HorseID == uuid.Nil {
		return NewValidationError("horse_id", "cannot be empty", ErrInvalidID)
	}
	return nil
}
