package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultWorkSessionLimit is the number of sessions across the scheduling
// week beyond which a horse is no longer considered available.
const DefaultWorkSessionLimit = 8

// Horse represents a club horse that can be assigned to lessons.
//
// WorkSessions and Available are derived values: WorkSessions counts the
// horse's enrollments across the scheduling week, and Available holds
// iff that count stays within the work session limit. Both are maintained
// by the availability calculator after every committed enrollment change,
// never edited directly.
type Horse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Breed        string    `json:"breed"`
	Age          int       `json:"age"`
	Available    bool      `json:"available"`
	WorkSessions int       `json:"work_sessions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewHorse creates a new Horse with a generated ID and timestamps.
// A new horse starts available with zero work sessions.
// Returns an error if validation fails.
func NewHorse(name, breed string, age int) (*Horse, error) {
	horse := &Horse{
		ID:        uuid.New(),
		Name:      name,
		Breed:     breed,
		Age:       age,
		Available: true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := horse.Validate(); err != nil {
		return nil, err
	}

	return horse, nil
}

// Validate checks if the Horse has valid data.
func (h *Horse) Validate() error {
	if h.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if h.Name == "" {
		return NewValidationError("name", "cannot be empty", ErrEmptyName)
	}
	if h.Age < 0 {
		return NewValidationError("age", "cannot be negative", ErrInvalidAge)
	}
	if h.WorkSessions < 0 {
		return NewValidationError("work_sessions", "cannot be negative", ErrValidation)
	}
	return nil
}

// ApplyWorkload sets the derived workload fields from a fresh enrollment
// count. Availability holds iff the count stays within limit.
func (h *Horse) ApplyWorkload(sessions, limit int) {
	h.WorkSessions = sessions
	h.Available = sessions <= limit
	h.UpdatedAt = time.Now().UTC()
}

// Young reports whether the horse is below the given age threshold.
// Young horses are subject to stricter enrollment rules.
func (h *Horse) Young(ageThreshold int) bool {
	return h.Age < ageThreshold
}
