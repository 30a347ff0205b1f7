package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Level is a lesson's skill level. Levels are compared case-insensitively
// everywhere; ParseLevel normalizes to the lowercase canonical form.
type Level string

// The lesson level vocabulary.
const (
	LevelBeginner    Level = "beginner"
	LevelNovice      Level = "novice"
	LevelAdvanced    Level = "advanced"
	LevelCompetition Level = "competition"
)

// knownLevels is the authoritative level vocabulary.
var knownLevels = map[Level]struct{}{
	LevelBeginner:    {},
	LevelNovice:      {},
	LevelAdvanced:    {},
	LevelCompetition: {},
}

// ParseLevel converts a string into a Level, case-insensitively.
// Returns ErrInvalidLevel for values outside the vocabulary.
func ParseLevel(s string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := knownLevels[level]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return level, nil
}

// Is compares two levels case-insensitively.
func (l Level) Is(other Level) bool {
	return strings.EqualFold(string(l), string(other))
}

// String implements fmt.Stringer.
func (l Level) String() string {
	return string(l)
}

// Lesson represents a scheduled teaching slot: a skill level taught on a
// weekday between a start and end time, optionally led by an instructor.
//
// A lesson logically groups its enrollments; deleting a lesson cascades
// to them (enforced by the schema, see LessonStore.Delete). The default
// ordering of lessons is by (weekday, start time).
type Lesson struct {
	ID           uuid.UUID  `json:"id"`
	Level        Level      `json:"level"`
	Day          Weekday    `json:"day"`
	Start        TimeOfDay  `json:"start"`
	End          TimeOfDay  `json:"end"`
	InstructorID *uuid.UUID `json:"instructor_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewLesson creates a new Lesson with a generated ID and timestamps.
// Returns an error if validation fails.
func NewLesson(level Level, day Weekday, start, end TimeOfDay) (*Lesson, error) {
	lesson := &Lesson{
		ID:        uuid.New(),
		Level:     level,
		Day:       day,
		Start:     start,
		End:       end,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := lesson.Validate(); err != nil {
		return nil, err
	}

	return lesson, nil
}

// Validate checks if the Lesson has valid data.
func (l *Lesson) Validate() error {
	if l.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if _, ok := knownLevels[Level(strings.ToLower(string(l.Level)))]; !ok {
		return NewValidationError("level", fmt.Sprintf("unknown level %q", l.Level), ErrInvalidLevel)
	}
	if !l.Day.Valid() {
		return NewValidationError("day", fmt.Sprintf("unknown weekday %q", l.Day), ErrInvalidWeekday)
	}
	if !l.Start.Valid() || !l.End.Valid() {
		return NewValidationError("time", "start and end must fall within a day", ErrInvalidTimeOfDay)
	}
	if l.End <= l.Start {
		return NewValidationError("time", "end must be after start", ErrInvalidTimeRange)
	}
	return nil
}

// IsCompetition reports whether the lesson is a competition-level slot.
func (l *Lesson) IsCompetition() bool {
	return l.Level.Is(LevelCompetition)
}

// IsBeginner reports whether the lesson is a beginner-level slot.
func (l *Lesson) IsBeginner() bool {
	return l.Level.Is(LevelBeginner)
}

// OverlapsSlot reports whether the lesson's [Start, End) interval
// overlaps the given interval on the same day. Lessons on different
// days never overlap.
func (l *Lesson) OverlapsSlot(day Weekday, start, end TimeOfDay) bool {
	if l.Day != day {
		return false
	}
	return Overlaps(l.Start, l.End, start, end)
}

// Slot formats the lesson's weekday and time range for messages,
// e.g. "monday 09:00-10:00".
func (l *Lesson) Slot() string {
	return fmt.Sprintf("%s %s-%s", l.Day, l.Start, l.End)
}
