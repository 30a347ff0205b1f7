package rules

import (
	"fmt"
	"strings"
)

// Name identifies a single admission rule. Names are stable identifiers:
// they appear in API responses and in the configuration that pins the
// active rule set.
type Name string

// The admission rule vocabulary.
const (
	// HorseUniqueInLesson rejects a second enrollment of the same horse
	// within one lesson.
	HorseUniqueInLesson Name = "horse_unique_in_lesson"

	// RiderUniqueInLesson rejects a second enrollment of the same rider
	// within one lesson, whatever the horse.
	RiderUniqueInLesson Name = "rider_unique_in_lesson"

	// HorseDailyCap rejects riding a horse more than twice on one day.
	HorseDailyCap Name = "horse_daily_cap"

	// HorseSlotOverlap rejects booking a horse into two lessons whose
	// time slots overlap on the same day.
	HorseSlotOverlap Name = "horse_slot_overlap"

	// RiderDailyHorses rejects a rider riding more than two distinct
	// horses on one day.
	RiderDailyHorses Name = "rider_daily_horses"

	// LessonCapacity rejects enrollments into a full lesson.
	LessonCapacity Name = "lesson_capacity"

	// LevelProgression bars riders enrolled in a beginner lesson from
	// competition lessons.
	LevelProgression Name = "level_progression"

	// YoungHorse restricts horses under the age threshold: never in
	// competition lessons, and otherwise only under an
	// instructor-qualified rider.
	YoungHorse Name = "young_horse"

	// RiderWeeklyCap rejects a rider's fifth lesson of the week.
	RiderWeeklyCap Name = "rider_weekly_cap"
)

// AllRules returns every rule name in evaluation order. The order is
// fixed so that a rejection always lists its violations deterministically.
func AllRules() []Name {
	return []Name{
		HorseUniqueInLesson,
		RiderUniqueInLesson,
		HorseDailyCap,
		HorseSlotOverlap,
		RiderDailyHorses,
		LessonCapacity,
		LevelProgression,
		YoungHorse,
		RiderWeeklyCap,
	}
}

// Violation records one failed rule with human-readable context naming
// the entities involved.
type Violation struct {
	Rule    Name   `json:"rule"`
	Message string `json:"message"`
}

// String implements fmt.Stringer.
func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Message)
}

// Violations is the ordered list of rule failures for one candidate.
// An empty list means the candidate is admitted.
type Violations []Violation

// Admitted reports whether the candidate passed every active rule.
func (vs Violations) Admitted() bool {
	return len(vs) == 0
}

// Has reports whether the named rule is among the failures.
func (vs Violations) Has(name Name) bool {
	for _, v := range vs {
		if v.Rule == name {
			return true
		}
	}
	return false
}

// ViolationError carries the complete set of rule failures back to the
// caller as an error. Every violation is always reported together, never
// just the first, so the caller can present all blocking reasons at once.
type ViolationError struct {
	Violations Violations
}

// Error implements the error interface for ViolationError.
func (e *ViolationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("enrollment rejected: %s", strings.Join(msgs, "; "))
}

// NewViolationError wraps the given violations in a ViolationError.
func NewViolationError(vs Violations) *ViolationError {
	return &ViolationError{Violations: vs}
}
