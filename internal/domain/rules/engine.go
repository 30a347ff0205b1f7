package rules

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNilCandidate = errors.New("candidate lesson, rider and horse must all be set")
	ErrNilSnapshot  = errors.New("snapshot cannot be nil")
	ErrUnknownRule  = errors.New("unknown rule name")
)

// Predicate evaluates one rule against a candidate and snapshot.
// It returns nil on admission or the violation on failure.
type Predicate func(c Candidate, s *Snapshot, limits Limits) *Violation

// predicates maps every rule name to its implementation. The evaluation
// order comes from AllRules, not from this map.
var predicates = map[Name]Predicate{
	HorseUniqueInLesson: checkHorseUniqueInLesson,
	RiderUniqueInLesson: checkRiderUniqueInLesson,
	HorseDailyCap:       checkHorseDailyCap,
	HorseSlotOverlap:    checkHorseSlotOverlap,
	RiderDailyHorses:    checkRiderDailyHorses,
	LessonCapacity:      checkLessonCapacity,
	LevelProgression:    checkLevelProgression,
	YoungHorse:          checkYoungHorse,
	RiderWeeklyCap:      checkRiderWeeklyCap,
}

// Engine decides whether a candidate enrollment is admissible. It is a
// pure predicate over a snapshot plus a candidate; it never mutates
// state and never performs I/O.
type Engine interface {
	// Evaluate runs every active rule against the candidate and returns
	// the complete, ordered list of violations. An empty result means
	// the candidate is admitted. Evaluation is never fail-fast: all
	// blocking reasons are collected so the caller can report them in
	// one response.
	Evaluate(c Candidate, s *Snapshot) (Violations, error)

	// Check runs a single named rule, regardless of whether it is
	// active in the configured set. Listing paths use it to apply rule
	// subsets without re-implementing the predicates. The candidate may
	// be partial, but must carry the lesson plus whichever of rider and
	// horse the named rule reads.
	Check(name Name, c Candidate, s *Snapshot) (*Violation, error)

	// Config exposes the engine's pinned rule set and limits.
	Config() *Config
}

// defaultEngine is the standard implementation of the Engine interface.
type defaultEngine struct {
	cfg *Config
}

// NewEngine creates an Engine with the club's default rule set.
func NewEngine() Engine {
	return &defaultEngine{cfg: NewDefaultConfig()}
}

// NewEngineWithConfig creates an Engine with a custom rule set.
// A nil config falls back to the defaults.
func NewEngineWithConfig(cfg *Config) Engine {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	return &defaultEngine{cfg: cfg}
}

// Evaluate implements the Engine interface.
func (e *defaultEngine) Evaluate(c Candidate, s *Snapshot) (Violations, error) {
	if c.Lesson == nil || c.Rider == nil || c.Horse == nil {
		return nil, ErrNilCandidate
	}
	if s == nil {
		return nil, ErrNilSnapshot
	}

	var violations Violations
	for _, name := range AllRules() {
		if !e.cfg.Enabled(name) {
			continue
		}
		if v := predicates[name](c, s, e.cfg.Limits); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations, nil
}

// Check implements the Engine interface.
func (e *defaultEngine) Check(name Name, c Candidate, s *Snapshot) (*Violation, error) {
	if c.Lesson == nil {
		return nil, ErrNilCandidate
	}
	if s == nil {
		return nil, ErrNilSnapshot
	}

	predicate, ok := predicates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
	return predicate(c, s, e.cfg.Limits), nil
}

// Config implements the Engine interface.
func (e *defaultEngine) Config() *Config {
	return e.cfg
}

// checkHorseUniqueInLesson rejects the candidate when its horse is
// already mounted by another rider in the same lesson.
func checkHorseUniqueInLesson(c Candidate, s *Snapshot, _ Limits) *Violation {
	for _, enrollment := range s.LessonEnrollments {
		if enrollment.HorseID == c.Horse.ID {
			return &Violation{
				Rule: HorseUniqueInLesson,
				Message: fmt.Sprintf("horse %s is already mounted in lesson %s",
					c.Horse.Name, c.Lesson.Slot()),
			}
		}
	}
	return nil
}

// checkRiderUniqueInLesson rejects the candidate when its rider is
// already enrolled in the same lesson, whatever the horse. The storage
// layer carries a matching UNIQUE constraint as a backstop, but the
// rule fires here so the rejection reports a violation instead of a
// duplicate-key error.
func checkRiderUniqueInLesson(c Candidate, s *Snapshot, _ Limits) *Violation {
	for _, enrollment := range s.LessonEnrollments {
		if enrollment.RiderID == c.Rider.ID {
			return &Violation{
				Rule: RiderUniqueInLesson,
				Message: fmt.Sprintf("rider %s is already enrolled in lesson %s",
					c.Rider.FullName(), c.Lesson.Slot()),
			}
		}
	}
	return nil
}

// checkHorseDailyCap rejects the candidate when the horse has already
// been booked the maximum number of times on the lesson's day.
func checkHorseDailyCap(c Candidate, s *Snapshot, limits Limits) *Violation {
	if len(s.HorseDay) >= limits.HorseDailyCap {
		return &Violation{
			Rule: HorseDailyCap,
			Message: fmt.Sprintf("horse %s is already ridden %d times on %s",
				c.Horse.Name, len(s.HorseDay), c.Lesson.Day),
		}
	}
	return nil
}

// checkHorseSlotOverlap rejects the candidate when the horse is booked
// in another lesson whose [start, end) interval overlaps the candidate
// lesson's on the same day.
func checkHorseSlotOverlap(c Candidate, s *Snapshot, _ Limits) *Violation {
	for _, entry := range s.HorseDay {
		if entry.Lesson == nil || entry.Lesson.ID == c.Lesson.ID {
			continue
		}
		if entry.Lesson.OverlapsSlot(c.Lesson.Day, c.Lesson.Start, c.Lesson.End) {
			return &Violation{
				Rule: HorseSlotOverlap,
				Message: fmt.Sprintf("horse %s is booked in overlapping slot %s",
					c.Horse.Name, entry.Lesson.Slot()),
			}
		}
	}
	return nil
}

// checkRiderDailyHorses rejects the candidate when the rider already
// rides the maximum number of distinct horses on the lesson's day.
func checkRiderDailyHorses(c Candidate, s *Snapshot, limits Limits) *Violation {
	horses := make(map[string]struct{})
	for _, entry := range s.riderDay(c.Lesson.Day) {
		horses[entry.Enrollment.HorseID.String()] = struct{}{}
	}
	if len(horses) >= limits.RiderDailyHorseCap {
		return &Violation{
			Rule: RiderDailyHorses,
			Message: fmt.Sprintf("rider %s already rides %d horses on %s",
				c.Rider.FullName(), len(horses), c.Lesson.Day),
		}
	}
	return nil
}

// checkLessonCapacity rejects the candidate when the lesson is full.
func checkLessonCapacity(c Candidate, s *Snapshot, limits Limits) *Violation {
	if len(s.LessonEnrollments) >= limits.LessonCapacity {
		return &Violation{
			Rule: LessonCapacity,
			Message: fmt.Sprintf("lesson %s is full (%d riders)",
				c.Lesson.Slot(), len(s.LessonEnrollments)),
		}
	}
	return nil
}

// checkLevelProgression bars a rider with any beginner-lesson enrollment
// from competition lessons.
func checkLevelProgression(c Candidate, s *Snapshot, _ Limits) *Violation {
	if !c.Lesson.IsCompetition() {
		return nil
	}
	for _, entry := range s.RiderWeek {
		if entry.Lesson != nil && entry.Lesson.IsBeginner() {
			return &Violation{
				Rule: LevelProgression,
				Message: fmt.Sprintf("rider %s is enrolled in beginner lesson %s and cannot enter competition",
					c.Rider.FullName(), entry.Lesson.Slot()),
			}
		}
	}
	return nil
}

// checkYoungHorse restricts horses under the age threshold: barred from
// competition outright, and otherwise ridden only by an
// instructor-qualified rider. With no rider on the candidate (listing
// projections), only the competition bar applies, since some qualified
// rider could still take the horse.
func checkYoungHorse(c Candidate, s *Snapshot, limits Limits) *Violation {
	if !c.Horse.Young(limits.YoungHorseAge) {
		return nil
	}
	if c.Lesson.IsCompetition() {
		return &Violation{
			Rule: YoungHorse,
			Message: fmt.Sprintf("horse %s is %d years old and barred from competition",
				c.Horse.Name, c.Horse.Age),
		}
	}
	if c.Rider != nil && !c.Rider.InstructorQualified() {
		return &Violation{
			Rule: YoungHorse,
			Message: fmt.Sprintf("horse %s is %d years old and requires an instructor-qualified rider",
				c.Horse.Name, c.Horse.Age),
		}
	}
	return nil
}

// checkRiderWeeklyCap rejects the candidate when the rider has reached
// the weekly lesson quota.
func checkRiderWeeklyCap(c Candidate, s *Snapshot, limits Limits) *Violation {
	if len(s.RiderWeek) >= limits.RiderWeeklyCap {
		return &Violation{
			Rule: RiderWeeklyCap,
			Message: fmt.Sprintf("rider %s already has %d lessons this week",
				c.Rider.FullName(), len(s.RiderWeek)),
		}
	}
	return nil
}
