package rules

import (
	"github.com/tbonnin/stable-api/internal/domain"
)

// Candidate is a proposed, not-yet-committed enrollment under evaluation:
// the resolved lesson, rider and horse it would bind together.
type Candidate struct {
	Lesson *domain.Lesson
	Rider  *domain.Rider
	Horse  *domain.Horse
}

// Entry pairs an existing enrollment with its lesson, which carries the
// day, time slot and level the predicates reason about.
type Entry struct {
	Enrollment *domain.Enrollment
	Lesson     *domain.Lesson
}

// Snapshot is a consistent, point-in-time read of every enrollment a
// single admission decision depends on. The candidate itself is never
// part of the snapshot; all counts implicitly exclude it.
type Snapshot struct {
	// LessonEnrollments are the existing enrollments in the candidate's
	// lesson.
	LessonEnrollments []*domain.Enrollment

	// HorseDay are the candidate horse's enrollments on the candidate's
	// day, across all lessons.
	HorseDay []Entry

	// RiderWeek are the candidate rider's enrollments across the whole
	// scheduling week, across all lessons.
	RiderWeek []Entry
}

// riderDay filters the rider's weekly enrollments down to the given day.
func (s *Snapshot) riderDay(day domain.Weekday) []Entry {
	var out []Entry
	for _, e := range s.RiderWeek {
		if e.Lesson != nil && e.Lesson.Day == day {
			out = append(out, e)
		}
	}
	return out
}
