package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tbonnin/stable-api/internal/domain"
)

// LessonEnrollment pairs an enrollment with the lesson it belongs to.
// The day, time-slot and level queries the admission rules depend on all
// live on the lesson, so the enrollment queries return both together
// from a single consistent read.
type LessonEnrollment struct {
	Enrollment *domain.Enrollment
	Lesson     *domain.Lesson
}

// EnrollmentStore defines the interface for enrollment data persistence,
// including the filtered queries the constraint engine's snapshot is
// built from. All queries read a single point-in-time state; none return
// partial results.
type EnrollmentStore interface {
	// Create saves a new enrollment to the store.
	// Returns ErrInvalidEntity if the referenced lesson, rider or horse
	// does not exist (foreign key violation).
	//
	// IMPORTANT: this method MUST be called inside the serializable
	// transaction that evaluated the candidate, via WithTx; committing
	// an enrollment outside that transaction can break the quota
	// invariants under concurrency.
	Create(ctx context.Context, enrollment *domain.Enrollment) error

	// GetByID retrieves an enrollment by its unique ID.
	// Returns ErrEnrollmentNotFound if the enrollment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error)

	// Delete removes an enrollment from the store by its ID.
	// Returns ErrEnrollmentNotFound if the enrollment does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ForLesson retrieves the enrollments in one lesson.
	ForLesson(ctx context.Context, lessonID uuid.UUID) ([]*domain.Enrollment, error)

	// ForHorseOnDay retrieves a horse's enrollments on one weekday,
	// with their lessons.
	ForHorseOnDay(ctx context.Context, horseID uuid.UUID, day domain.Weekday) ([]LessonEnrollment, error)

	// ForRiderOnDay retrieves a rider's enrollments on one weekday,
	// with their lessons.
	ForRiderOnDay(ctx context.Context, riderID uuid.UUID, day domain.Weekday) ([]LessonEnrollment, error)

	// ForRiderInWeek retrieves a rider's enrollments across the whole
	// scheduling week, with their lessons.
	ForRiderInWeek(ctx context.Context, riderID uuid.UUID) ([]LessonEnrollment, error)

	// OverlappingForHorse retrieves a horse's enrollments on the given
	// weekday whose lesson slot overlaps the half-open [start, end)
	// interval, with their lessons.
	OverlappingForHorse(
		ctx context.Context,
		horseID uuid.UUID,
		day domain.Weekday,
		start, end domain.TimeOfDay,
	) ([]LessonEnrollment, error)

	// CountForHorse counts a horse's enrollments across the scheduling
	// week. This is the horse's rolling session count, the input to the
	// availability recomputation.
	CountForHorse(ctx context.Context, horseID uuid.UUID) (int, error)

	// WithTx returns a new EnrollmentStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) EnrollmentStore
}
