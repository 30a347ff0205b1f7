package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tbonnin/stable-api/internal/domain"
)

// LessonStore defines the interface for lesson data persistence.
type LessonStore interface {
	// Create saves a new lesson to the store.
	Create(ctx context.Context, lesson *domain.Lesson) error

	// GetByID retrieves a lesson by its unique ID.
	// Returns ErrLessonNotFound if the lesson does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)

	// List retrieves all lessons in the default ordering:
	// by weekday (monday first), then by start time.
	List(ctx context.Context) ([]*domain.Lesson, error)

	// ListByDay retrieves the lessons on one weekday ordered by start time.
	ListByDay(ctx context.Context, day domain.Weekday) ([]*domain.Lesson, error)

	// Delete removes a lesson from the store by its ID.
	// Returns ErrLessonNotFound if the lesson does not exist.
	//
	// IMPORTANT: deleting a lesson cascades to its enrollments. This is
	// a deliberate policy, enforced through ON DELETE CASCADE on the
	// enrollment foreign key, not an accident of the schema. Horse
	// availability for the affected horses is recomputed by the
	// enrollment service, which is the only caller of this method.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new LessonStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LessonStore
}
