package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tbonnin/stable-api/internal/domain"
)

// RiderStore defines the interface for rider data persistence.
type RiderStore interface {
	// Create saves a new rider to the store.
	// Returns ErrInvalidEntity if a referenced horse or instructor does
	// not exist (foreign key violation).
	Create(ctx context.Context, rider *domain.Rider) error

	// GetByID retrieves a rider by its unique ID.
	// Returns ErrRiderNotFound if the rider does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Rider, error)

	// List retrieves all riders ordered by last name, first name.
	List(ctx context.Context) ([]*domain.Rider, error)

	// Delete removes a rider from the store by its ID.
	// Returns ErrRiderNotFound if the rider does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new RiderStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) RiderStore
}

// InstructorStore defines the interface for instructor data persistence.
type InstructorStore interface {
	// Create saves a new instructor to the store.
	Create(ctx context.Context, instructor *domain.Instructor) error

	// GetByID retrieves an instructor by its unique ID.
	// Returns ErrInstructorNotFound if the instructor does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Instructor, error)

	// List retrieves all instructors ordered by last name, first name.
	List(ctx context.Context) ([]*domain.Instructor, error)

	// Delete removes an instructor from the store by its ID.
	// Returns ErrInstructorNotFound if the instructor does not exist.
	// Lessons referencing the instructor keep running without one and
	// qualified riders lose the link (ON DELETE SET NULL on both).
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new InstructorStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) InstructorStore
}
