package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tbonnin/stable-api/internal/domain"
)

// HorseStore defines the interface for horse data persistence.
type HorseStore interface {
	// Create saves a new horse to the store.
	// Returns validation errors if the horse data is invalid.
	Create(ctx context.Context, horse *domain.Horse) error

	// GetByID retrieves a horse by its unique ID.
	// Returns ErrHorseNotFound if the horse does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Horse, error)

	// List retrieves all horses ordered by name.
	List(ctx context.Context) ([]*domain.Horse, error)

	// UpdateWorkload persists the derived availability fields after the
	// availability calculator recomputes them. Returns ErrHorseNotFound
	// if the horse does not exist.
	UpdateWorkload(ctx context.Context, id uuid.UUID, workSessions int, available bool) error

	// Delete removes a horse from the store by its ID.
	// Returns ErrHorseNotFound if the horse does not exist.
	// Riders owning the horse keep their record; the ownership
	// reference is cleared by the schema (ON DELETE SET NULL).
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new HorseStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically the enrollment service via RunInSerializableTransaction).
	WithTx(tx *sql.Tx) HorseStore
}
