package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tbonnin/stable-api/internal/domain"
	"github.com/tbonnin/stable-api/internal/platform/logger"
	"github.com/tbonnin/stable-api/internal/store"
)

// PostgresInstructorStore implements the store.InstructorStore interface
// using a PostgreSQL database as the storage backend.
type PostgresInstructorStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresInstructorStore creates a new PostgreSQL implementation of
// the InstructorStore interface. If logger is nil, a default logger
// will be used.
func NewPostgresInstructorStore(db store.DBTX, logger *slog.Logger) *PostgresInstructorStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresInstructorStore{
		db:     db,
		logger: logger.With(slog.String("component", "instructor_store")),
	}
}

// Ensure PostgresInstructorStore implements store.InstructorStore interface
var _ store.InstructorStore = (*PostgresInstructorStore)(nil)

// WithTx implements store.InstructorStore.WithTx
func (s *PostgresInstructorStore) WithTx(tx *sql.Tx) store.InstructorStore {
	return &PostgresInstructorStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.InstructorStore.Create
func (s *PostgresInstructorStore) Create(ctx context.Context, instructor *domain.Instructor) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := instructor.Validate(); err != nil {
		log.Warn("instructor validation failed during create",
			slog.String("error", err.Error()),
			slog.String("instructor_id", instructor.ID.String()))
		return err
	}

	query := `
		INSERT INTO instructors (id, last_name, first_name, email, specialty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		instructor.ID,
		instructor.LastName,
		instructor.FirstName,
		instructor.Email,
		instructor.Specialty,
		instructor.CreatedAt,
		instructor.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create instructor",
			slog.String("error", err.Error()),
			slog.String("instructor_id", instructor.ID.String()))
		return mapWriteError(err)
	}

	log.Info("instructor created successfully",
		slog.String("instructor_id", instructor.ID.String()),
		slog.String("name", instructor.DisplayName()))
	return nil
}

// GetByID implements store.InstructorStore.GetByID
// Returns store.ErrInstructorNotFound if the instructor does not exist.
func (s *PostgresInstructorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Instructor, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, last_name, first_name, email, specialty, created_at, updated_at
		FROM instructors
		WHERE id = $1
	`

	var instructor domain.Instructor
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&instructor.ID,
		&instructor.LastName,
		&instructor.FirstName,
		&instructor.Email,
		&instructor.Specialty,
		&instructor.CreatedAt,
		&instructor.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("instructor not found", slog.String("instructor_id", id.String()))
			return nil, store.ErrInstructorNotFound
		}
		log.Error("failed to get instructor by ID",
			slog.String("error", err.Error()),
			slog.String("instructor_id", id.String()))
		return nil, err
	}

	return &instructor, nil
}

// List implements store.InstructorStore.List
func (s *PostgresInstructorStore) List(ctx context.Context) ([]*domain.Instructor, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, last_name, first_name, email, specialty, created_at, updated_at
		FROM instructors
		ORDER BY last_name, first_name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list instructors", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	instructors := []*domain.Instructor{}
	for rows.Next() {
		var instructor domain.Instructor
		err := rows.Scan(
			&instructor.ID,
			&instructor.LastName,
			&instructor.FirstName,
			&instructor.Email,
			&instructor.Specialty,
			&instructor.CreatedAt,
			&instructor.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan instructor row", slog.String("error", err.Error()))
			return nil, err
		}
		instructors = append(instructors, &instructor)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return instructors, nil
}

// Delete implements store.InstructorStore.Delete
// Returns store.ErrInstructorNotFound if the instructor does not exist.
func (s *PostgresInstructorStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM instructors WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete instructor",
			slog.String("error", err.Error()),
			slog.String("instructor_id", id.String()))
		return mapWriteError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrInstructorNotFound
	}

	log.Info("instructor deleted", slog.String("instructor_id", id.String()))
	return nil
}
