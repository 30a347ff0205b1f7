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

// PostgresHorseStore implements the store.HorseStore interface
// using a PostgreSQL database as the storage backend.
type PostgresHorseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresHorseStore creates a new PostgreSQL implementation of the
// HorseStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is
// nil, a default logger will be used.
func NewPostgresHorseStore(db store.DBTX, logger *slog.Logger) *PostgresHorseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresHorseStore{
		db:     db,
		logger: logger.With(slog.String("component", "horse_store")),
	}
}

// Ensure PostgresHorseStore implements store.HorseStore interface
var _ store.HorseStore = (*PostgresHorseStore)(nil)

// WithTx implements store.HorseStore.WithTx
func (s *PostgresHorseStore) WithTx(tx *sql.Tx) store.HorseStore {
	return &PostgresHorseStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.HorseStore.Create
func (s *PostgresHorseStore) Create(ctx context.Context, horse *domain.Horse) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := horse.Validate(); err != nil {
		log.Warn("horse validation failed during create",
			slog.String("error", err.Error()),
			slog.String("horse_id", horse.ID.String()))
		return err
	}

	query := `
		INSERT INTO horses (id, name, breed, age, available, work_sessions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		horse.ID,
		horse.Name,
		horse.Breed,
		horse.Age,
		horse.Available,
		horse.WorkSessions,
		horse.CreatedAt,
		horse.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create horse",
			slog.String("error", err.Error()),
			slog.String("horse_id", horse.ID.String()))
		return mapWriteError(err)
	}

	log.Info("horse created successfully",
		slog.String("horse_id", horse.ID.String()),
		slog.String("name", horse.Name))
	return nil
}

// GetByID implements store.HorseStore.GetByID
// Returns store.ErrHorseNotFound if the horse does not exist.
func (s *PostgresHorseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Horse, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, breed, age, available, work_sessions, created_at, updated_at
		FROM horses
		WHERE id = $1
	`

	var horse domain.Horse
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&horse.ID,
		&horse.Name,
		&horse.Breed,
		&horse.Age,
		&horse.Available,
		&horse.WorkSessions,
		&horse.CreatedAt,
		&horse.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("horse not found", slog.String("horse_id", id.String()))
			return nil, store.ErrHorseNotFound
		}
		log.Error("failed to get horse by ID",
			slog.String("error", err.Error()),
			slog.String("horse_id", id.String()))
		return nil, err
	}

	return &horse, nil
}

// List implements store.HorseStore.List
func (s *PostgresHorseStore) List(ctx context.Context) ([]*domain.Horse, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, breed, age, available, work_sessions, created_at, updated_at
		FROM horses
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list horses", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	horses := []*domain.Horse{}
	for rows.Next() {
		var horse domain.Horse
		err := rows.Scan(
			&horse.ID,
			&horse.Name,
			&horse.Breed,
			&horse.Age,
			&horse.Available,
			&horse.WorkSessions,
			&horse.CreatedAt,
			&horse.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan horse row", slog.String("error", err.Error()))
			return nil, err
		}
		horses = append(horses, &horse)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return horses, nil
}

// UpdateWorkload implements store.HorseStore.UpdateWorkload
// Returns store.ErrHorseNotFound if the horse does not exist.
func (s *PostgresHorseStore) UpdateWorkload(
	ctx context.Context,
	id uuid.UUID,
	workSessions int,
	available bool,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE horses
		SET work_sessions = $1, available = $2, updated_at = now()
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, workSessions, available, id)
	if err != nil {
		log.Error("failed to update horse workload",
			slog.String("error", err.Error()),
			slog.String("horse_id", id.String()))
		return mapWriteError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("horse_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("horse not found for workload update",
			slog.String("horse_id", id.String()))
		return store.ErrHorseNotFound
	}

	log.Debug("horse workload updated",
		slog.String("horse_id", id.String()),
		slog.Int("work_sessions", workSessions),
		slog.Bool("available", available))
	return nil
}

// Delete implements store.HorseStore.Delete
// Returns store.ErrHorseNotFound if the horse does not exist.
func (s *PostgresHorseStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM horses WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete horse",
			slog.String("error", err.Error()),
			slog.String("horse_id", id.String()))
		return mapWriteError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrHorseNotFound
	}

	log.Info("horse deleted", slog.String("horse_id", id.String()))
	return nil
}

// closeRows closes a result set, logging close failures rather than
// masking the caller's error.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
