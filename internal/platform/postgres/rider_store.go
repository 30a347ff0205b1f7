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

// PostgresRiderStore implements the store.RiderStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRiderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRiderStore creates a new PostgreSQL implementation of the
// RiderStore interface. If logger is nil, a default logger will be used.
func NewPostgresRiderStore(db store.DBTX, logger *slog.Logger) *PostgresRiderStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRiderStore{
		db:     db,
		logger: logger.With(slog.String("component", "rider_store")),
	}
}

// Ensure PostgresRiderStore implements store.RiderStore interface
var _ store.RiderStore = (*PostgresRiderStore)(nil)

// WithTx implements store.RiderStore.WithTx
func (s *PostgresRiderStore) WithTx(tx *sql.Tx) store.RiderStore {
	return &PostgresRiderStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.RiderStore.Create
// Returns store.ErrInvalidEntity if a referenced horse or instructor
// does not exist (foreign key violation).
func (s *PostgresRiderStore) Create(ctx context.Context, rider *domain.Rider) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := rider.Validate(); err != nil {
		log.Warn("rider validation failed during create",
			slog.String("error", err.Error()),
			slog.String("rider_id", rider.ID.String()))
		return err
	}

	query := `
		INSERT INTO riders (id, last_name, first_name, age, email, owned_horse_id, instructor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		rider.ID,
		rider.LastName,
		rider.FirstName,
		rider.Age,
		rider.Email,
		rider.OwnedHorseID,
		rider.InstructorID,
		rider.CreatedAt,
		rider.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create rider",
			slog.String("error", err.Error()),
			slog.String("rider_id", rider.ID.String()))
		return mapWriteError(err)
	}

	log.Info("rider created successfully",
		slog.String("rider_id", rider.ID.String()),
		slog.String("name", rider.FullName()))
	return nil
}

// GetByID implements store.RiderStore.GetByID
// Returns store.ErrRiderNotFound if the rider does not exist.
func (s *PostgresRiderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, last_name, first_name, age, email, owned_horse_id, instructor_id, created_at, updated_at
		FROM riders
		WHERE id = $1
	`

	rider, err := scanRider(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("rider not found", slog.String("rider_id", id.String()))
			return nil, store.ErrRiderNotFound
		}
		log.Error("failed to get rider by ID",
			slog.String("error", err.Error()),
			slog.String("rider_id", id.String()))
		return nil, err
	}

	return rider, nil
}

// List implements store.RiderStore.List
func (s *PostgresRiderStore) List(ctx context.Context) ([]*domain.Rider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, last_name, first_name, age, email, owned_horse_id, instructor_id, created_at, updated_at
		FROM riders
		ORDER BY last_name, first_name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list riders", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	riders := []*domain.Rider{}
	for rows.Next() {
		rider, err := scanRider(rows)
		if err != nil {
			log.Error("failed to scan rider row", slog.String("error", err.Error()))
			return nil, err
		}
		riders = append(riders, rider)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return riders, nil
}

// Delete implements store.RiderStore.Delete
// Returns store.ErrRiderNotFound if the rider does not exist.
func (s *PostgresRiderStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM riders WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete rider",
			slog.String("error", err.Error()),
			slog.String("rider_id", id.String()))
		return mapWriteError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrRiderNotFound
	}

	log.Info("rider deleted", slog.String("rider_id", id.String()))
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRider reads one rider row, converting nullable references.
func scanRider(row rowScanner) (*domain.Rider, error) {
	var rider domain.Rider
	var ownedHorseID, instructorID uuid.NullUUID

	err := row.Scan(
		&rider.ID,
		&rider.LastName,
		&rider.FirstName,
		&rider.Age,
		&rider.Email,
		&ownedHorseID,
		&instructorID,
		&rider.CreatedAt,
		&rider.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if ownedHorseID.Valid {
		rider.OwnedHorseID = &ownedHorseID.UUID
	}
	if instructorID.Valid {
		rider.InstructorID = &instructorID.UUID
	}
	return &rider, nil
}
