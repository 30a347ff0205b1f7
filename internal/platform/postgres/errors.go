package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tbonnin/stable-api/internal/store"
)

// PostgreSQL error codes this package maps onto store sentinels.
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
	pgSerializationFailure    = "40001"
)

// isUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation, e.g. enrolling the same horse twice in a lesson.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode
}

// isForeignKeyViolation checks if the given error is a PostgreSQL
// foreign key violation, i.e. a referenced entity does not exist.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode
}

// isSerializationFailure checks if the given error is the backend
// aborting a serializable transaction that lost a concurrency race.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgSerializationFailure
}

// mapWriteError translates driver errors from insert/update/delete
// statements into store sentinels, keeping the original error in the
// chain for logs.
func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case isSerializationFailure(err):
		return fmt.Errorf("%w: %v", store.ErrWriteConflict, err)
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	default:
		return err
	}
}
