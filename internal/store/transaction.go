package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tbonnin/stable-api/internal/platform/logger"
)

// PostgreSQL error code for serialization failures under serializable
// isolation (class 40, "transaction rollback").
const pgSerializationFailureCode = "40001"

// isSerializationFailure reports whether the error is the backend
// refusing a commit because a concurrent transaction got there first.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgSerializationFailureCode
}

// TxFn is a function that executes within a database transaction.
// It receives the context and a transaction, and returns an error if the
// operation fails. The transaction is committed if the function returns
// nil, or rolled back if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction executes the given function within a database
// transaction at the backend's default isolation level. If the function
// returns an error, the transaction is rolled back; otherwise it is
// committed. Rollbacks on panic are handled and re-panicked.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	return runInTransaction(ctx, db, nil, fn)
}

// RunInSerializableTransaction executes the given function under
// serializable isolation. The enrollment service uses this for its
// read-evaluate-write sequence: two concurrent admissions that would
// jointly break a quota cannot both commit; the loser fails with a
// serialization error, which the caller detects via IsWriteConflict and
// retries.
func RunInSerializableTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	return runInTransaction(ctx, db, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func runInTransaction(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	// Roll back the transaction if the function panics, then re-panic.
	defer func() {
		if p := recover(); p != nil {
			txErr := tx.Rollback()
			if txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	err = fn(ctx, tx)
	if err != nil {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	// Serialization failures can surface at commit time as well as
	// inside the function; both must map to ErrWriteConflict.
	err = tx.Commit()
	if err != nil {
		if isSerializationFailure(err) {
			log.Debug("transaction lost serialization race at commit",
				slog.String("error", err.Error()))
			return fmt.Errorf("%w: %v", ErrWriteConflict, err)
		}
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}

	log.Debug("transaction committed successfully")
	return nil
}
