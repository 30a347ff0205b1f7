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

// Lessons are listed in schedule order: weekday first, start time second.
// Days are stored as text, so ordering needs an explicit ranking.
const lessonOrderClause = `
	ORDER BY CASE day
		WHEN 'monday' THEN 1
		WHEN 'tuesday' THEN 2
		WHEN 'wednesday' THEN 3
		WHEN 'thursday' THEN 4
		WHEN 'friday' THEN 5
		WHEN 'saturday' THEN 6
	END, start_minutes
`

// lessonOrderClauseJoined is the same ranking for queries that join
// lessons under the alias l.
const lessonOrderClauseJoined = `
	ORDER BY CASE l.day
		WHEN 'monday' THEN 1
		WHEN 'tuesday' THEN 2
		WHEN 'wednesday' THEN 3
		WHEN 'thursday' THEN 4
		WHEN 'friday' THEN 5
		WHEN 'saturday' THEN 6
	END, l.start_minutes
`

// PostgresLessonStore implements the store.LessonStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLessonStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLessonStore creates a new PostgreSQL implementation of the
// LessonStore interface. If logger is nil, a default logger will be used.
func NewPostgresLessonStore(db store.DBTX, logger *slog.Logger) *PostgresLessonStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLessonStore{
		db:     db,
		logger: logger.With(slog.String("component", "lesson_store")),
	}
}

// Ensure PostgresLessonStore implements store.LessonStore interface
var _ store.LessonStore = (*PostgresLessonStore)(nil)

// WithTx implements store.LessonStore.WithTx
func (s *PostgresLessonStore) WithTx(tx *sql.Tx) store.LessonStore {
	return &PostgresLessonStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanLesson reads a lesson row in column order
// (id, level, day, start_minutes, end_minutes, instructor_id, created_at, updated_at).
func scanLesson(row rowScanner) (*domain.Lesson, error) {
	var (
		lesson       domain.Lesson
		level        string
		day          string
		start        int
		end          int
		instructorID uuid.NullUUID
	)

	err := row.Scan(
		&lesson.ID,
		&level,
		&day,
		&start,
		&end,
		&instructorID,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lesson.Level = domain.Level(level)
	lesson.Day = domain.Weekday(day)
	lesson.Start = domain.TimeOfDay(start)
	lesson.End = domain.TimeOfDay(end)
	if instructorID.Valid {
		lesson.InstructorID = &instructorID.UUID
	}

	return &lesson, nil
}

// Create implements store.LessonStore.Create
func (s *PostgresLessonStore) Create(ctx context.Context, lesson *domain.Lesson) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := lesson.Validate(); err != nil {
		log.Warn("lesson validation failed during create",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lesson.ID.String()))
		return err
	}

	var instructorID uuid.NullUUID
	if lesson.InstructorID != nil {
		instructorID = uuid.NullUUID{UUID: *lesson.InstructorID, Valid: true}
	}

	query := `
		INSERT INTO lessons (id, level, day, start_minutes, end_minutes, instructor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		lesson.ID,
		string(lesson.Level),
		string(lesson.Day),
		int(lesson.Start),
		int(lesson.End),
		instructorID,
		lesson.CreatedAt,
		lesson.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create lesson",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lesson.ID.String()))
		return mapWriteError(err)
	}

	log.Info("lesson created successfully",
		slog.String("lesson_id", lesson.ID.String()),
		slog.String("slot", lesson.Slot()))
	return nil
}

// GetByID implements store.LessonStore.GetByID
// Returns store.ErrLessonNotFound if the lesson does not exist.
func (s *PostgresLessonStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, level, day, start_minutes, end_minutes, instructor_id, created_at, updated_at
		FROM lessons
		WHERE id = $1
	`

	lesson, err := scanLesson(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("lesson not found", slog.String("lesson_id", id.String()))
			return nil, store.ErrLessonNotFound
		}
		log.Error("failed to get lesson by ID",
			slog.String("error", err.Error()),
			slog.String("lesson_id", id.String()))
		return nil, err
	}

	return lesson, nil
}

// List implements store.LessonStore.List
func (s *PostgresLessonStore) List(ctx context.Context) ([]*domain.Lesson, error) {
	query := `
		SELECT id, level, day, start_minutes, end_minutes, instructor_id, created_at, updated_at
		FROM lessons
	` + lessonOrderClause

	return s.queryLessons(ctx, query)
}

// ListByDay implements store.LessonStore.ListByDay
func (s *PostgresLessonStore) ListByDay(ctx context.Context, day domain.Weekday) ([]*domain.Lesson, error) {
	query := `
		SELECT id, level, day, start_minutes, end_minutes, instructor_id, created_at, updated_at
		FROM lessons
		WHERE day = $1
		ORDER BY start_minutes
	`

	return s.queryLessons(ctx, query, string(day))
}

func (s *PostgresLessonStore) queryLessons(ctx context.Context, query string, args ...any) ([]*domain.Lesson, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query lessons", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	lessons := []*domain.Lesson{}
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			log.Error("failed to scan lesson row", slog.String("error", err.Error()))
			return nil, err
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return lessons, nil
}

// Delete implements store.LessonStore.Delete
// Enrollments referencing the lesson are removed by the ON DELETE CASCADE
// constraint. Returns store.ErrLessonNotFound if the lesson does not exist.
func (s *PostgresLessonStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete lesson",
			slog.String("error", err.Error()),
			slog.String("lesson_id", id.String()))
		return mapWriteError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrLessonNotFound
	}

	log.Info("lesson deleted", slog.String("lesson_id", id.String()))
	return nil
}
