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

// Columns returned by every joined enrollment query, in scanLessonEnrollment
// order. The lesson is joined in so that one consistent read yields both
// the enrollment and the schedule facts the admission rules need.
const lessonEnrollmentColumns = `
	e.id, e.lesson_id, e.rider_id, e.horse_id, e.created_at,
	l.id, l.level, l.day, l.start_minutes, l.end_minutes, l.instructor_id, l.created_at, l.updated_at
`

// PostgresEnrollmentStore implements the store.EnrollmentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresEnrollmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEnrollmentStore creates a new PostgreSQL implementation of
// the EnrollmentStore interface. If logger is nil, a default logger
// will be used.
func NewPostgresEnrollmentStore(db store.DBTX, logger *slog.Logger) *PostgresEnrollmentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresEnrollmentStore{
		db:     db,
		logger: logger.With(slog.String("component", "enrollment_store")),
	}
}

// Ensure PostgresEnrollmentStore implements store.EnrollmentStore interface
var _ store.EnrollmentStore = (*PostgresEnrollmentStore)(nil)

// WithTx implements store.EnrollmentStore.WithTx
func (s *PostgresEnrollmentStore) WithTx(tx *sql.Tx) store.EnrollmentStore {
	return &PostgresEnrollmentStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanLessonEnrollment(row rowScanner) (store.LessonEnrollment, error) {
	var (
		enrollment   domain.Enrollment
		lesson       domain.Lesson
		level        string
		day          string
		start        int
		end          int
		instructorID uuid.NullUUID
	)

	err := row.Scan(
		&enrollment.ID,
		&enrollment.LessonID,
		&enrollment.RiderID,
		&enrollment.HorseID,
		&enrollment.CreatedAt,
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
		return store.LessonEnrollment{}, err
	}

	lesson.Level = domain.Level(level)
	lesson.Day = domain.Weekday(day)
	lesson.Start = domain.TimeOfDay(start)
	lesson.End = domain.TimeOfDay(end)
	if instructorID.Valid {
		lesson.InstructorID = &instructorID.UUID
	}

	return store.LessonEnrollment{Enrollment: &enrollment, Lesson: &lesson}, nil
}

// Create implements store.EnrollmentStore.Create
func (s *PostgresEnrollmentStore) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := enrollment.Validate(); err != nil {
		log.Warn("enrollment validation failed during create",
			slog.String("error", err.Error()),
			slog.String("enrollment_id", enrollment.ID.String()))
		return err
	}

	query := `
		INSERT INTO enrollments (id, lesson_id, rider_id, horse_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		enrollment.ID,
		enrollment.LessonID,
		enrollment.RiderID,
		enrollment.HorseID,
		enrollment.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create enrollment",
			slog.String("error", err.Error()),
			slog.String("enrollment_id", enrollment.ID.String()))
		return mapWriteError(err)
	}

	log.Info("enrollment created successfully",
		slog.String("enrollment_id", enrollment.ID.String()),
		slog.String("lesson_id", enrollment.LessonID.String()),
		slog.String("rider_id", enrollment.RiderID.String()),
		slog.String("horse_id", enrollment.HorseID.String()))
	return nil
}

// GetByID implements store.EnrollmentStore.GetByID
// Returns store.ErrEnrollmentNotFound if the enrollment does not exist.
func (s *PostgresEnrollmentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, lesson_id, rider_id, horse_id, created_at
		FROM enrollments
		WHERE id = $1
	`

	var enrollment domain.Enrollment
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&enrollment.ID,
		&enrollment.LessonID,
		&enrollment.RiderID,
		&enrollment.HorseID,
		&enrollment.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("enrollment not found", slog.String("enrollment_id", id.String()))
			return nil, store.ErrEnrollmentNotFound
		}
		log.Error("failed to get enrollment by ID",
			slog.String("error", err.Error()),
			slog.String("enrollment_id", id.String()))
		return nil, err
	}

	return &enrollment, nil
}

// Delete implements store.EnrollmentStore.Delete
// Returns store.ErrEnrollmentNotFound if the enrollment does not exist.
func (s *PostgresEnrollmentStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete enrollment",
			slog.String("error", err.Error()),
			slog.String("enrollment_id", id.String()))
		return mapWriteError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrEnrollmentNotFound
	}

	log.Info("enrollment deleted", slog.String("enrollment_id", id.String()))
	return nil
}

// ForLesson implements store.EnrollmentStore.ForLesson
func (s *PostgresEnrollmentStore) ForLesson(ctx context.Context, lessonID uuid.UUID) ([]*domain.Enrollment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, lesson_id, rider_id, horse_id, created_at
		FROM enrollments
		WHERE lesson_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		log.Error("failed to query lesson enrollments",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lessonID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	enrollments := []*domain.Enrollment{}
	for rows.Next() {
		var enrollment domain.Enrollment
		err := rows.Scan(
			&enrollment.ID,
			&enrollment.LessonID,
			&enrollment.RiderID,
			&enrollment.HorseID,
			&enrollment.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan enrollment row", slog.String("error", err.Error()))
			return nil, err
		}
		enrollments = append(enrollments, &enrollment)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return enrollments, nil
}

// ForHorseOnDay implements store.EnrollmentStore.ForHorseOnDay
func (s *PostgresEnrollmentStore) ForHorseOnDay(
	ctx context.Context,
	horseID uuid.UUID,
	day domain.Weekday,
) ([]store.LessonEnrollment, error) {
	query := `
		SELECT ` + lessonEnrollmentColumns + `
		FROM enrollments e
		JOIN lessons l ON l.id = e.lesson_id
		WHERE e.horse_id = $1 AND l.day = $2
		ORDER BY l.start_minutes
	`

	return s.queryLessonEnrollments(ctx, query, horseID, string(day))
}

// ForRiderOnDay implements store.EnrollmentStore.ForRiderOnDay
func (s *PostgresEnrollmentStore) ForRiderOnDay(
	ctx context.Context,
	riderID uuid.UUID,
	day domain.Weekday,
) ([]store.LessonEnrollment, error) {
	query := `
		SELECT ` + lessonEnrollmentColumns + `
		FROM enrollments e
		JOIN lessons l ON l.id = e.lesson_id
		WHERE e.rider_id = $1 AND l.day = $2
		ORDER BY l.start_minutes
	`

	return s.queryLessonEnrollments(ctx, query, riderID, string(day))
}

// ForRiderInWeek implements store.EnrollmentStore.ForRiderInWeek
func (s *PostgresEnrollmentStore) ForRiderInWeek(
	ctx context.Context,
	riderID uuid.UUID,
) ([]store.LessonEnrollment, error) {
	query := `
		SELECT ` + lessonEnrollmentColumns + `
		FROM enrollments e
		JOIN lessons l ON l.id = e.lesson_id
		WHERE e.rider_id = $1
	` + lessonOrderClauseJoined

	return s.queryLessonEnrollments(ctx, query, riderID)
}

// OverlappingForHorse implements store.EnrollmentStore.OverlappingForHorse
// Slot intervals are half-open, so back-to-back lessons do not overlap.
func (s *PostgresEnrollmentStore) OverlappingForHorse(
	ctx context.Context,
	horseID uuid.UUID,
	day domain.Weekday,
	start, end domain.TimeOfDay,
) ([]store.LessonEnrollment, error) {
	query := `
		SELECT ` + lessonEnrollmentColumns + `
		FROM enrollments e
		JOIN lessons l ON l.id = e.lesson_id
		WHERE e.horse_id = $1
		  AND l.day = $2
		  AND l.start_minutes < $4
		  AND l.end_minutes > $3
		ORDER BY l.start_minutes
	`

	return s.queryLessonEnrollments(ctx, query, horseID, string(day), int(start), int(end))
}

// CountForHorse implements store.EnrollmentStore.CountForHorse
func (s *PostgresEnrollmentStore) CountForHorse(ctx context.Context, horseID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM enrollments WHERE horse_id = $1`,
		horseID,
	).Scan(&count)
	if err != nil {
		log.Error("failed to count horse enrollments",
			slog.String("error", err.Error()),
			slog.String("horse_id", horseID.String()))
		return 0, err
	}

	return count, nil
}

func (s *PostgresEnrollmentStore) queryLessonEnrollments(
	ctx context.Context,
	query string,
	args ...any,
) ([]store.LessonEnrollment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query enrollments", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	entries := []store.LessonEnrollment{}
	for rows.Next() {
		entry, err := scanLessonEnrollment(rows)
		if err != nil {
			log.Error("failed to scan enrollment row", slog.String("error", err.Error()))
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return entries, nil
}
