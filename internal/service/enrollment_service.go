package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tbonnin/stable-api/internal/domain"
	"github.com/tbonnin/stable-api/internal/domain/rules"
	"github.com/tbonnin/stable-api/internal/platform/logger"
	"github.com/tbonnin/stable-api/internal/store"
)

// ListingInvalidator drops cached listing projections after an
// enrollment write. Invalidation is best-effort; a failure is logged
// and never fails the write.
type ListingInvalidator interface {
	InvalidateListings(ctx context.Context) error
}

// EnrollmentService is the only writer of enrollment records. Every
// write runs the read-evaluate-write sequence inside one serializable
// transaction: load a consistent snapshot, ask the constraint engine for
// a verdict, and commit only on full admission, with the affected
// horse's availability recomputed in the same transaction.
type EnrollmentService interface {
	// Enroll creates an enrollment binding the rider to the horse in the
	// lesson. On rule violations it returns a *rules.ViolationError
	// carrying every blocking reason and writes nothing.
	Enroll(ctx context.Context, lessonID, riderID, horseID uuid.UUID) (*domain.Enrollment, error)

	// Withdraw removes an enrollment and recomputes the affected
	// horse's availability. Returns store.ErrEnrollmentNotFound through
	// the chain if the enrollment does not exist.
	Withdraw(ctx context.Context, enrollmentID uuid.UUID) error
}

type enrollmentServiceImpl struct {
	db           *sql.DB
	lessons      store.LessonStore
	riders       store.RiderStore
	horses       store.HorseStore
	enrollments  store.EnrollmentStore
	engine       rules.Engine
	availability *AvailabilityCalculator
	cache        ListingInvalidator
	logger       *slog.Logger

	// runTx executes one transaction body. It defaults to
	// store.RunInSerializableTransaction and exists as a field so tests
	// can exercise the conflict-retry path without a database.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewEnrollmentService creates a new EnrollmentService.
// It returns an error if any of the required dependencies are nil.
// The cache is optional; pass nil to disable listing invalidation.
func NewEnrollmentService(
	db *sql.DB,
	lessons store.LessonStore,
	riders store.RiderStore,
	horses store.HorseStore,
	enrollments store.EnrollmentStore,
	engine rules.Engine,
	availability *AvailabilityCalculator,
	cache ListingInvalidator,
	logger *slog.Logger,
) (EnrollmentService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if lessons == nil {
		return nil, domain.NewValidationError("lessons", "cannot be nil", domain.ErrValidation)
	}
	if riders == nil {
		return nil, domain.NewValidationError("riders", "cannot be nil", domain.ErrValidation)
	}
	if horses == nil {
		return nil, domain.NewValidationError("horses", "cannot be nil", domain.ErrValidation)
	}
	if enrollments == nil {
		return nil, domain.NewValidationError("enrollments", "cannot be nil", domain.ErrValidation)
	}
	if engine == nil {
		return nil, domain.NewValidationError("engine", "cannot be nil", domain.ErrValidation)
	}
	if availability == nil {
		return nil, domain.NewValidationError("availability", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &enrollmentServiceImpl{
		db:           db,
		lessons:      lessons,
		riders:       riders,
		horses:       horses,
		enrollments:  enrollments,
		engine:       engine,
		availability: availability,
		cache:        cache,
		logger:       logger.With(slog.String("component", "enrollment_service")),
		runTx:        store.RunInSerializableTransaction,
	}, nil
}

// Enroll implements EnrollmentService.Enroll
func (s *enrollmentServiceImpl) Enroll(
	ctx context.Context,
	lessonID, riderID, horseID uuid.UUID,
) (*domain.Enrollment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("evaluating candidate enrollment",
		slog.String("lesson_id", lessonID.String()),
		slog.String("rider_id", riderID.String()),
		slog.String("horse_id", horseID.String()))

	var enrollment *domain.Enrollment
	attempt := func(ctx context.Context) error {
		enrollment = nil
		return s.runTx(
			ctx,
			s.db,
			func(ctx context.Context, tx *sql.Tx) error {
				created, err := s.enrollInTx(ctx, tx, lessonID, riderID, horseID)
				if err != nil {
					return err
				}
				enrollment = created
				return nil
			},
		)
	}

	err := attempt(ctx)
	if store.IsWriteConflict(err) {
		// A concurrent commit invalidated the snapshot. Retry the whole
		// evaluate-then-write sequence once; surface the conflict only
		// if the retry loses again.
		log.Info("write conflict during enrollment, retrying once",
			slog.String("lesson_id", lessonID.String()))
		err = attempt(ctx)
	}
	if err != nil {
		return nil, err
	}

	s.invalidateListings(ctx, log)

	log.Info("enrollment committed",
		slog.String("enrollment_id", enrollment.ID.String()),
		slog.String("lesson_id", lessonID.String()),
		slog.String("rider_id", riderID.String()),
		slog.String("horse_id", horseID.String()))
	return enrollment, nil
}

// enrollInTx runs the read-evaluate-write sequence for one candidate.
// All reads and the conditional write share the caller's serializable
// transaction.
func (s *enrollmentServiceImpl) enrollInTx(
	ctx context.Context,
	tx *sql.Tx,
	lessonID, riderID, horseID uuid.UUID,
) (*domain.Enrollment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	txLessons := s.lessons.WithTx(tx)
	txRiders := s.riders.WithTx(tx)
	txHorses := s.horses.WithTx(tx)
	txEnrollments := s.enrollments.WithTx(tx)

	lesson, err := txLessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, NewServiceError("create_enrollment", "failed to load lesson", err)
	}
	rider, err := txRiders.GetByID(ctx, riderID)
	if err != nil {
		return nil, NewServiceError("create_enrollment", "failed to load rider", err)
	}
	horse, err := txHorses.GetByID(ctx, horseID)
	if err != nil {
		return nil, NewServiceError("create_enrollment", "failed to load horse", err)
	}

	candidate := rules.Candidate{Lesson: lesson, Rider: rider, Horse: horse}
	snapshot, err := loadSnapshot(ctx, txEnrollments, candidate)
	if err != nil {
		return nil, NewServiceError("create_enrollment", "failed to load snapshot", err)
	}

	violations, err := s.engine.Evaluate(candidate, snapshot)
	if err != nil {
		return nil, NewServiceError("create_enrollment", "rule evaluation failed", err)
	}
	if !violations.Admitted() {
		log.Info("candidate enrollment rejected",
			slog.String("lesson_id", lessonID.String()),
			slog.String("rider_id", riderID.String()),
			slog.String("horse_id", horseID.String()),
			slog.Int("violations", len(violations)))
		return nil, rules.NewViolationError(violations)
	}

	enrollment, err := domain.NewEnrollment(lessonID, riderID, horseID)
	if err != nil {
		return nil, NewServiceError("create_enrollment", "failed to build enrollment", err)
	}
	if err := txEnrollments.Create(ctx, enrollment); err != nil {
		return nil, NewServiceError("create_enrollment", "failed to save enrollment", err)
	}

	if err := s.availability.Recompute(ctx, txHorses, txEnrollments, horseID); err != nil {
		return nil, err
	}

	return enrollment, nil
}

// Withdraw implements EnrollmentService.Withdraw
func (s *enrollmentServiceImpl) Withdraw(ctx context.Context, enrollmentID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	attempt := func(ctx context.Context) error {
		return s.runTx(ctx, s.db, s.withdrawInTx(enrollmentID))
	}

	err := attempt(ctx)
	if store.IsWriteConflict(err) {
		log.Info("write conflict during withdrawal, retrying once",
			slog.String("enrollment_id", enrollmentID.String()))
		err = attempt(ctx)
	}
	if err != nil {
		return err
	}

	s.invalidateListings(ctx, log)

	log.Info("enrollment withdrawn", slog.String("enrollment_id", enrollmentID.String()))
	return nil
}

// withdrawInTx builds the transaction body for one withdrawal: delete
// the enrollment, then recompute the affected horse's availability in
// the same transaction.
func (s *enrollmentServiceImpl) withdrawInTx(enrollmentID uuid.UUID) store.TxFn {
	return func(ctx context.Context, tx *sql.Tx) error {
		txHorses := s.horses.WithTx(tx)
		txEnrollments := s.enrollments.WithTx(tx)

		enrollment, err := txEnrollments.GetByID(ctx, enrollmentID)
		if err != nil {
			if errors.Is(err, store.ErrEnrollmentNotFound) {
				return err
			}
			return NewServiceError("delete_enrollment", "failed to load enrollment", err)
		}

		if err := txEnrollments.Delete(ctx, enrollmentID); err != nil {
			return NewServiceError("delete_enrollment", "failed to delete enrollment", err)
		}

		// Removing a session can flip the horse back to available.
		return s.availability.Recompute(ctx, txHorses, txEnrollments, enrollment.HorseID)
	}
}

func (s *enrollmentServiceImpl) invalidateListings(ctx context.Context, log *slog.Logger) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateListings(ctx); err != nil {
		log.Warn("failed to invalidate listing cache",
			slog.String("error", err.Error()))
	}
}

// loadSnapshot reads every enrollment subset one admission decision
// depends on. The enrollment store must be transaction-bound so all
// three queries see the same state.
func loadSnapshot(
	ctx context.Context,
	enrollments store.EnrollmentStore,
	c rules.Candidate,
) (*rules.Snapshot, error) {
	lessonEnrollments, err := enrollments.ForLesson(ctx, c.Lesson.ID)
	if err != nil {
		return nil, err
	}

	snapshot := &rules.Snapshot{LessonEnrollments: lessonEnrollments}

	if c.Horse != nil {
		horseDay, err := enrollments.ForHorseOnDay(ctx, c.Horse.ID, c.Lesson.Day)
		if err != nil {
			return nil, err
		}
		snapshot.HorseDay = toEntries(horseDay)
	}

	if c.Rider != nil {
		riderWeek, err := enrollments.ForRiderInWeek(ctx, c.Rider.ID)
		if err != nil {
			return nil, err
		}
		snapshot.RiderWeek = toEntries(riderWeek)
	}

	return snapshot, nil
}

func toEntries(pairs []store.LessonEnrollment) []rules.Entry {
	entries := make([]rules.Entry, 0, len(pairs))
	for _, p := range pairs {
		entries = append(entries, rules.Entry{Enrollment: p.Enrollment, Lesson: p.Lesson})
	}
	return entries
}
