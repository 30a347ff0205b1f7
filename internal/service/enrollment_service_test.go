package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tbonnin/stable-api/internal/domain"
	"github.com/tbonnin/stable-api/internal/domain/rules"
	"github.com/tbonnin/stable-api/internal/store"
)

// testDB returns a lazily-connected handle. The transactional bodies are
// tested directly with mock stores, so no query ever reaches it.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", "postgres://localhost/unused")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type serviceFixture struct {
	lessons     *mockLessonStore
	riders      *mockRiderStore
	horses      *mockHorseStore
	enrollments *mockEnrollmentStore
	svc         *enrollmentServiceImpl
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		lessons:     new(mockLessonStore),
		riders:      new(mockRiderStore),
		horses:      new(mockHorseStore),
		enrollments: new(mockEnrollmentStore),
	}

	svc, err := NewEnrollmentService(
		testDB(t),
		f.lessons,
		f.riders,
		f.horses,
		f.enrollments,
		rules.NewEngine(),
		NewAvailabilityCalculator(8, nil),
		nil,
		slog.Default(),
	)
	require.NoError(t, err)

	impl, ok := svc.(*enrollmentServiceImpl)
	require.True(t, ok)
	f.svc = impl
	return f
}

func buildLesson(t *testing.T, level domain.Level, day domain.Weekday, startHour, endHour int) *domain.Lesson {
	t.Helper()
	lesson, err := domain.NewLesson(level, day, domain.TimeOfDay(startHour*60), domain.TimeOfDay(endHour*60))
	require.NoError(t, err)
	return lesson
}

func buildHorse(t *testing.T, name string, age int) *domain.Horse {
	t.Helper()
	horse, err := domain.NewHorse(name, "Selle Français", age)
	require.NoError(t, err)
	return horse
}

func buildRider(t *testing.T, firstName string) *domain.Rider {
	t.Helper()
	rider, err := domain.NewRider("Martin", firstName, 25, "")
	require.NoError(t, err)
	return rider
}

func TestNewEnrollmentService(t *testing.T) {
	lessons := new(mockLessonStore)
	riders := new(mockRiderStore)
	horses := new(mockHorseStore)
	enrollments := new(mockEnrollmentStore)
	engine := rules.NewEngine()
	calc := NewAvailabilityCalculator(8, nil)
	db := testDB(t)

	tests := []struct {
		name        string
		db          *sql.DB
		lessons     store.LessonStore
		riders      store.RiderStore
		horses      store.HorseStore
		enrollments store.EnrollmentStore
		engine      rules.Engine
		calc        *AvailabilityCalculator
		errorMsg    string
	}{
		{"nil db", nil, lessons, riders, horses, enrollments, engine, calc, "db"},
		{"nil lessons", db, nil, riders, horses, enrollments, engine, calc, "lessons"},
		{"nil riders", db, lessons, nil, horses, enrollments, engine, calc, "riders"},
		{"nil horses", db, lessons, riders, nil, enrollments, engine, calc, "horses"},
		{"nil enrollments", db, lessons, riders, horses, nil, engine, calc, "enrollments"},
		{"nil engine", db, lessons, riders, horses, enrollments, nil, calc, "engine"},
		{"nil availability", db, lessons, riders, horses, enrollments, engine, nil, "availability"},
		{"all provided", db, lessons, riders, horses, enrollments, engine, calc, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewEnrollmentService(
				tt.db, tt.lessons, tt.riders, tt.horses, tt.enrollments,
				tt.engine, tt.calc, nil, nil,
			)

			if tt.errorMsg != "" {
				assert.Error(t, err)
				assert.Nil(t, svc)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestEnrollInTxAdmitsAndRecomputesAvailability(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	lesson := buildLesson(t, domain.LevelNovice, domain.Monday, 9, 10)
	rider := buildRider(t, "Julie")
	horse := buildHorse(t, "Quartz", 10)

	f.lessons.On("GetByID", ctx, lesson.ID).Return(lesson, nil)
	f.riders.On("GetByID", ctx, rider.ID).Return(rider, nil)
	f.horses.On("GetByID", ctx, horse.ID).Return(horse, nil)
	f.enrollments.On("ForLesson", ctx, lesson.ID).Return([]*domain.Enrollment{}, nil)
	f.enrollments.On("ForHorseOnDay", ctx, horse.ID, domain.Monday).Return([]store.LessonEnrollment{}, nil)
	f.enrollments.On("ForRiderInWeek", ctx, rider.ID).Return([]store.LessonEnrollment{}, nil)
	f.enrollments.On("Create", ctx, mock.AnythingOfType("*domain.Enrollment")).Return(nil)
	f.enrollments.On("CountForHorse", ctx, horse.ID).Return(1, nil)
	f.horses.On("UpdateWorkload", ctx, horse.ID, 1, true).Return(nil)

	enrollment, err := f.svc.enrollInTx(ctx, nil, lesson.ID, rider.ID, horse.ID)

	require.NoError(t, err)
	require.NotNil(t, enrollment)
	assert.Equal(t, lesson.ID, enrollment.LessonID)
	assert.Equal(t, rider.ID, enrollment.RiderID)
	assert.Equal(t, horse.ID, enrollment.HorseID)
	f.enrollments.AssertExpectations(t)
	f.horses.AssertExpectations(t)
}

func TestEnrollInTxCollectsEveryViolation(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	lesson := buildLesson(t, domain.LevelNovice, domain.Monday, 9, 10)
	rider := buildRider(t, "Julie")
	horse := buildHorse(t, "Quartz", 10)

	// Lesson is full and the rider is at the weekly quota.
	full := make([]*domain.Enrollment, 5)
	for i := range full {
		full[i] = &domain.Enrollment{ID: uuid.New(), LessonID: lesson.ID, RiderID: uuid.New(), HorseID: uuid.New()}
	}
	week := make([]store.LessonEnrollment, 4)
	for i := range week {
		other := buildLesson(t, domain.LevelNovice, domain.Tuesday, 9+i, 10+i)
		week[i] = store.LessonEnrollment{
			Enrollment: &domain.Enrollment{ID: uuid.New(), LessonID: other.ID, RiderID: rider.ID, HorseID: uuid.New()},
			Lesson:     other,
		}
	}

	f.lessons.On("GetByID", ctx, lesson.ID).Return(lesson, nil)
	f.riders.On("GetByID", ctx, rider.ID).Return(rider, nil)
	f.horses.On("GetByID", ctx, horse.ID).Return(horse, nil)
	f.enrollments.On("ForLesson", ctx, lesson.ID).Return(full, nil)
	f.enrollments.On("ForHorseOnDay", ctx, horse.ID, domain.Monday).Return([]store.LessonEnrollment{}, nil)
	f.enrollments.On("ForRiderInWeek", ctx, rider.ID).Return(week, nil)

	enrollment, err := f.svc.enrollInTx(ctx, nil, lesson.ID, rider.ID, horse.ID)

	require.Error(t, err)
	assert.Nil(t, enrollment)

	var verr *rules.ViolationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Violations, 2)
	assert.True(t, verr.Violations.Has(rules.LessonCapacity))
	assert.True(t, verr.Violations.Has(rules.RiderWeeklyCap))

	f.enrollments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.horses.AssertNotCalled(t, "UpdateWorkload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnrollInTxSurfacesMissingEntities(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	lessonID := uuid.New()
	f.lessons.On("GetByID", ctx, lessonID).Return(nil, store.ErrLessonNotFound)

	enrollment, err := f.svc.enrollInTx(ctx, nil, lessonID, uuid.New(), uuid.New())

	require.Error(t, err)
	assert.Nil(t, enrollment)
	assert.True(t, errors.Is(err, store.ErrLessonNotFound))
	assert.True(t, store.IsNotFoundError(err))
}

func TestWithdrawInTxDeletesAndRecomputes(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	horse := buildHorse(t, "Quartz", 10)
	enrollment := &domain.Enrollment{
		ID:       uuid.New(),
		LessonID: uuid.New(),
		RiderID:  uuid.New(),
		HorseID:  horse.ID,
	}

	f.enrollments.On("GetByID", ctx, enrollment.ID).Return(enrollment, nil)
	f.enrollments.On("Delete", ctx, enrollment.ID).Return(nil)
	f.enrollments.On("CountForHorse", ctx, horse.ID).Return(8, nil)
	f.horses.On("GetByID", ctx, horse.ID).Return(horse, nil)
	f.horses.On("UpdateWorkload", ctx, horse.ID, 8, true).Return(nil)

	err := f.svc.withdrawInTx(enrollment.ID)(ctx, nil)

	assert.NoError(t, err)
	f.enrollments.AssertExpectations(t)
	f.horses.AssertExpectations(t)
}

func TestEnrollRetriesOnceOnWriteConflict(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	lesson := buildLesson(t, domain.LevelNovice, domain.Monday, 9, 10)
	rider := buildRider(t, "Julie")
	horse := buildHorse(t, "Quartz", 10)

	f.lessons.On("GetByID", ctx, lesson.ID).Return(lesson, nil)
	f.riders.On("GetByID", ctx, rider.ID).Return(rider, nil)
	f.horses.On("GetByID", ctx, horse.ID).Return(horse, nil)
	f.enrollments.On("ForLesson", ctx, lesson.ID).Return([]*domain.Enrollment{}, nil)
	f.enrollments.On("ForHorseOnDay", ctx, horse.ID, domain.Monday).Return([]store.LessonEnrollment{}, nil)
	f.enrollments.On("ForRiderInWeek", ctx, rider.ID).Return([]store.LessonEnrollment{}, nil)
	f.enrollments.On("Create", ctx, mock.AnythingOfType("*domain.Enrollment")).Return(nil)
	f.enrollments.On("CountForHorse", ctx, horse.ID).Return(1, nil)
	f.horses.On("UpdateWorkload", ctx, horse.ID, 1, true).Return(nil)

	// The first attempt loses the serialization race; the second commits.
	attempts := 0
	f.svc.runTx = func(ctx context.Context, _ *sql.DB, fn store.TxFn) error {
		attempts++
		if attempts == 1 {
			return store.ErrWriteConflict
		}
		return fn(ctx, nil)
	}

	enrollment, err := f.svc.Enroll(ctx, lesson.ID, rider.ID, horse.ID)

	require.NoError(t, err)
	require.NotNil(t, enrollment)
	assert.Equal(t, 2, attempts)
	f.enrollments.AssertNumberOfCalls(t, "Create", 1)
}

func TestEnrollSurfacesConflictWhenRetryLoses(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	attempts := 0
	f.svc.runTx = func(context.Context, *sql.DB, store.TxFn) error {
		attempts++
		return store.ErrWriteConflict
	}

	enrollment, err := f.svc.Enroll(ctx, uuid.New(), uuid.New(), uuid.New())

	require.Error(t, err)
	assert.Nil(t, enrollment)
	assert.True(t, store.IsWriteConflict(err))
	assert.Equal(t, 2, attempts)
	f.enrollments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWithdrawRetriesOnceOnWriteConflict(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	horse := buildHorse(t, "Quartz", 10)
	enrollment := &domain.Enrollment{
		ID:       uuid.New(),
		LessonID: uuid.New(),
		RiderID:  uuid.New(),
		HorseID:  horse.ID,
	}

	f.enrollments.On("GetByID", ctx, enrollment.ID).Return(enrollment, nil)
	f.enrollments.On("Delete", ctx, enrollment.ID).Return(nil)
	f.enrollments.On("CountForHorse", ctx, horse.ID).Return(0, nil)
	f.horses.On("GetByID", ctx, horse.ID).Return(horse, nil)
	f.horses.On("UpdateWorkload", ctx, horse.ID, 0, true).Return(nil)

	attempts := 0
	f.svc.runTx = func(ctx context.Context, _ *sql.DB, fn store.TxFn) error {
		attempts++
		if attempts == 1 {
			return store.ErrWriteConflict
		}
		return fn(ctx, nil)
	}

	err := f.svc.Withdraw(ctx, enrollment.ID)

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	f.enrollments.AssertNumberOfCalls(t, "Delete", 1)
}

func TestWithdrawSurfacesConflictWhenRetryLoses(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	attempts := 0
	f.svc.runTx = func(context.Context, *sql.DB, store.TxFn) error {
		attempts++
		return store.ErrWriteConflict
	}

	err := f.svc.Withdraw(ctx, uuid.New())

	require.Error(t, err)
	assert.True(t, store.IsWriteConflict(err))
	assert.Equal(t, 2, attempts)
}

// A withdrawal restores the state the admission was decided under, so
// enrolling the same rider and horse again must be admitted again.
func TestWithdrawThenEnrollAgainReadmits(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	lesson := buildLesson(t, domain.LevelNovice, domain.Monday, 9, 10)
	rider := buildRider(t, "Julie")
	horse := buildHorse(t, "Quartz", 10)

	f.lessons.On("GetByID", ctx, lesson.ID).Return(lesson, nil)
	f.riders.On("GetByID", ctx, rider.ID).Return(rider, nil)
	f.horses.On("GetByID", ctx, horse.ID).Return(horse, nil)
	f.enrollments.On("ForLesson", ctx, lesson.ID).Return([]*domain.Enrollment{}, nil)
	f.enrollments.On("ForHorseOnDay", ctx, horse.ID, domain.Monday).Return([]store.LessonEnrollment{}, nil)
	f.enrollments.On("ForRiderInWeek", ctx, rider.ID).Return([]store.LessonEnrollment{}, nil)
	f.enrollments.On("Create", ctx, mock.AnythingOfType("*domain.Enrollment")).Return(nil)
	f.enrollments.On("CountForHorse", ctx, horse.ID).Return(1, nil)
	f.horses.On("UpdateWorkload", ctx, horse.ID, 1, true).Return(nil)

	first, err := f.svc.enrollInTx(ctx, nil, lesson.ID, rider.ID, horse.ID)
	require.NoError(t, err)

	f.enrollments.On("GetByID", ctx, first.ID).Return(first, nil)
	f.enrollments.On("Delete", ctx, first.ID).Return(nil)
	require.NoError(t, f.svc.withdrawInTx(first.ID)(ctx, nil))

	second, err := f.svc.enrollInTx(ctx, nil, lesson.ID, rider.ID, horse.ID)

	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.LessonID, second.LessonID)
	assert.Equal(t, first.RiderID, second.RiderID)
	assert.Equal(t, first.HorseID, second.HorseID)
	f.enrollments.AssertNumberOfCalls(t, "Create", 2)
	f.enrollments.AssertNumberOfCalls(t, "Delete", 1)
}

func TestWithdrawInTxMissingEnrollment(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	id := uuid.New()
	f.enrollments.On("GetByID", ctx, id).Return(nil, store.ErrEnrollmentNotFound)

	err := f.svc.withdrawInTx(id)(ctx, nil)

	assert.True(t, errors.Is(err, store.ErrEnrollmentNotFound))
	f.enrollments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
