package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tbonnin/stable-api/internal/domain"
	"github.com/tbonnin/stable-api/internal/store"
)

// mockLessonStore mocks the store.LessonStore interface
type mockLessonStore struct {
	mock.Mock
}

func (m *mockLessonStore) Create(ctx context.Context, lesson *domain.Lesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}

func (m *mockLessonStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lesson), args.Error(1)
}

func (m *mockLessonStore) List(ctx context.Context) ([]*domain.Lesson, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Lesson), args.Error(1)
}

func (m *mockLessonStore) ListByDay(ctx context.Context, day domain.Weekday) ([]*domain.Lesson, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Lesson), args.Error(1)
}

func (m *mockLessonStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockLessonStore) WithTx(tx *sql.Tx) store.LessonStore {
	return m
}

// mockRiderStore mocks the store.RiderStore interface
type mockRiderStore struct {
	mock.Mock
}

func (m *mockRiderStore) Create(ctx context.Context, rider *domain.Rider) error {
	args := m.Called(ctx, rider)
	return args.Error(0)
}

func (m *mockRiderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rider), args.Error(1)
}

func (m *mockRiderStore) List(ctx context.Context) ([]*domain.Rider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rider), args.Error(1)
}

func (m *mockRiderStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRiderStore) WithTx(tx *sql.Tx) store.RiderStore {
	return m
}

// mockHorseStore mocks the store.HorseStore interface
type mockHorseStore struct {
	mock.Mock
}

func (m *mockHorseStore) Create(ctx context.Context, horse *domain.Horse) error {
	args := m.Called(ctx, horse)
	return args.Error(0)
}

func (m *mockHorseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Horse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Horse), args.Error(1)
}

func (m *mockHorseStore) List(ctx context.Context) ([]*domain.Horse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Horse), args.Error(1)
}

func (m *mockHorseStore) UpdateWorkload(
	ctx context.Context,
	id uuid.UUID,
	workSessions int,
	available bool,
) error {
	args := m.Called(ctx, id, workSessions, available)
	return args.Error(0)
}

func (m *mockHorseStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockHorseStore) WithTx(tx *sql.Tx) store.HorseStore {
	return m
}

// mockEnrollmentStore mocks the store.EnrollmentStore interface
type mockEnrollmentStore struct {
	mock.Mock
}

func (m *mockEnrollmentStore) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *mockEnrollmentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Enrollment), args.Error(1)
}

func (m *mockEnrollmentStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockEnrollmentStore) ForLesson(
	ctx context.Context,
	lessonID uuid.UUID,
) ([]*domain.Enrollment, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Enrollment), args.Error(1)
}

func (m *mockEnrollmentStore) ForHorseOnDay(
	ctx context.Context,
	horseID uuid.UUID,
	day domain.Weekday,
) ([]store.LessonEnrollment, error) {
	args := m.Called(ctx, horseID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.LessonEnrollment), args.Error(1)
}

func (m *mockEnrollmentStore) ForRiderOnDay(
	ctx context.Context,
	riderID uuid.UUID,
	day domain.Weekday,
) ([]store.LessonEnrollment, error) {
	args := m.Called(ctx, riderID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.LessonEnrollment), args.Error(1)
}

func (m *mockEnrollmentStore) ForRiderInWeek(
	ctx context.Context,
	riderID uuid.UUID,
) ([]store.LessonEnrollment, error) {
	args := m.Called(ctx, riderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.LessonEnrollment), args.Error(1)
}

func (m *mockEnrollmentStore) OverlappingForHorse(
	ctx context.Context,
	horseID uuid.UUID,
	day domain.Weekday,
	start, end domain.TimeOfDay,
) ([]store.LessonEnrollment, error) {
	args := m.Called(ctx, horseID, day, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.LessonEnrollment), args.Error(1)
}

func (m *mockEnrollmentStore) CountForHorse(ctx context.Context, horseID uuid.UUID) (int, error) {
	args := m.Called(ctx, horseID)
	return args.Int(0), args.Error(1)
}

func (m *mockEnrollmentStore) WithTx(tx *sql.Tx) store.EnrollmentStore {
	return m
}

// mockListingCache mocks the ListingCache and ListingInvalidator
// interfaces
type mockListingCache struct {
	mock.Mock
}

func (m *mockListingCache) Get(ctx context.Context, key string, dest any) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *mockListingCache) Set(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *mockListingCache) InvalidateListings(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
