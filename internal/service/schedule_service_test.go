package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tbonnin/stable-api/internal/domain"
	"github.com/tbonnin/stable-api/internal/domain/rules"
	"github.com/tbonnin/stable-api/internal/platform/rediscache"
	"github.com/tbonnin/stable-api/internal/store"
)

type scheduleFixture struct {
	lessons     *mockLessonStore
	riders      *mockRiderStore
	horses      *mockHorseStore
	enrollments *mockEnrollmentStore
	cache       *mockListingCache
	svc         ScheduleService
}

func newScheduleFixture(t *testing.T, cache ListingCache) *scheduleFixture {
	t.Helper()

	f := &scheduleFixture{
		lessons:     new(mockLessonStore),
		riders:      new(mockRiderStore),
		horses:      new(mockHorseStore),
		enrollments: new(mockEnrollmentStore),
	}
	if c, ok := cache.(*mockListingCache); ok {
		f.cache = c
	}

	svc, err := NewScheduleService(
		f.lessons, f.riders, f.horses, f.enrollments,
		rules.NewEngine(), cache, nil,
	)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestNewScheduleServiceValidation(t *testing.T) {
	_, err := NewScheduleService(nil, new(mockRiderStore), new(mockHorseStore), new(mockEnrollmentStore), rules.NewEngine(), nil, nil)
	assert.Error(t, err)

	_, err = NewScheduleService(new(mockLessonStore), new(mockRiderStore), new(mockHorseStore), new(mockEnrollmentStore), nil, nil, nil)
	assert.Error(t, err)
}

func TestListOpenLessonsFiltersFullLessons(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture(t, nil)

	open := buildLesson(t, domain.LevelNovice, domain.Monday, 9, 10)
	full := buildLesson(t, domain.LevelNovice, domain.Monday, 10, 11)

	enrollments := make([]*domain.Enrollment, 5)
	for i := range enrollments {
		enrollments[i] = &domain.Enrollment{ID: uuid.New(), LessonID: full.ID, RiderID: uuid.New(), HorseID: uuid.New()}
	}

	f.lessons.On("List", ctx).Return([]*domain.Lesson{open, full}, nil)
	f.enrollments.On("ForLesson", ctx, open.ID).Return([]*domain.Enrollment{}, nil)
	f.enrollments.On("ForLesson", ctx, full.ID).Return(enrollments, nil)

	got, err := f.svc.ListOpenLessons(ctx)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, open.ID, got[0].ID)
}

func TestListOpenLessonsServedFromCache(t *testing.T) {
	ctx := context.Background()
	cache := new(mockListingCache)
	f := newScheduleFixture(t, cache)

	cached := buildLesson(t, domain.LevelAdvanced, domain.Friday, 17, 18)
	cache.On("Get", ctx, rediscache.OpenLessonsKey(), mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*[]*domain.Lesson)
			*dest = []*domain.Lesson{cached}
		}).
		Return(nil)

	got, err := f.svc.ListOpenLessons(ctx)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cached.ID, got[0].ID)
	f.lessons.AssertNotCalled(t, "List", mock.Anything)
}

func TestListOpenLessonsPopulatesCacheOnMiss(t *testing.T) {
	ctx := context.Background()
	cache := new(mockListingCache)
	f := newScheduleFixture(t, cache)

	lesson := buildLesson(t, domain.LevelNovice, domain.Monday, 9, 10)
	cache.On("Get", ctx, rediscache.OpenLessonsKey(), mock.Anything).Return(rediscache.ErrCacheMiss)
	f.lessons.On("List", ctx).Return([]*domain.Lesson{lesson}, nil)
	f.enrollments.On("ForLesson", ctx, lesson.ID).Return([]*domain.Enrollment{}, nil)
	cache.On("Set", ctx, rediscache.OpenLessonsKey(), mock.Anything).Return(nil)

	got, err := f.svc.ListOpenLessons(ctx)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	cache.AssertExpectations(t)
}

func TestListAvailableHorses(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture(t, nil)

	rested := buildHorse(t, "Quartz", 10)
	tired := buildHorse(t, "Tornado", 12)
	tired.ApplyWorkload(9, 8) // derived availability off
	busy := buildHorse(t, "Bijou", 8)

	bookings := func(n int) []store.LessonEnrollment {
		out := make([]store.LessonEnrollment, n)
		for i := range out {
			l := buildLesson(t, domain.LevelNovice, domain.Monday, 9+i, 10+i)
			out[i] = store.LessonEnrollment{
				Enrollment: &domain.Enrollment{ID: uuid.New(), LessonID: l.ID, RiderID: uuid.New(), HorseID: busy.ID},
				Lesson:     l,
			}
		}
		return out
	}

	f.horses.On("List", ctx).Return([]*domain.Horse{rested, tired, busy}, nil)
	f.enrollments.On("ForHorseOnDay", ctx, rested.ID, domain.Monday).Return([]store.LessonEnrollment{}, nil)
	f.enrollments.On("ForHorseOnDay", ctx, busy.ID, domain.Monday).Return(bookings(2), nil)

	got, err := f.svc.ListAvailableHorses(ctx, domain.Monday)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rested.ID, got[0].ID)
	// The unavailable horse is filtered before any booking lookup.
	f.enrollments.AssertNotCalled(t, "ForHorseOnDay", ctx, tired.ID, domain.Monday)
}

func TestListAvailableHorsesRejectsUnknownDay(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture(t, nil)

	_, err := f.svc.ListAvailableHorses(ctx, domain.Weekday("sunday"))

	assert.ErrorIs(t, err, domain.ErrInvalidWeekday)
}

func TestListCandidateHorsesAppliesHorseRules(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture(t, nil)

	lesson := buildLesson(t, domain.LevelNovice, domain.Monday, 9, 10)
	free := buildHorse(t, "Quartz", 10)
	mounted := buildHorse(t, "Bijou", 8)

	f.lessons.On("GetByID", ctx, lesson.ID).Return(lesson, nil)
	f.horses.On("List", ctx).Return([]*domain.Horse{free, mounted}, nil)

	// Bijou is already mounted in the lesson.
	f.enrollments.On("ForLesson", ctx, lesson.ID).Return([]*domain.Enrollment{
		{ID: uuid.New(), LessonID: lesson.ID, RiderID: uuid.New(), HorseID: mounted.ID},
	}, nil)
	f.enrollments.On("ForHorseOnDay", ctx, free.ID, domain.Monday).Return([]store.LessonEnrollment{}, nil)
	f.enrollments.On("ForHorseOnDay", ctx, mounted.ID, domain.Monday).Return([]store.LessonEnrollment{}, nil)

	got, err := f.svc.ListCandidateHorses(ctx, lesson.ID)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, free.ID, got[0].ID)
}

func TestListCandidateHorsesKeepsYoungHorseOutOfCompetition(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture(t, nil)

	competition := buildLesson(t, domain.LevelCompetition, domain.Saturday, 14, 15)
	young := buildHorse(t, "Poulain", 4)
	adult := buildHorse(t, "Quartz", 10)

	f.lessons.On("GetByID", ctx, competition.ID).Return(competition, nil)
	f.horses.On("List", ctx).Return([]*domain.Horse{young, adult}, nil)
	f.enrollments.On("ForLesson", ctx, competition.ID).Return([]*domain.Enrollment{}, nil)
	f.enrollments.On("ForHorseOnDay", ctx, mock.Anything, domain.Saturday).Return([]store.LessonEnrollment{}, nil)

	got, err := f.svc.ListCandidateHorses(ctx, competition.ID)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, adult.ID, got[0].ID)
}

func TestListCandidateRidersAppliesRiderRules(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture(t, nil)

	lesson := buildLesson(t, domain.LevelNovice, domain.Monday, 9, 10)
	freeRider := buildRider(t, "Julie")
	maxedRider := buildRider(t, "Marc")

	week := make([]store.LessonEnrollment, 4)
	for i := range week {
		l := buildLesson(t, domain.LevelNovice, domain.Wednesday, 9+i, 10+i)
		week[i] = store.LessonEnrollment{
			Enrollment: &domain.Enrollment{ID: uuid.New(), LessonID: l.ID, RiderID: maxedRider.ID, HorseID: uuid.New()},
			Lesson:     l,
		}
	}

	f.lessons.On("GetByID", ctx, lesson.ID).Return(lesson, nil)
	f.riders.On("List", ctx).Return([]*domain.Rider{freeRider, maxedRider}, nil)
	f.enrollments.On("ForLesson", ctx, lesson.ID).Return([]*domain.Enrollment{}, nil)
	f.enrollments.On("ForRiderInWeek", ctx, freeRider.ID).Return([]store.LessonEnrollment{}, nil)
	f.enrollments.On("ForRiderInWeek", ctx, maxedRider.ID).Return(week, nil)

	got, err := f.svc.ListCandidateRiders(ctx, lesson.ID)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, freeRider.ID, got[0].ID)
}

func TestListCandidateRidersExcludesAlreadyEnrolled(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture(t, nil)

	lesson := buildLesson(t, domain.LevelNovice, domain.Monday, 9, 10)
	newcomer := buildRider(t, "Julie")
	enrolled := buildRider(t, "Marc")

	// Marc is already in the lesson on some horse; listing him again
	// would offer an enrollment the insert is guaranteed to reject.
	f.lessons.On("GetByID", ctx, lesson.ID).Return(lesson, nil)
	f.riders.On("List", ctx).Return([]*domain.Rider{newcomer, enrolled}, nil)
	f.enrollments.On("ForLesson", ctx, lesson.ID).Return([]*domain.Enrollment{
		{ID: uuid.New(), LessonID: lesson.ID, RiderID: enrolled.ID, HorseID: uuid.New()},
	}, nil)
	f.enrollments.On("ForRiderInWeek", ctx, mock.Anything).Return([]store.LessonEnrollment{}, nil)

	got, err := f.svc.ListCandidateRiders(ctx, lesson.ID)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, newcomer.ID, got[0].ID)
}

func TestListCandidateRidersBarsBeginnerFromCompetition(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture(t, nil)

	competition := buildLesson(t, domain.LevelCompetition, domain.Saturday, 14, 15)
	beginner := buildRider(t, "Marc")

	beginnerLesson := buildLesson(t, domain.LevelBeginner, domain.Monday, 9, 10)
	week := []store.LessonEnrollment{{
		Enrollment: &domain.Enrollment{ID: uuid.New(), LessonID: beginnerLesson.ID, RiderID: beginner.ID, HorseID: uuid.New()},
		Lesson:     beginnerLesson,
	}}

	f.lessons.On("GetByID", ctx, competition.ID).Return(competition, nil)
	f.riders.On("List", ctx).Return([]*domain.Rider{beginner}, nil)
	f.enrollments.On("ForLesson", ctx, competition.ID).Return([]*domain.Enrollment{}, nil)
	f.enrollments.On("ForRiderInWeek", ctx, beginner.ID).Return(week, nil)

	got, err := f.svc.ListCandidateRiders(ctx, competition.ID)

	require.NoError(t, err)
	assert.Empty(t, got)
}
