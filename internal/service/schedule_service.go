package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tbonnin/stable-api/internal/domain"
	"github.com/tbonnin/stable-api/internal/domain/rules"
	"github.com/tbonnin/stable-api/internal/platform/logger"
	"github.com/tbonnin/stable-api/internal/platform/rediscache"
	"github.com/tbonnin/stable-api/internal/store"
)

// horseRules are the predicates a candidate horse can already fail
// without knowing the rider. Lesson capacity is reported separately by
// the open-lessons listing, so it is not repeated here.
var horseRules = []rules.Name{
	rules.HorseUniqueInLesson,
	rules.HorseDailyCap,
	rules.HorseSlotOverlap,
	rules.YoungHorse,
}

// riderRules are the predicates a candidate rider can already fail
// without knowing the horse.
var riderRules = []rules.Name{
	rules.RiderUniqueInLesson,
	rules.RiderDailyHorses,
	rules.LevelProgression,
	rules.RiderWeeklyCap,
}

// ListingCache abstracts the optional Redis cache in front of the
// read-only listings. Cached reads may be stale up to the cache TTL;
// admission decisions never go through it.
type ListingCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
}

// ScheduleService provides the read-only listing projections. The
// candidate listings apply the constraint engine's own predicates, so a
// listed entity can never be one the engine would reject for the rules
// that are decidable without its counterpart.
type ScheduleService interface {
	// ListLessons retrieves all lessons in schedule order.
	ListLessons(ctx context.Context) ([]*domain.Lesson, error)

	// ListOpenLessons retrieves the lessons that still have capacity.
	ListOpenLessons(ctx context.Context) ([]*domain.Lesson, error)

	// ListHorses retrieves all horses.
	ListHorses(ctx context.Context) ([]*domain.Horse, error)

	// ListAvailableHorses retrieves the horses that are available and
	// still under their daily booking cap on the given day.
	ListAvailableHorses(ctx context.Context, day domain.Weekday) ([]*domain.Horse, error)

	// ListCandidateHorses retrieves the horses admissible for the
	// lesson under the horse-scoped rules.
	ListCandidateHorses(ctx context.Context, lessonID uuid.UUID) ([]*domain.Horse, error)

	// ListCandidateRiders retrieves the riders admissible for the
	// lesson under the rider-scoped rules.
	ListCandidateRiders(ctx context.Context, lessonID uuid.UUID) ([]*domain.Rider, error)
}

type scheduleServiceImpl struct {
	lessons     store.LessonStore
	riders      store.RiderStore
	horses      store.HorseStore
	enrollments store.EnrollmentStore
	engine      rules.Engine
	cache       ListingCache
	logger      *slog.Logger
}

// NewScheduleService creates a new ScheduleService.
// It returns an error if any of the required dependencies are nil.
// The cache is optional; pass nil to read straight from the store.
func NewScheduleService(
	lessons store.LessonStore,
	riders store.RiderStore,
	horses store.HorseStore,
	enrollments store.EnrollmentStore,
	engine rules.Engine,
	cache ListingCache,
	logger *slog.Logger,
) (ScheduleService, error) {
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
	if logger == nil {
		logger = slog.Default()
	}

	return &scheduleServiceImpl{
		lessons:     lessons,
		riders:      riders,
		horses:      horses,
		enrollments: enrollments,
		engine:      engine,
		cache:       cache,
		logger:      logger.With(slog.String("component", "schedule_service")),
	}, nil
}

// ListLessons implements ScheduleService.ListLessons
func (s *scheduleServiceImpl) ListLessons(ctx context.Context) ([]*domain.Lesson, error) {
	lessons, err := s.lessons.List(ctx)
	if err != nil {
		return nil, NewServiceError("list_lessons", "failed to list lessons", err)
	}
	return lessons, nil
}

// ListOpenLessons implements ScheduleService.ListOpenLessons
func (s *scheduleServiceImpl) ListOpenLessons(ctx context.Context) ([]*domain.Lesson, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var cached []*domain.Lesson
	if s.cacheGet(ctx, log, rediscache.OpenLessonsKey(), &cached) {
		return cached, nil
	}

	lessons, err := s.lessons.List(ctx)
	if err != nil {
		return nil, NewServiceError("list_open_lessons", "failed to list lessons", err)
	}

	capacity := s.engine.Config().Limits.LessonCapacity
	open := []*domain.Lesson{}
	for _, lesson := range lessons {
		enrollments, err := s.enrollments.ForLesson(ctx, lesson.ID)
		if err != nil {
			return nil, NewServiceError("list_open_lessons", "failed to count enrollments", err)
		}
		if len(enrollments) < capacity {
			open = append(open, lesson)
		}
	}

	s.cacheSet(ctx, log, rediscache.OpenLessonsKey(), open)
	return open, nil
}

// ListHorses implements ScheduleService.ListHorses
func (s *scheduleServiceImpl) ListHorses(ctx context.Context) ([]*domain.Horse, error) {
	horses, err := s.horses.List(ctx)
	if err != nil {
		return nil, NewServiceError("list_horses", "failed to list horses", err)
	}
	return horses, nil
}

// ListAvailableHorses implements ScheduleService.ListAvailableHorses
// A horse is listed when its derived availability holds and it is still
// under the daily booking cap on the given day.
func (s *scheduleServiceImpl) ListAvailableHorses(
	ctx context.Context,
	day domain.Weekday,
) ([]*domain.Horse, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !day.Valid() {
		return nil, domain.NewValidationError("day", "unknown weekday", domain.ErrInvalidWeekday)
	}

	var cached []*domain.Horse
	if s.cacheGet(ctx, log, rediscache.AvailableHorsesKey(day.String()), &cached) {
		return cached, nil
	}

	horses, err := s.horses.List(ctx)
	if err != nil {
		return nil, NewServiceError("list_available_horses", "failed to list horses", err)
	}

	dailyCap := s.engine.Config().Limits.HorseDailyCap
	available := []*domain.Horse{}
	for _, horse := range horses {
		if !horse.Available {
			continue
		}
		bookings, err := s.enrollments.ForHorseOnDay(ctx, horse.ID, day)
		if err != nil {
			return nil, NewServiceError("list_available_horses", "failed to load horse bookings", err)
		}
		if len(bookings) < dailyCap {
			available = append(available, horse)
		}
	}

	s.cacheSet(ctx, log, rediscache.AvailableHorsesKey(day.String()), available)
	return available, nil
}

// ListCandidateHorses implements ScheduleService.ListCandidateHorses
func (s *scheduleServiceImpl) ListCandidateHorses(
	ctx context.Context,
	lessonID uuid.UUID,
) ([]*domain.Horse, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, NewServiceError("list_candidate_horses", "failed to load lesson", err)
	}

	horses, err := s.horses.List(ctx)
	if err != nil {
		return nil, NewServiceError("list_candidate_horses", "failed to list horses", err)
	}

	candidates := []*domain.Horse{}
	for _, horse := range horses {
		if !horse.Available {
			continue
		}

		c := rules.Candidate{Lesson: lesson, Horse: horse}
		snapshot, err := loadSnapshot(ctx, s.enrollments, c)
		if err != nil {
			return nil, NewServiceError("list_candidate_horses", "failed to load snapshot", err)
		}

		admitted, err := s.admitted(c, snapshot, horseRules)
		if err != nil {
			return nil, NewServiceError("list_candidate_horses", "rule evaluation failed", err)
		}
		if admitted {
			candidates = append(candidates, horse)
		}
	}

	return candidates, nil
}

// ListCandidateRiders implements ScheduleService.ListCandidateRiders
func (s *scheduleServiceImpl) ListCandidateRiders(
	ctx context.Context,
	lessonID uuid.UUID,
) ([]*domain.Rider, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, NewServiceError("list_candidate_riders", "failed to load lesson", err)
	}

	riders, err := s.riders.List(ctx)
	if err != nil {
		return nil, NewServiceError("list_candidate_riders", "failed to list riders", err)
	}

	candidates := []*domain.Rider{}
	for _, rider := range riders {
		c := rules.Candidate{Lesson: lesson, Rider: rider}
		snapshot, err := loadSnapshot(ctx, s.enrollments, c)
		if err != nil {
			return nil, NewServiceError("list_candidate_riders", "failed to load snapshot", err)
		}

		admitted, err := s.admitted(c, snapshot, riderRules)
		if err != nil {
			return nil, NewServiceError("list_candidate_riders", "rule evaluation failed", err)
		}
		if admitted {
			candidates = append(candidates, rider)
		}
	}

	return candidates, nil
}

// admitted runs the given rule subset through the engine's predicates
// and reports whether none of them fire. Disabled rules stay out of the
// listing too, mirroring the admission decision.
func (s *scheduleServiceImpl) admitted(
	c rules.Candidate,
	snapshot *rules.Snapshot,
	names []rules.Name,
) (bool, error) {
	cfg := s.engine.Config()
	for _, name := range names {
		if !cfg.Enabled(name) {
			continue
		}
		v, err := s.engine.Check(name, c, snapshot)
		if err != nil {
			return false, err
		}
		if v != nil {
			return false, nil
		}
	}
	return true, nil
}

// cacheGet reports whether key was served from the listing cache into
// dest. Cache errors other than a miss are logged and treated as a miss.
func (s *scheduleServiceImpl) cacheGet(ctx context.Context, log *slog.Logger, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		log.Debug("listing served from cache", slog.String("key", key))
		return true
	}
	if !errors.Is(err, rediscache.ErrCacheMiss) {
		log.Warn("listing cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
	return false
}

func (s *scheduleServiceImpl) cacheSet(ctx context.Context, log *slog.Logger, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		log.Warn("listing cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
