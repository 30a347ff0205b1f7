package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tbonnin/stable-api/internal/domain"
	"github.com/tbonnin/stable-api/internal/platform/logger"
	"github.com/tbonnin/stable-api/internal/store"
)

// AvailabilityCalculator derives a horse's availability from its rolling
// session count: a horse with more enrollments than its work session
// limit in the scheduling window is marked unavailable. Availability is
// a derived value; this calculator is its only writer.
type AvailabilityCalculator struct {
	sessionLimit int
	logger       *slog.Logger
}

// NewAvailabilityCalculator creates an AvailabilityCalculator with the
// given per-window work session limit. If logger is nil, a default
// logger will be used.
func NewAvailabilityCalculator(sessionLimit int, logger *slog.Logger) *AvailabilityCalculator {
	if sessionLimit <= 0 {
		sessionLimit = domain.DefaultWorkSessionLimit
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AvailabilityCalculator{
		sessionLimit: sessionLimit,
		logger:       logger.With(slog.String("component", "availability_calculator")),
	}
}

// Recompute recounts the horse's enrollments and persists the derived
// workload and availability. The stores must be bound to the same
// transaction as the enrollment write that triggered the recomputation,
// so that availability is consistent with the enrollment set at commit
// time.
func (a *AvailabilityCalculator) Recompute(
	ctx context.Context,
	horses store.HorseStore,
	enrollments store.EnrollmentStore,
	horseID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, a.logger)

	count, err := enrollments.CountForHorse(ctx, horseID)
	if err != nil {
		return NewServiceError("recompute_availability", "failed to count horse sessions", err)
	}

	horse, err := horses.GetByID(ctx, horseID)
	if err != nil {
		return NewServiceError("recompute_availability", "failed to load horse", err)
	}

	horse.ApplyWorkload(count, a.sessionLimit)

	if err := horses.UpdateWorkload(ctx, horseID, horse.WorkSessions, horse.Available); err != nil {
		return NewServiceError("recompute_availability", "failed to persist availability", err)
	}

	log.Debug("horse availability recomputed",
		slog.String("horse_id", horseID.String()),
		slog.Int("work_sessions", count),
		slog.Bool("available", horse.Available))
	return nil
}
