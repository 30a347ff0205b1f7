package api

import (
	"log/slog"
	"net/http"

	"github.com/tbonnin/stable-api/internal/api/shared"
	"github.com/tbonnin/stable-api/internal/domain"
	"github.com/tbonnin/stable-api/internal/service"
)

// ScheduleHandler handles the read-only listing HTTP requests.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
	logger          *slog.Logger
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(
	scheduleService service.ScheduleService,
	logger *slog.Logger,
) *ScheduleHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ScheduleHandler")
	}

	return &ScheduleHandler{
		scheduleService: scheduleService,
		logger:          logger.With(slog.String("component", "schedule_handler")),
	}
}

// ListLessons handles GET /lessons requests.
func (h *ScheduleHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.scheduleService.ListLessons(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list lessons")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, lessonsToResponse(lessons))
}

// ListOpenLessons handles GET /lessons/open requests.
// Open means the lesson still has capacity; the listing may be stale up
// to the cache TTL.
func (h *ScheduleHandler) ListOpenLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.scheduleService.ListOpenLessons(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list open lessons")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, lessonsToResponse(lessons))
}

// ListHorses handles GET /horses requests.
func (h *ScheduleHandler) ListHorses(w http.ResponseWriter, r *http.Request) {
	horses, err := h.scheduleService.ListHorses(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list horses")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, horsesToResponse(horses))
}

// ListAvailableHorses handles GET /horses/available?day= requests.
func (h *ScheduleHandler) ListAvailableHorses(w http.ResponseWriter, r *http.Request) {
	day, err := domain.ParseWeekday(r.URL.Query().Get("day"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "day must be one of monday through saturday")
		return
	}

	horses, err := h.scheduleService.ListAvailableHorses(r.Context(), day)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list available horses")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, horsesToResponse(horses))
}

// ListCandidateHorses handles GET /lessons/{id}/candidate-horses requests.
// The listing applies the engine's own horse-scoped predicates, so no
// listed horse can fail them at enrollment time.
func (h *ScheduleHandler) ListCandidateHorses(w http.ResponseWriter, r *http.Request) {
	lessonID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	horses, err := h.scheduleService.ListCandidateHorses(r.Context(), lessonID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, horsesToResponse(horses))
}

// ListCandidateRiders handles GET /lessons/{id}/candidate-riders requests.
func (h *ScheduleHandler) ListCandidateRiders(w http.ResponseWriter, r *http.Request) {
	lessonID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	riders, err := h.scheduleService.ListCandidateRiders(r.Context(), lessonID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ridersToResponse(riders))
}
