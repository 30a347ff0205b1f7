package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tbonnin/stable-api/internal/api/shared"
	"github.com/tbonnin/stable-api/internal/platform/logger"
	"github.com/tbonnin/stable-api/internal/service"
)

// EnrollmentHandler handles enrollment-related HTTP requests.
type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
	validator         *validator.Validate
	logger            *slog.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(
	enrollmentService service.EnrollmentService,
	logger *slog.Logger,
) *EnrollmentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for EnrollmentHandler")
	}

	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
		validator:         validator.New(),
		logger:            logger.With(slog.String("component", "enrollment_handler")),
	}
}

// CreateEnrollment handles POST /enrollments requests.
// On admission it returns the committed enrollment with 201; on rule
// violations it returns 422 with every blocking reason.
func (h *EnrollmentHandler) CreateEnrollment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateEnrollmentRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "lesson_id, rider_id and horse_id are required")
		return
	}

	enrollment, err := h.enrollmentService.Enroll(r.Context(), req.LessonID, req.RiderID, req.HorseID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("enrollment created",
		slog.String("enrollment_id", enrollment.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, enrollmentToResponse(enrollment))
}

// DeleteEnrollment handles DELETE /enrollments/{id} requests.
func (h *EnrollmentHandler) DeleteEnrollment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.enrollmentService.Withdraw(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("enrollment deleted", slog.String("enrollment_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
