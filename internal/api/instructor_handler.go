package api

import (
	"log/slog"
	"net/http"

	"github.com/tbonnin/stable-api/internal/api/shared"
	"github.com/tbonnin/stable-api/internal/store"
)

// InstructorHandler handles instructor listing HTTP requests.
type InstructorHandler struct {
	instructors store.InstructorStore
	logger      *slog.Logger
}

// NewInstructorHandler creates a new InstructorHandler.
func NewInstructorHandler(instructors store.InstructorStore, logger *slog.Logger) *InstructorHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for InstructorHandler")
	}

	return &InstructorHandler{
		instructors: instructors,
		logger:      logger.With(slog.String("component", "instructor_handler")),
	}
}

// ListInstructors handles GET /instructors requests. Instructors are
// ordered by last name then first name.
func (h *InstructorHandler) ListInstructors(w http.ResponseWriter, r *http.Request) {
	instructors, err := h.instructors.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list instructors")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, instructorsToResponse(instructors))
}
