package api

import (
	"errors"
	"net/http"

	"github.com/tbonnin/stable-api/internal/api/shared"
	"github.com/tbonnin/stable-api/internal/domain"
	"github.com/tbonnin/stable-api/internal/domain/rules"
	"github.com/tbonnin/stable-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	var (
		verr *rules.ViolationError
		derr *domain.ValidationError
	)
	switch {
	// Rule violations: the request was well-formed but inadmissible
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrWriteConflict):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.As(err, &derr):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal
// details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrLessonNotFound):
		return "Lesson not found"
	case errors.Is(err, store.ErrRiderNotFound):
		return "Rider not found"
	case errors.Is(err, store.ErrHorseNotFound):
		return "Horse not found"
	case errors.Is(err, store.ErrInstructorNotFound):
		return "Instructor not found"
	case errors.Is(err, store.ErrEnrollmentNotFound):
		return "Enrollment not found"
	case errors.Is(err, store.ErrDuplicate):
		return "Enrollment already exists"
	case errors.Is(err, store.ErrWriteConflict):
		return "Concurrent update conflict, please retry"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Referenced entity does not exist"
	case errors.Is(err, domain.ErrValidation):
		return "Invalid request data"
	}

	var derr *domain.ValidationError
	if errors.As(err, &derr) {
		return "Invalid " + derr.Field
	}

	return "An unexpected error occurred"
}

// HandleAPIError writes the response for a service-layer error. Rule
// violations get the structured 422 payload with every blocking reason;
// everything else goes through the sanitized message mapping. An empty
// userMessage falls back to GetSafeErrorMessage.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	var verr *rules.ViolationError
	if errors.As(err, &verr) {
		shared.RespondWithViolations(w, r, violationsToResponse(verr.Violations))
		return
	}

	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}

func violationsToResponse(vs rules.Violations) []shared.ViolationResponse {
	out := make([]shared.ViolationResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, shared.ViolationResponse{
			Rule:    string(v.Rule),
			Message: v.Message,
		})
	}
	return out
}
