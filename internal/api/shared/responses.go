package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tbonnin/stable-api/internal/redact"
)

// ErrorResponse defines the standard error response structure.
// Violations is populated only when an enrollment is rejected by the
// admission rules; it then carries every blocking reason at once.
type ErrorResponse struct {
	Error      string              `json:"error"`
	Code       int                 `json:"-"` // Not serialized, used for logging
	TraceID    string              `json:"trace_id,omitempty"`
	Violations []ViolationResponse `json:"violations,omitempty"`
}

// ViolationResponse is one named rule failure with its context.
type ViolationResponse struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a JSON error response with the given status
// code and message, tagged with the request's trace ID.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithJSON(w, r, status, ErrorResponse{
		Error:   message,
		Code:    status,
		TraceID: GetTraceID(r.Context()),
	})
}

// RespondWithViolations writes the rejection response for an enrollment
// candidate: HTTP 422 with the complete list of violated rules.
func RespondWithViolations(w http.ResponseWriter, r *http.Request, violations []ViolationResponse) {
	RespondWithJSON(w, r, http.StatusUnprocessableEntity, ErrorResponse{
		Error:      "enrollment rejected",
		Code:       http.StatusUnprocessableEntity,
		TraceID:    GetTraceID(r.Context()),
		Violations: violations,
	})
}

// RespondWithErrorAndLog writes a sanitized JSON error response and logs
// the full (redacted) error. 5xx responses are logged at ERROR, 4xx at
// DEBUG; the raw error string never reaches the client.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, ErrorResponse{
		Error:   userMessage,
		Code:    status,
		TraceID: traceID,
	})
}
