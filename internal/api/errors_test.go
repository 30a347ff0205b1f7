package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tbonnin/stable-api/internal/domain"
	"github.com/tbonnin/stable-api/internal/domain/rules"
	"github.com/tbonnin/stable-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	violation := rules.NewViolationError(rules.Violations{
		{Rule: rules.LessonCapacity, Message: "lesson monday 09:00-10:00 is full (5 riders)"},
	})

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"rule violations", violation, http.StatusUnprocessableEntity},
		{"wrapped rule violations", wrapErr(violation), http.StatusUnprocessableEntity},
		{"lesson not found", store.ErrLessonNotFound, http.StatusNotFound},
		{"rider not found", store.ErrRiderNotFound, http.StatusNotFound},
		{"horse not found", store.ErrHorseNotFound, http.StatusNotFound},
		{"enrollment not found", store.ErrEnrollmentNotFound, http.StatusNotFound},
		{"duplicate", store.ErrDuplicate, http.StatusConflict},
		{"write conflict", store.ErrWriteConflict, http.StatusConflict},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"validation error", domain.NewValidationError("day", "unknown weekday", domain.ErrInvalidWeekday), http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func wrapErr(err error) error {
	return &wrappedErr{err}
}

type wrappedErr struct{ err error }

func (w *wrappedErr) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrappedErr) Unwrap() error { return w.err }

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Lesson not found", GetSafeErrorMessage(store.ErrLessonNotFound))
	assert.Equal(t, "Horse not found", GetSafeErrorMessage(store.ErrHorseNotFound))
	assert.Equal(t, "Concurrent update conflict, please retry", GetSafeErrorMessage(store.ErrWriteConflict))
	assert.Equal(t, "Invalid day", GetSafeErrorMessage(domain.NewValidationError("day", "unknown weekday", domain.ErrInvalidWeekday)))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(errors.New("raw driver detail")))
}

func TestSafeMessageNeverEchoesInternalDetail(t *testing.T) {
	t.Parallel()

	internal := errors.New(`pq: insert into enrollments failed on node db-1.internal:5432`)
	msg := GetSafeErrorMessage(internal)

	assert.NotContains(t, msg, "db-1")
	assert.NotContains(t, msg, "enrollments")
}
