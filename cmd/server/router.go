package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tbonnin/stable-api/internal/api"
	apiMiddleware "github.com/tbonnin/stable-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	enrollmentHandler := api.NewEnrollmentHandler(app.enrollmentService, app.logger)
	scheduleHandler := api.NewScheduleHandler(app.scheduleService, app.logger)
	instructorHandler := api.NewInstructorHandler(app.instructorStore, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Enrollment lifecycle
		r.Post("/enrollments", enrollmentHandler.CreateEnrollment)
		r.Delete("/enrollments/{id}", enrollmentHandler.DeleteEnrollment)

		// Schedule listings
		r.Get("/lessons", scheduleHandler.ListLessons)
		r.Get("/lessons/open", scheduleHandler.ListOpenLessons)
		r.Get("/lessons/{id}/candidate-horses", scheduleHandler.ListCandidateHorses)
		r.Get("/lessons/{id}/candidate-riders", scheduleHandler.ListCandidateRiders)
		r.Get("/horses", scheduleHandler.ListHorses)
		r.Get("/horses/available", scheduleHandler.ListAvailableHorses)
		r.Get("/instructors", instructorHandler.ListInstructors)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
