package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tbonnin/stable-api/internal/config"
	"github.com/tbonnin/stable-api/internal/domain/rules"
	"github.com/tbonnin/stable-api/internal/platform/postgres"
	"github.com/tbonnin/stable-api/internal/platform/rediscache"
	"github.com/tbonnin/stable-api/internal/service"
	"github.com/tbonnin/stable-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	lessonStore     store.LessonStore
	riderStore      store.RiderStore
	horseStore      store.HorseStore
	instructorStore store.InstructorStore
	enrollmentStore store.EnrollmentStore

	// Rule engine and services
	engine            rules.Engine
	availability      *service.AvailabilityCalculator
	enrollmentService service.EnrollmentService
	scheduleService   service.ScheduleService

	// Optional Redis listing cache, nil when disabled.
	cache *rediscache.Cache
}

// newApplication creates a new application instance with all
// dependencies initialized. It accepts the core dependencies that must
// be established before application initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.lessonStore = postgres.NewPostgresLessonStore(db, logger)
	app.riderStore = postgres.NewPostgresRiderStore(db, logger)
	app.horseStore = postgres.NewPostgresHorseStore(db, logger)
	app.instructorStore = postgres.NewPostgresInstructorStore(db, logger)
	app.enrollmentStore = postgres.NewPostgresEnrollmentStore(db, logger)

	// Initialize the rule engine from the configured limits
	ruleCfg := cfg.Rules.ToRules()
	app.engine = rules.NewEngineWithConfig(ruleCfg)
	logger.Info("rule engine initialized",
		"lesson_capacity", ruleCfg.Limits.LessonCapacity,
		"rider_weekly_cap", ruleCfg.Limits.RiderWeeklyCap,
		"disabled_rules", cfg.Rules.DisabledRules())

	app.availability = service.NewAvailabilityCalculator(
		ruleCfg.Limits.WorkSessionLimit,
		logger,
	)

	// Initialize the optional Redis listing cache. The services accept
	// nil interfaces and fall back to database reads.
	var listingCache service.ListingCache
	var invalidator service.ListingInvalidator
	if cfg.Cache.Enabled {
		cache, err := rediscache.New(ctx, rediscache.Config{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TTL:      time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.cache = cache
		listingCache = cache
		invalidator = cache
		logger.Info("listing cache enabled", "addr", cfg.Cache.Addr)
	}

	// Initialize services
	var err error
	app.enrollmentService, err = service.NewEnrollmentService(
		db,
		app.lessonStore,
		app.riderStore,
		app.horseStore,
		app.enrollmentStore,
		app.engine,
		app.availability,
		invalidator,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create enrollment service: %w", err)
	}

	app.scheduleService, err = service.NewScheduleService(
		app.lessonStore,
		app.riderStore,
		app.horseStore,
		app.enrollmentStore,
		app.engine,
		listingCache,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
