// Package main implements the entry point for the stable API server,
// which schedules riding lessons and enforces the club's enrollment
// rules.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/tbonnin/stable-api/internal/config"
	"github.com/tbonnin/stable-api/internal/platform/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "run database migrations and exit")
	migrationsDir := flag.String("migrations-dir", "migrations", "path to the migrations directory")
	flag.Parse()

	if err := run(*migrateOnly, *migrationsDir); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// run loads configuration, wires the application together and starts
// the HTTP server. Split from main so errors flow back through a
// single exit path.
func run(migrateOnly bool, migrationsDir string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)
	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"cache_enabled", cfg.Cache.Enabled)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if err := runMigrations(db, migrationsDir, appLogger); err != nil {
		return err
	}
	if migrateOnly {
		appLogger.Info("migrations complete, exiting")
		return db.Close()
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
