package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/gradecalc/internal/config"
	"github.com/phrazzld/gradecalc/internal/domain/grading"
	"github.com/phrazzld/gradecalc/internal/events"
	"github.com/phrazzld/gradecalc/internal/platform/database"
	"github.com/phrazzld/gradecalc/internal/service"
	"github.com/phrazzld/gradecalc/internal/service/auth"
	"github.com/phrazzld/gradecalc/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Service interfaces
	tokenService auth.TokenService
	grader       grading.Service
	calculator   service.CalculatorService

	// Event system
	eventEmitter events.EventEmitter

	// Task handling; nil when session cleanup is disabled
	taskRunner *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB, dialect database.Dialect) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.tokenService, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	logger.Info("Session token service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewLoggingHandler(logger))
	app.eventEmitter = emitter

	app.grader = grading.NewDefaultService()

	sessionRepo := service.NewSessionRepositoryAdapter(database.NewSessionStore(db, dialect, logger), db)
	app.calculator, err = service.NewCalculatorService(sessionRepo, app.grader, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create calculator service: %w", err)
	}

	app.taskRunner, err = setupTaskRunner(app)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if app.taskRunner != nil {
		if err := app.taskRunner.Start(); err != nil {
			app.cleanup()
			return fmt.Errorf("failed to start task runner: %w", err)
		}
	}

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupTaskRunner schedules the stale session cleanup. It returns a nil
// runner when cleanup is disabled by a zero max age.
func setupTaskRunner(app *application) (*task.TaskRunner, error) {
	sessions := app.config.Sessions
	if sessions.MaxAgeHours <= 0 {
		app.logger.Info("Session cleanup disabled")
		return nil, nil
	}

	cleanup, err := task.NewSessionCleanupTask(
		app.calculator,
		time.Duration(sessions.MaxAgeHours)*time.Hour,
		app.logger,
	)
	if err != nil {
		return nil, err
	}

	runner := task.NewTaskRunner(task.DefaultTaskRunnerConfig(), app.logger)
	interval := time.Duration(sessions.CleanupIntervalMinutes) * time.Minute
	if err := runner.Schedule(cleanup, interval); err != nil {
		return nil, fmt.Errorf("failed to schedule session cleanup: %w", err)
	}

	app.logger.Info("Session cleanup scheduled",
		"max_age_hours", sessions.MaxAgeHours,
		"interval", interval.String())
	return runner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
