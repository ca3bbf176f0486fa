package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/gradecalc/internal/config"
	"github.com/phrazzld/gradecalc/internal/platform/database"
)

// handleMigrations runs a single migration command against the configured
// database. It's called from run() when the -migrate flag is set.
func handleMigrations(ctx context.Context, cfg *config.Config, migrateCmd string, logger *slog.Logger) error {
	switch migrateCmd {
	case database.MigrateUp, database.MigrateDown, database.MigrateStatus, database.MigrateVersion:
	default:
		return fmt.Errorf("unknown migration command %q", migrateCmd)
	}

	logger.Info("Executing migrations", "command", migrateCmd)

	db, dialect, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect for migrations: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	return database.Migrate(ctx, db, dialect, migrateCmd, logger)
}
