package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/gradecalc/internal/config"
	"github.com/phrazzld/gradecalc/internal/platform/database"
)

// setupAppDatabase connects to the configured session store and brings its
// schema up to date. Returns the connection and its dialect.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, database.Dialect, error) {
	db, dialect, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, database.Dialect{}, fmt.Errorf("failed to set up database: %w", err)
	}
	return db, dialect, nil
}
