package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// MigrationsTable is the table goose records applied versions in.
const MigrationsTable = "schema_migrations"

// Migration commands accepted by Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateVersion = "version"
)

// newProvider builds a goose provider over the embedded migrations.
func newProvider(db *sql.DB, d Dialect) (*goose.Provider, error) {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	st, err := goosedb.NewStore(d.Goose, MigrationsTable)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration store: %w", err)
	}
	p, err := goose.NewProvider("", db, fsys, goose.WithStore(st))
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return p, nil
}

// Migrate runs one migration command against db and logs what happened.
func Migrate(ctx context.Context, db *sql.DB, d Dialect, command string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "migrations", "command", command, "dialect", d.Name)

	p, err := newProvider(db, d)
	if err != nil {
		return err
	}

	switch command {
	case MigrateUp:
		results, err := p.Up(ctx)
		for _, r := range results {
			logResult(log, r)
		}
		if err != nil {
			return fmt.Errorf("migrate up failed: %w", err)
		}
		if len(results) == 0 {
			log.Info("schema is up to date")
		}
	case MigrateDown:
		r, err := p.Down(ctx)
		if r != nil {
			logResult(log, r)
		}
		if err != nil {
			return fmt.Errorf("migrate down failed: %w", err)
		}
	case MigrateStatus:
		statuses, err := p.Status(ctx)
		if err != nil {
			return fmt.Errorf("migrate status failed: %w", err)
		}
		for _, s := range statuses {
			log.Info("migration status",
				"version", s.Source.Version,
				"path", s.Source.Path,
				"state", string(s.State),
				"applied_at", s.AppliedAt)
		}
	case MigrateVersion:
		v, err := p.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("migrate version failed: %w", err)
		}
		log.Info("current schema version", "version", v)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func SchemaVersion(ctx context.Context, db *sql.DB, d Dialect) (int64, error) {
	p, err := newProvider(db, d)
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}

func logResult(log *slog.Logger, r *goose.MigrationResult) {
	attrs := []any{
		"version", r.Source.Version,
		"path", r.Source.Path,
		"direction", r.Direction,
		"duration_ms", r.Duration.Milliseconds(),
	}
	if r.Error != nil {
		log.Error("migration failed", append(attrs, "error", r.Error)...)
		return
	}
	log.Info("migration applied", attrs...)
}
