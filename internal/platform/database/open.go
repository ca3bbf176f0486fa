package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	"github.com/phrazzld/gradecalc/internal/config"
)

// pingTimeout bounds the connectivity check done by Open.
const pingTimeout = 5 * time.Second

// Open connects to the configured backend, applies pool limits, verifies the
// connection and applies any pending migrations. The caller owns the returned
// *sql.DB and must close it.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*sql.DB, Dialect, error) {
	db, d, err := Connect(ctx, cfg, log)
	if err != nil {
		return nil, Dialect{}, err
	}
	if err := Migrate(ctx, db, d, MigrateUp, log); err != nil {
		_ = db.Close()
		return nil, Dialect{}, err
	}
	return db, d, nil
}

// Connect is Open without the migration step.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*sql.DB, Dialect, error) {
	if log == nil {
		log = slog.Default()
	}
	d, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, Dialect{}, err
	}
	log = log.With("component", "database", "driver", d.Name)

	db, err := sql.Open(d.DriverName, cfg.URL)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(d.maxConns)
	db.SetMaxIdleConns(d.maxConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	if d.Name == DriverSQLite {
		// Closing the only connection would discard an in-memory database.
		db.SetConnMaxLifetime(0)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		log.Error("database ping failed", "error", err, "url", MaskURL(cfg.URL))
		return nil, Dialect{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connection established", "url", MaskURL(cfg.URL))
	return db, d, nil
}

// MaskURL hides the password of a connection URL for logging. Strings that
// do not parse as URLs are returned unchanged.
func MaskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
