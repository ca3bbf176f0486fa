package database_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/gradecalc/internal/config"
	"github.com/phrazzld/gradecalc/internal/platform/database"
	"github.com/phrazzld/gradecalc/internal/platform/logger"
	"github.com/stretchr/testify/require"
)

// openMemoryDB returns a migrated, private in-memory SQLite database.
func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	log, _ := logger.NewTestLogger()
	db, d, err := database.Open(context.Background(), config.DatabaseConfig{
		Driver: database.DriverSQLite,
		URL:    "file::memory:",
	}, log)
	require.NoError(t, err)
	require.Equal(t, database.DriverSQLite, d.Name)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newMemoryStore(t *testing.T) (*database.SessionStore, *sql.DB) {
	t.Helper()
	db := openMemoryDB(t)
	log, _ := logger.NewTestLogger()
	return database.NewSessionStore(db, database.SQLite, log), db
}
