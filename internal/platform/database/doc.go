// Package database provides the SQL implementations of the storage
// interfaces defined in the internal/store package. One implementation
// serves both supported backends, PostgreSQL through the pgx stdlib driver
// and SQLite through modernc.org/sqlite; a Dialect captures the few places
// where they differ. The package also owns connection setup and the
// embedded goose migrations.
package database
