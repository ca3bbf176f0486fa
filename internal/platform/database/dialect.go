package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	goosedb "github.com/pressly/goose/v3/database"
)

// Supported values of config.DatabaseConfig.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Dialect describes how queries and errors differ between backends.
type Dialect struct {
	// Name is the configured driver name.
	Name string
	// DriverName is the database/sql driver registered for the backend.
	DriverName string
	// Goose is the migration dialect.
	Goose goosedb.Dialect

	bindType   int
	lockSuffix string
	maxConns   int
}

// SQLite is the dialect of the embedded default store.
var SQLite = Dialect{
	Name:       DriverSQLite,
	DriverName: "sqlite",
	Goose:      goosedb.DialectSQLite3,
	bindType:   sqlx.QUESTION,
	// SQLite serializes writers; one connection avoids SQLITE_BUSY and keeps
	// in-memory databases alive across queries.
	maxConns: 1,
}

// Postgres is the dialect of the PostgreSQL store.
var Postgres = Dialect{
	Name:       DriverPostgres,
	DriverName: "pgx",
	Goose:      goosedb.DialectPostgres,
	bindType:   sqlx.DOLLAR,
	lockSuffix: " FOR UPDATE",
	maxConns:   25,
}

// DialectFor returns the dialect of a configured driver.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite:
		return SQLite, nil
	case DriverPostgres:
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Rebind rewrites ? placeholders into the dialect's native form.
func (d Dialect) Rebind(query string) string {
	return sqlx.Rebind(d.bindType, query)
}

// ForUpdate appends a row-lock clause to a SELECT where the backend has one.
func (d Dialect) ForUpdate(query string) string {
	return query + d.lockSuffix
}
