package database

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver for local development and tests

	"shift_scheduler_backend/internal/config"
	"shift_scheduler_backend/pkg/utils"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Open connects to the configured database and verifies the connection.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	var dsn string
	switch cfg.Driver {
	case DriverPostgres:
		dsn = cfg.PostgresDSN()
	case DriverSQLite:
		dsn = SQLiteDSN(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	return OpenDSN(cfg.Driver, dsn)
}

// OpenDSN opens driver with dsn and pings it.
func OpenDSN(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	utils.LogInfo("Successfully connected to the database", map[string]interface{}{"driver": driver})
	return db, nil
}

// SQLiteDSN builds a go-sqlite3 DSN with foreign key enforcement turned on.
// SQLite ignores ON DELETE CASCADE/RESTRICT without it.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// ApplySchema executes the embedded schema for driver. Every statement is
// idempotent, so it is safe to run on each start.
func ApplySchema(db *sql.DB, driver string) error {
	var file string
	switch driver {
	case DriverPostgres:
		file = "schema/postgres.sql"
	case DriverSQLite:
		file = "schema/sqlite.sql"
	default:
		return fmt.Errorf("no schema for driver %q", driver)
	}

	content, err := schemaFS.ReadFile(file)
	if err != nil {
		return fmt.Errorf("could not read schema file %s: %w", file, err)
	}
	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied", map[string]interface{}{"driver": driver})
	return nil
}
