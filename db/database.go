package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Database manages the SQLite connection lifecycle: open with WAL mode,
// run migrations, and close on shutdown.
type Database struct {
	db             *sql.DB
	path           string
	migrationsPath string
	mu             sync.RWMutex
}

// DatabaseConfig holds configuration for the Database.
type DatabaseConfig struct {
	// Path is the database file path
	Path string
	// MigrationsPath is the migrations directory in file:// URL format
	// (default "file://db/migrations")
	MigrationsPath string
	// ConnectionConfig allows customizing the SQLite connection
	ConnectionConfig *ConnectionConfig
}

// DefaultDatabaseConfig returns sensible defaults for the database.
func DefaultDatabaseConfig(path string) DatabaseConfig {
	return DatabaseConfig{
		Path:           path,
		MigrationsPath: "file://db/migrations",
	}
}

// NewDatabase opens the database at path with default configuration,
// creating parent directories as needed.
func NewDatabase(path string) (*Database, error) {
	return NewDatabaseWithConfig(DefaultDatabaseConfig(path))
}

// NewDatabaseWithConfig opens the database with custom configuration.
func NewDatabaseWithConfig(config DatabaseConfig) (*Database, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dir := filepath.Dir(config.Path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	var connConfig ConnectionConfig
	if config.ConnectionConfig != nil {
		connConfig = *config.ConnectionConfig
	} else {
		connConfig = DefaultConnectionConfig(config.Path)
	}

	conn, err := NewSQLiteConnection(connConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	migrationsPath := config.MigrationsPath
	if migrationsPath == "" {
		migrationsPath = "file://db/migrations"
	}

	return &Database{
		db:             conn,
		path:           config.Path,
		migrationsPath: migrationsPath,
	}, nil
}

// Migrate applies all pending migrations. Safe to call multiple times.
func (d *Database) Migrate() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := MigrateUp(d.path, d.migrationsPath); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// DB returns the underlying connection. Do not close it directly; use
// Database.Close.
func (d *Database) DB() *sql.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.path
}

// Ping verifies the connection is alive.
func (d *Database) Ping() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.db == nil {
		return fmt.Errorf("database connection is closed")
	}
	return d.db.Ping()
}

// Exec executes a statement without returning rows.
func (d *Database) Exec(query string, args ...interface{}) (sql.Result, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.db == nil {
		return nil, fmt.Errorf("database connection is closed")
	}
	return d.db.Exec(query, args...)
}

// Query executes a query that returns rows.
func (d *Database) Query(query string, args ...interface{}) (*sql.Rows, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.db == nil {
		return nil, fmt.Errorf("database connection is closed")
	}
	return d.db.Query(query, args...)
}

// QueryRow executes a query that returns at most one row.
func (d *Database) QueryRow(query string, args ...interface{}) *sql.Row {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db.QueryRow(query, args...)
}

// Close closes the database connection. The Database must not be used
// after Close.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	d.db = nil
	return nil
}
