// Package db persists document processing history in SQLite: the
// per-document run records, an error log, and retention cleanup. Writes
// can be queued through an AsyncWriter so the pipeline never blocks on
// disk.
package db

import (
	"database/sql"
	"fmt"
	"time"

	// SQLite driver (pure Go, no CGO required)
	_ "modernc.org/sqlite"
)

// ConnectionConfig holds configuration for SQLite connections.
type ConnectionConfig struct {
	// Path is the database file path
	Path string
	// BusyTimeout is how long to wait for locks (milliseconds)
	BusyTimeout int
	// MaxOpenConns limits concurrent connections (SQLite handles
	// concurrency best with a single writer)
	MaxOpenConns int
	// MaxIdleConns limits idle connections in the pool
	MaxIdleConns int
	// ConnMaxLifetime limits connection reuse (0 = no limit)
	ConnMaxLifetime time.Duration
}

// DefaultConnectionConfig returns sensible defaults for SQLite with WAL
// mode: concurrent readers, single writer.
func DefaultConnectionConfig(path string) ConnectionConfig {
	return ConnectionConfig{
		Path:         path,
		BusyTimeout:  5000,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
}

// NewSQLiteConnection opens a SQLite connection with WAL mode and foreign
// keys enabled.
func NewSQLiteConnection(config ConnectionConfig) (*sql.DB, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	conn, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []struct {
		name  string
		query string
	}{
		{"journal_mode", "PRAGMA journal_mode=WAL"},
		{"busy_timeout", fmt.Sprintf("PRAGMA busy_timeout=%d", config.BusyTimeout)},
		{"foreign_keys", "PRAGMA foreign_keys=ON"},
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p.query); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set %s pragma: %w", p.name, err)
		}
	}

	conn.SetMaxOpenConns(config.MaxOpenConns)
	conn.SetMaxIdleConns(config.MaxIdleConns)
	conn.SetConnMaxLifetime(config.ConnMaxLifetime)

	var journalMode string
	if err := conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		conn.Close()
		return nil, fmt.Errorf("WAL mode not enabled, got: %s", journalMode)
	}

	return conn, nil
}
