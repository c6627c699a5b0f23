package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file" // File source driver
)

// MigrateUp applies all pending migrations from migrationsPath (file://
// URL format) to the database at dbPath. No pending migrations is not an
// error. The migration run uses its own connection because golang-migrate
// takes ownership of the connection it is given.
func MigrateUp(dbPath, migrationsPath string) error {
	m, err := newMigrator(dbPath, migrationsPath)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// MigrateDown rolls back the given number of migrations; -1 rolls back
// all of them.
func MigrateDown(dbPath, migrationsPath string, steps int) error {
	m, err := newMigrator(dbPath, migrationsPath)
	if err != nil {
		return err
	}
	defer m.Close()

	var migrateErr error
	if steps == -1 {
		migrateErr = m.Down()
	} else {
		migrateErr = m.Steps(-steps)
	}
	if migrateErr != nil && !errors.Is(migrateErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", migrateErr)
	}
	return nil
}

// MigrationVersion returns the current migration version and dirty flag.
// Version 0 and dirty=false means no migrations have been applied.
func MigrationVersion(dbPath, migrationsPath string) (uint, bool, error) {
	m, err := newMigrator(dbPath, migrationsPath)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

func newMigrator(dbPath, migrationsPath string) (*migrate.Migrate, error) {
	if migrationsPath == "" {
		return nil, errors.New("migrations path is required")
	}
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	driver, err := sqlite.WithInstance(conn, &sqlite.Config{DatabaseName: "main"})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "sqlite", driver)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
