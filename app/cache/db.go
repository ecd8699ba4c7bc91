// Package cache persists normalized records to a local SQLite database,
// keyed by feed identity and publication day.
package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection backing the local record cache.
type DB struct {
	*sql.DB
}

// NewConnection opens (or creates) the cache database at the given path and
// applies pending migrations.
func NewConnection(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}

	wrapped := &DB{db}
	if err := RunMigrations(wrapped); err != nil {
		db.Close()
		return nil, err
	}

	return wrapped, nil
}
