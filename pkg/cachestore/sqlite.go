// Package cachestore provides an optional sqlite-backed warm-start store
// for the installed-set cache (pkg/santa's Cache), grounded on the
// teacher's SQLiteStore connection-lifecycle shape. No golang-migrate
// dependency is carried here: the schema is a single table bootstrapped
// with a plain CREATE TABLE IF NOT EXISTS, not a versioned migration
// sequence.
package cachestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// SQLite driver, pure Go (no cgo).
	_ "modernc.org/sqlite"
)

// Config holds sqlite store configuration.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Record mirrors the shape santa.Cache persists: a source's installed
// package list and the time it was captured.
type Record struct {
	Packages  []string
	Installed time.Time
}

// Store is a sqlite-backed store of cache Records, one per source name.
// santa.NewSQLiteCacheBacking adapts it to santa.CacheBacking.
type Store struct {
	db   *sql.DB
	path string
}

// New creates a Store, opens its connection, and creates the cache table
// if it does not exist yet.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 5
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 2
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	s := &Store{db: db, path: cfg.Path}
	if err := s.bootstrap(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) bootstrap(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS installed_cache (
	source TEXT PRIMARY KEY,
	packages_json TEXT NOT NULL,
	installed_at TIMESTAMP NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to bootstrap cache schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads every persisted record, keyed by source name.
func (s *Store) Load() (map[string]Record, error) {
	rows, err := s.db.Query(`SELECT source, packages_json, installed_at FROM installed_cache`)
	if err != nil {
		return nil, fmt.Errorf("failed to load cache entries: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Record)
	for rows.Next() {
		var source, packagesJSON string
		var installedAt time.Time
		if err := rows.Scan(&source, &packagesJSON, &installedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cache row: %w", err)
		}
		var packages []string
		if err := json.Unmarshal([]byte(packagesJSON), &packages); err != nil {
			return nil, fmt.Errorf("failed to decode packages for %s: %w", source, err)
		}
		out[source] = Record{Packages: packages, Installed: installedAt}
	}
	return out, rows.Err()
}

// Save upserts a single source's record.
func (s *Store) Save(source string, rec Record) error {
	packagesJSON, err := json.Marshal(rec.Packages)
	if err != nil {
		return fmt.Errorf("failed to encode packages for %s: %w", source, err)
	}
	_, err = s.db.Exec(`
INSERT INTO installed_cache (source, packages_json, installed_at)
VALUES (?, ?, ?)
ON CONFLICT(source) DO UPDATE SET packages_json = excluded.packages_json, installed_at = excluded.installed_at
`, source, string(packagesJSON), rec.Installed)
	if err != nil {
		return fmt.Errorf("failed to save cache entry for %s: %w", source, err)
	}
	return nil
}

// Delete removes a single source's persisted record.
func (s *Store) Delete(source string) error {
	if _, err := s.db.Exec(`DELETE FROM installed_cache WHERE source = ?`, source); err != nil {
		return fmt.Errorf("failed to delete cache entry for %s: %w", source, err)
	}
	return nil
}
