// Package store persists per-user watch history and preferences in an
// embedded SQLite database. The aggregation core depends on nothing here;
// the API handlers are the only consumers.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go driver
)

// sqliteConfig defines standard SQLite operational parameters.
type sqliteConfig struct {
	BusyTimeout  time.Duration
	MaxOpenConns int
}

func defaultSQLiteConfig() sqliteConfig {
	return sqliteConfig{
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 25,
	}
}

// openDB initializes a SQLite connection pool with mandatory PRAGMAs in
// the DSN so they apply to all connections in the pool.
func openDB(dbPath string, cfg sqliteConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		dbPath, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open failed: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(1 * time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS watch_history (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	video_id   TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	author     TEXT NOT NULL DEFAULT '',
	thumbnail  TEXT NOT NULL DEFAULT '',
	watched_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_watch_history_user
	ON watch_history(user_id, watched_at DESC);

CREATE TABLE IF NOT EXISTS user_preferences (
	user_id         TEXT PRIMARY KEY,
	theme           TEXT NOT NULL DEFAULT 'dark',
	autoplay        INTEGER NOT NULL DEFAULT 0,
	default_quality TEXT NOT NULL DEFAULT 'highest',
	region          TEXT NOT NULL DEFAULT 'JP'
);
`

// Store wraps the database with history and preference operations.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := openDB(path, defaultSQLiteConfig())
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
