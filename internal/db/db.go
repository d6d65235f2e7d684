package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"
)

// TimeLayout is the fixed-width UTC layout used for created_at/updated_at.
// Fixed width keeps lexical and chronological order identical, and the value
// parses as RFC 3339.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// DB wraps a SQLite database connection holding the game library.
type DB struct {
	conn *sql.DB
	path string
	now  func() time.Time
}

// Option configures a DB.
type Option func(*DB)

// WithClock overrides the clock used for store-assigned timestamps.
func WithClock(now func() time.Time) Option {
	return func(db *DB) {
		if now != nil {
			db.now = now
		}
	}
}

// Open opens or creates a SQLite database at the given path.
func Open(ctx context.Context, path string, opts ...Option) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // data directory
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := otelsql.Open("sqlite", dsn(path),
		otelsql.WithAttributes(attribute.String("db.system", "sqlite")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serialises writers; SQLite allows one at a time anyway.
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db := &DB{conn: conn, path: path, now: time.Now}
	for _, opt := range opts {
		opt(db)
	}

	if err := db.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// timestamp returns the current store time in TimeLayout.
func (db *DB) timestamp() string {
	return db.now().UTC().Format(TimeLayout)
}

// migrate runs database migrations up to the current schema version.
func (db *DB) migrate(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var version int
	err := db.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if version < 1 {
		if err := db.migrateV1(ctx); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := db.migrateV2(ctx); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the games table.
func (db *DB) migrateV1(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			folder_path TEXT NOT NULL UNIQUE,
			folder_name TEXT NOT NULL,
			title TEXT NOT NULL,

			steam_app_id INTEGER,

			summary TEXT,
			release_date TEXT,

			cover_url TEXT,
			background_url TEXT,

			local_cover_path TEXT,
			local_background_path TEXT,

			genres TEXT,      -- JSON array
			developers TEXT,  -- JSON array
			publishers TEXT,  -- JSON array

			review_score INTEGER,
			review_count INTEGER,
			review_summary TEXT,

			size_bytes INTEGER,

			match_confidence REAL,
			match_status TEXT NOT NULL DEFAULT 'pending',

			hltb_main_mins INTEGER,
			hltb_extra_mins INTEGER,
			hltb_completionist_mins INTEGER,

			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_games_title ON games(title);
		CREATE INDEX IF NOT EXISTS idx_games_match_status ON games(match_status);
		CREATE INDEX IF NOT EXISTS idx_games_steam_app_id ON games(steam_app_id);

		INSERT INTO schema_version (version) VALUES (1);
	`

	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute v1 migration: %w", err)
	}

	return nil
}

// migrateV2 adds the manual edit flag and the IGDB cross-reference.
func (db *DB) migrateV2(ctx context.Context) error {
	schema := `
		ALTER TABLE games ADD COLUMN manually_edited INTEGER NOT NULL DEFAULT 0;
		ALTER TABLE games ADD COLUMN igdb_id INTEGER;

		INSERT INTO schema_version (version) VALUES (2);
	`

	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute v2 migration: %w", err)
	}

	return nil
}
