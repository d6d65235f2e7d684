package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock returns a clock that advances one second per call.
func testClock() func() time.Time {
	t := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), WithClock(testClock()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := Open(context.Background(), dbPath)
	require.NoError(t, err, "should open database without error")
	defer func() { _ = db.Close() }()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should exist")
	assert.Equal(t, dbPath, db.Path())
}

func TestSchemaVersion(t *testing.T) {
	db := openTestDB(t)

	var version int
	err := db.Conn().QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestMigrationIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		db, err := Open(context.Background(), dbPath)
		require.NoError(t, err, "should open database on attempt %d", i+1)
		_ = db.Close()
	}

	db, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var version int
	err = db.Conn().QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestV2Columns(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Conn().Exec(`
		INSERT INTO games (folder_path, folder_name, title, created_at, updated_at, igdb_id)
		VALUES ('/g/Hades', 'Hades', 'Hades', 'x', 'x', 1149)
	`)
	require.NoError(t, err)

	var manual, igdb int
	err = db.Conn().QueryRow("SELECT manually_edited, igdb_id FROM games").Scan(&manual, &igdb)
	require.NoError(t, err)
	assert.Equal(t, 0, manual)
	assert.Equal(t, 1149, igdb)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dsn("a.db"))
	assert.Equal(t, "a.db?mode=ro&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dsn("a.db?mode=ro"))
}

func TestTimestampLayout(t *testing.T) {
	db := openTestDB(t)
	ts := db.timestamp()

	parsed, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())
	assert.Len(t, ts, len(TimeLayout))
}

func TestClose(t *testing.T) {
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Conn().Ping())
}

func TestStoreError(t *testing.T) {
	err := &StoreError{Op: "get game", Ref: "42", Err: ErrNotFound}
	assert.Equal(t, "get game '42': not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))

	err = &StoreError{Op: "get stats", Err: ErrDatabase}
	assert.Equal(t, "get stats: database error", err.Error())
}

func TestWrapDBError(t *testing.T) {
	assert.NoError(t, WrapDBError(nil, "op", ""))

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"generic", errors.New("disk I/O error"), ErrDatabase},
		{"unique", errors.New("UNIQUE constraint failed: games.folder_path"), ErrDuplicate},
		{"no table", errors.New("no such table: games"), ErrDatabase},
		{"not found", ErrNotFound, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapDBError(tt.err, "op", "ref")
			var se *StoreError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "op", se.Op)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
