package cursor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cursors (
	slot       TEXT PRIMARY KEY,
	value      INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);`

// SQLiteStore keeps cursors in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the cursor database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cursor table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load reads the slot value.
func (s *SQLiteStore) Load(ctx context.Context, slot string) (uint64, bool, error) {
	var value int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM cursors WHERE slot = ?`, slot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load cursor %q: %w", slot, err)
	}
	return uint64(value), true, nil
}

// Save upserts the slot value. Values are stored as int64; terminal tickets
// stay far below the sign bit.
func (s *SQLiteStore) Save(ctx context.Context, slot string, value uint64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cursors (slot, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		slot, int64(value), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save cursor %q: %w", slot, err)
	}
	return nil
}

// Close closes the database file.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
