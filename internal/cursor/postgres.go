package cursor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/dealsync/internal/config"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS cursors (
	slot       TEXT PRIMARY KEY,
	value      BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
);`

// PostgresStore keeps cursors in a shared PostgreSQL database, one row per
// agent slot. Useful for fleets: sync progress of every agent is visible in
// one place, and agents keep their cursor across container reschedules.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool and ensures the cursor table exists.
func OpenPostgres(ctx context.Context, cfg config.DBConfig) (*PostgresStore, error) {
	connStr := BuildConnString(cfg)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create cursor table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Load reads the slot value.
func (s *PostgresStore) Load(ctx context.Context, slot string) (uint64, bool, error) {
	var value int64
	err := s.pool.QueryRow(ctx, `SELECT value FROM cursors WHERE slot = $1`, slot).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load cursor %q: %w", slot, err)
	}
	return uint64(value), true, nil
}

// Save upserts the slot value.
func (s *PostgresStore) Save(ctx context.Context, slot string, value uint64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cursors (slot, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (slot) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		slot, int64(value), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save cursor %q: %w", slot, err)
	}
	return nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// BuildConnString builds a PostgreSQL connection string from config.
func BuildConnString(cfg config.DBConfig) string {
	// URL-encode password to handle special characters
	escapedPassword := url.QueryEscape(cfg.Password)

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		escapedPassword,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
	)
}
