package cursor

import (
	"context"
	"fmt"

	"github.com/rickgao/dealsync/internal/config"
)

// Store persists named cursor slots. Implementations must make Save visible
// to a subsequent Load even across process restarts.
type Store interface {
	// Load reads the slot value. found is false when the slot has never been
	// written; callers treat that as cursor 0.
	Load(ctx context.Context, slot string) (value uint64, found bool, err error)

	// Save upserts the slot value.
	Save(ctx context.Context, slot string, value uint64) error

	// Close releases the backing connection.
	Close() error
}

// Open creates the Store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.CursorConfig) (Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	case "postgres":
		return OpenPostgres(ctx, cfg.Postgres)
	default:
		return nil, fmt.Errorf("unknown cursor backend %q", cfg.Backend)
	}
}
