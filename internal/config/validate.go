package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Account.ID == "" {
		return errors.New("account.id is required")
	}
	if c.Account.AccessToken == "" {
		return errors.New("account.access_token is required")
	}

	if c.Collector.URL == "" {
		return errors.New("collector.url is required")
	}
	if c.Collector.Timeout <= 0 {
		return errors.New("collector.timeout must be positive")
	}

	if c.Bridge.RestURL == "" {
		return errors.New("bridge.rest_url is required")
	}
	if c.Bridge.WSURL == "" {
		return errors.New("bridge.ws_url is required")
	}

	switch c.Cursor.Backend {
	case "sqlite":
		if c.Cursor.SQLitePath == "" {
			return errors.New("cursor.sqlite_path is required for the sqlite backend")
		}
	case "postgres":
		if err := c.Cursor.Postgres.validate("cursor.postgres"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("cursor.backend must be \"sqlite\" or \"postgres\", got %q", c.Cursor.Backend)
	}
	if c.Cursor.Slot == "" {
		return errors.New("cursor.slot is required")
	}

	if c.Backlog.Window < 1 {
		return fmt.Errorf("backlog.window must be >= 1, got %d", c.Backlog.Window)
	}

	if c.Feed.BufferSize < 1 {
		return errors.New("feed.buffer_size must be >= 1")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
