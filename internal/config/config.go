package config

import "time"

// Config is the root configuration for a syncer instance.
type Config struct {
	Account   AccountConfig   `yaml:"account"`
	Collector CollectorConfig `yaml:"collector"`
	Bridge    BridgeConfig    `yaml:"bridge"`
	Cursor    CursorConfig    `yaml:"cursor"`
	Backlog   BacklogConfig   `yaml:"backlog"`
	Feed      FeedConfig      `yaml:"feed"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Debug     bool            `yaml:"debug"`
}

// AccountConfig identifies the trading account being synchronized. Both
// fields are opaque pass-through values stamped into every outbound payload.
type AccountConfig struct {
	ID          string `yaml:"id"`           // Free-text account label
	AccessToken string `yaml:"access_token"` // Shared credential the collector uses to trust the account
}

// CollectorConfig holds the outbound webhook settings.
type CollectorConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// BridgeConfig holds terminal bridge API settings.
type BridgeConfig struct {
	RestURL   string        `yaml:"rest_url"`
	WSURL     string        `yaml:"ws_url"`
	AuthToken string        `yaml:"auth_token"` // Optional static bearer token
	Timeout   time.Duration `yaml:"timeout"`
}

// CursorConfig holds cursor persistence settings.
type CursorConfig struct {
	Backend    string   `yaml:"backend"`     // "sqlite" (default) or "postgres"
	Slot       string   `yaml:"slot"`        // Slot name; empty derives "cursor:<account id>"
	SQLitePath string   `yaml:"sqlite_path"` // SQLite only
	Postgres   DBConfig `yaml:"postgres"`    // Postgres only
}

// DBConfig holds a single PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// BacklogConfig holds startup catch-up settings.
type BacklogConfig struct {
	Enabled *bool `yaml:"enabled"` // nil = enabled; the pass is on unless switched off
	Window  int   `yaml:"window"`  // Max historical deals scanned at startup
}

// FeedConfig holds live event feed settings.
type FeedConfig struct {
	BufferSize         int           `yaml:"buffer_size"`
	PingTimeout        time.Duration `yaml:"ping_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
}

// MetricsConfig holds the local health/metrics HTTP server settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
