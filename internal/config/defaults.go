package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultCollectorURL       = "https://collector.dealsync.io/api/v1/events"
	DefaultCollectorTimeout   = 5 * time.Second
	DefaultBridgeRestURL      = "http://127.0.0.1:6542"
	DefaultBridgeWSURL        = "ws://127.0.0.1:6542/api/v1/stream"
	DefaultBridgeTimeout      = 10 * time.Second
	DefaultCursorBackend      = "sqlite"
	DefaultSQLitePath         = "dealsync.db"
	DefaultBacklogWindow      = 50
	DefaultDBPort             = 5432
	DefaultDBSSLMode          = "prefer"
	DefaultMaxConns           = 2
	DefaultMinConns           = 0
	DefaultFeedBufferSize     = 1024
	DefaultPingTimeout        = 60 * time.Second
	DefaultWriteTimeout       = 5 * time.Second
	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 60 * time.Second
	DefaultMetricsPort        = 8090
	DefaultMetricsPath        = "/metrics"
)

func (c *Config) applyDefaults() {
	// Collector defaults
	if c.Collector.URL == "" {
		c.Collector.URL = DefaultCollectorURL
	}
	if c.Collector.Timeout == 0 {
		c.Collector.Timeout = DefaultCollectorTimeout
	}

	// Bridge defaults
	if c.Bridge.RestURL == "" {
		c.Bridge.RestURL = DefaultBridgeRestURL
	}
	if c.Bridge.WSURL == "" {
		c.Bridge.WSURL = DefaultBridgeWSURL
	}
	if c.Bridge.Timeout == 0 {
		c.Bridge.Timeout = DefaultBridgeTimeout
	}

	// Cursor defaults
	if c.Cursor.Backend == "" {
		c.Cursor.Backend = DefaultCursorBackend
	}
	if c.Cursor.Slot == "" && c.Account.ID != "" {
		c.Cursor.Slot = "cursor:" + c.Account.ID
	}
	if c.Cursor.SQLitePath == "" {
		c.Cursor.SQLitePath = DefaultSQLitePath
	}
	applyDBDefaults(&c.Cursor.Postgres)

	// Backlog defaults
	if c.Backlog.Enabled == nil {
		enabled := true
		c.Backlog.Enabled = &enabled
	}
	if c.Backlog.Window == 0 {
		c.Backlog.Window = DefaultBacklogWindow
	}

	// Feed defaults
	if c.Feed.BufferSize == 0 {
		c.Feed.BufferSize = DefaultFeedBufferSize
	}
	if c.Feed.PingTimeout == 0 {
		c.Feed.PingTimeout = DefaultPingTimeout
	}
	if c.Feed.WriteTimeout == 0 {
		c.Feed.WriteTimeout = DefaultWriteTimeout
	}
	if c.Feed.ReconnectBaseDelay == 0 {
		c.Feed.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Feed.ReconnectMaxDelay == 0 {
		c.Feed.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

// BacklogEnabled reports whether the startup catch-up pass should run.
func (c *Config) BacklogEnabled() bool {
	return c.Backlog.Enabled == nil || *c.Backlog.Enabled
}
