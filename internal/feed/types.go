package feed

import (
	"errors"
	"time"
)

// Errors
var (
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// TimestampedMessage wraps raw frame bytes with a receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw frame bytes from the WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// Frame is the wire shape of a bridge stream event.
type Frame struct {
	Kind   string `json:"kind"`   // "deal_added", "position_changed", "order_changed"
	Ticket uint64 `json:"ticket"` // Deal, position, or order ticket
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL          string        // Stream URL (e.g., ws://127.0.0.1:6542/api/v1/stream)
	AuthToken    string        // Optional static bearer token
	PingTimeout  time.Duration // Max time without ping before considering connection stale
	WriteTimeout time.Duration // Write deadline for control frames
	BufferSize   int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PingTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   1024,
	}
}

// WatcherConfig configures the feed watcher.
type WatcherConfig struct {
	URL                string        // Stream URL
	AuthToken          string        // Optional static bearer token
	PingTimeout        time.Duration // Passed through to the client
	WriteTimeout       time.Duration // Passed through to the client
	BufferSize         int           // Event channel buffer size
	ReconnectBaseDelay time.Duration // Base wait time for reconnection
	ReconnectMaxDelay  time.Duration // Max wait time for reconnection
}

// DefaultWatcherConfig returns sensible defaults.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		PingTimeout:        60 * time.Second,
		WriteTimeout:       5 * time.Second,
		BufferSize:         1024,
		ReconnectBaseDelay: 1 * time.Second,
		ReconnectMaxDelay:  60 * time.Second,
	}
}
