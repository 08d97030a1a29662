package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/dealsync/internal/metrics"
	"github.com/rickgao/dealsync/internal/model"
)

// Watcher supervises the stream connection. It decodes incoming frames
// into events, reconnects with exponential backoff when the connection
// drops, and never refetches events missed while disconnected.
type Watcher struct {
	cfg    WatcherConfig
	logger *slog.Logger

	// dial builds a fresh client per connection attempt. Overridable in tests.
	dial func(ClientConfig, *slog.Logger) Client

	events chan model.RawEvent

	mu     sync.RWMutex
	client Client

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher for the bridge stream. Zero config fields
// fall back to DefaultWatcherConfig values.
func NewWatcher(cfg WatcherConfig, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	def := DefaultWatcherConfig()
	if cfg.PingTimeout == 0 {
		cfg.PingTimeout = def.PingTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.ReconnectBaseDelay == 0 {
		cfg.ReconnectBaseDelay = def.ReconnectBaseDelay
	}
	if cfg.ReconnectMaxDelay == 0 {
		cfg.ReconnectMaxDelay = def.ReconnectMaxDelay
	}

	return &Watcher{
		cfg:    cfg,
		logger: logger,
		dial:   NewClient,
		events: make(chan model.RawEvent, cfg.BufferSize),
	}
}

// Start connects to the stream and begins decoding frames. A failed
// initial connection is not fatal; the watcher keeps retrying in the
// background while the caller proceeds.
func (w *Watcher) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)

	client := w.dial(w.clientConfig(), w.logger)
	if err := client.Connect(w.ctx); err != nil {
		w.logger.Warn("initial stream connection failed, retrying in background", "error", err)
	} else {
		metrics.SetFeedConnected(true)
		w.logger.Info("stream connected", "url", w.cfg.URL)
	}

	w.mu.Lock()
	w.client = client
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run()

	return nil
}

// Stop shuts down the watcher and closes the stream connection.
func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	metrics.SetFeedConnected(false)

	w.mu.RLock()
	client := w.client
	w.mu.RUnlock()

	if client != nil {
		return client.Close()
	}

	return nil
}

// Events returns the channel of decoded events.
func (w *Watcher) Events() <-chan model.RawEvent {
	return w.events
}

// IsConnected reports whether the stream connection is currently up.
func (w *Watcher) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.client != nil && w.client.IsConnected()
}

func (w *Watcher) clientConfig() ClientConfig {
	return ClientConfig{
		URL:          w.cfg.URL,
		AuthToken:    w.cfg.AuthToken,
		PingTimeout:  w.cfg.PingTimeout,
		WriteTimeout: w.cfg.WriteTimeout,
		BufferSize:   w.cfg.BufferSize,
	}
}

// run consumes frames from the current connection, reconnecting whenever
// it fails, until the watcher context is cancelled.
func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		w.mu.RLock()
		client := w.client
		w.mu.RUnlock()

		// A half-open connection keeps its read loop blocked and its
		// connected flag set, so the flag cannot gate the redial. Once
		// consume reports an error the client is gone; close it and
		// dial fresh.
		if client.IsConnected() {
			if !w.consume(client) {
				return
			}
		}

		if !w.reconnect() {
			return
		}
	}
}

// consume drains frames until the connection fails. Returns false when
// the watcher is shutting down.
func (w *Watcher) consume(client Client) bool {
	for {
		select {
		case <-w.ctx.Done():
			return false
		case msg := <-client.Messages():
			w.handleFrame(msg)
		case err := <-client.Errors():
			w.logger.Warn("stream connection lost", "error", err)
			metrics.SetFeedConnected(false)
			return true
		}
	}
}

// reconnect dials a fresh connection with exponential backoff. Returns
// false when the watcher is shutting down.
func (w *Watcher) reconnect() bool {
	w.mu.RLock()
	old := w.client
	w.mu.RUnlock()

	if old != nil {
		old.Close()
	}

	wait := w.cfg.ReconnectBaseDelay

	for {
		select {
		case <-w.ctx.Done():
			return false
		case <-time.After(wait):
		}

		w.logger.Info("attempting stream reconnection", "wait", wait)
		metrics.RecordFeedReconnect()

		client := w.dial(w.clientConfig(), w.logger)
		if err := client.Connect(w.ctx); err != nil {
			w.logger.Warn("stream reconnection failed", "error", err)

			wait *= 2
			if wait > w.cfg.ReconnectMaxDelay {
				wait = w.cfg.ReconnectMaxDelay
			}
			continue
		}

		w.mu.Lock()
		w.client = client
		w.mu.Unlock()

		metrics.SetFeedConnected(true)
		w.logger.Info("stream reconnected")

		return true
	}
}

// handleFrame decodes a raw frame and forwards it as an event.
func (w *Watcher) handleFrame(msg TimestampedMessage) {
	var frame Frame
	if err := json.Unmarshal(msg.Data, &frame); err != nil {
		w.logger.Warn("dropping undecodable frame", "error", err)
		metrics.RecordFeedDropped()
		return
	}

	kind, ok := eventKind(frame.Kind)
	if !ok {
		w.logger.Warn("dropping frame with unknown kind", "kind", frame.Kind)
		metrics.RecordFeedDropped()
		return
	}

	event := model.RawEvent{
		EventID:    uuid.New(),
		Kind:       kind,
		Ticket:     frame.Ticket,
		ReceivedAt: msg.ReceivedAt,
	}

	w.logger.Debug("event decoded",
		"event_id", event.EventID,
		"kind", event.Kind,
		"ticket", event.Ticket,
	)

	select {
	case w.events <- event:
	default:
		w.logger.Warn("event buffer full, dropping event",
			"event_id", event.EventID,
			"kind", frame.Kind,
			"ticket", frame.Ticket,
		)
		metrics.RecordFeedDropped()
	}
}

// eventKind maps a wire kind string onto a known event kind.
func eventKind(s string) (model.EventKind, bool) {
	switch kind := model.EventKind(s); kind {
	case model.KindDealAdded, model.KindPositionChanged, model.KindOrderChanged:
		return kind, true
	default:
		return "", false
	}
}
