package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rickgao/dealsync/internal/collector"
	"github.com/rickgao/dealsync/internal/cursor"
	"github.com/rickgao/dealsync/internal/metrics"
	"github.com/rickgao/dealsync/internal/model"
	"github.com/rickgao/dealsync/internal/payload"
)

// DealSource fetches full deal detail by ticket.
type DealSource interface {
	DealByTicket(ctx context.Context, ticket uint64) (*model.Deal, error)
}

// PositionSource fetches the live snapshot of an open position.
type PositionSource interface {
	PositionByID(ctx context.Context, id uint64) (*model.Position, error)
}

// Config carries the engine's injected state.
type Config struct {
	Account payload.Account

	// Slot is the cursor store slot this engine persists to.
	Slot string

	// InitialCursor is the persisted cursor value loaded at startup,
	// zero when none exists.
	InitialCursor uint64
}

// Stats contains processing counters since startup.
type Stats struct {
	Received   int64
	Suppressed int64
	Emitted    int64
	Delivered  int64
	Cursor     uint64
}

// Engine is the deduplication and classification core. Events enter one
// at a time through Process; the backlog pass runs to completion before
// the live feed starts, so callers are serialized. The cursor check and
// advance are still one mutex-guarded critical section so the invariant
// holds even under a concurrent caller.
type Engine struct {
	cfg       Config
	store     cursor.Store
	deals     DealSource
	positions PositionSource
	deliverer collector.Deliverer
	logger    *slog.Logger

	mu     sync.Mutex
	cursor uint64
	stats  Stats
}

// New creates an engine with an injected starting cursor value.
func New(
	cfg Config,
	store cursor.Store,
	deals DealSource,
	positions PositionSource,
	deliverer collector.Deliverer,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	metrics.SetCursor(cfg.InitialCursor)

	return &Engine{
		cfg:       cfg,
		store:     store,
		deals:     deals,
		positions: positions,
		deliverer: deliverer,
		logger:    logger,
		cursor:    cfg.InitialCursor,
	}
}

// Process handles one event and reports what was decided. It blocks only
// for the bounded detail fetch and delivery calls.
func (e *Engine) Process(ctx context.Context, event model.RawEvent) Result {
	metrics.RecordEventReceived(string(event.Kind))
	e.mu.Lock()
	e.stats.Received++
	e.mu.Unlock()

	switch event.Kind {
	case model.KindDealAdded:
		return e.processDeal(ctx, event)
	case model.KindPositionChanged:
		return e.processPositionChange(ctx, event)
	case model.KindOrderChanged:
		// Reserved extension point: order events never emit and never
		// error.
		return e.suppress(event, ReasonOrderEvent, nil)
	default:
		return e.suppress(event, ReasonOutOfScope, nil)
	}
}

// Cursor returns the current in-memory cursor value.
func (e *Engine) Cursor() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// Stats returns current processing counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := e.stats
	stats.Cursor = e.cursor
	return stats
}

// advanceCursor moves the cursor to ticket if it is still ahead. The
// compare and the write are a single critical section so a ticket can be
// committed at most once.
func (e *Engine) advanceCursor(ticket uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ticket <= e.cursor {
		return false
	}
	e.cursor = ticket
	return true
}

// persistCursor saves the advanced cursor synchronously. A save failure
// does not roll back the in-memory value: a crash before the next
// successful save re-delivers at most the deals processed since.
func (e *Engine) persistCursor(ctx context.Context, ticket uint64) error {
	metrics.SetCursor(ticket)

	if err := e.store.Save(ctx, e.cfg.Slot, ticket); err != nil {
		metrics.RecordCursorSaveError()
		e.logger.Error("cursor save failed",
			"slot", e.cfg.Slot,
			"ticket", ticket,
			"error", err,
		)
		return fmt.Errorf("cursor save: %w", err)
	}

	return nil
}

// suppress records a suppression and returns its result. err, when
// non-nil, is the absorbed cause (e.g. a failed detail fetch).
func (e *Engine) suppress(event model.RawEvent, reason SuppressReason, err error) Result {
	metrics.RecordEventSuppressed(string(reason))
	e.mu.Lock()
	e.stats.Suppressed++
	e.mu.Unlock()

	e.logger.Debug("event suppressed",
		"kind", event.Kind,
		"ticket", event.Ticket,
		"reason", reason,
		"event_id", event.EventID,
	)

	return Result{Suppressed: true, Reason: reason, Err: err}
}
