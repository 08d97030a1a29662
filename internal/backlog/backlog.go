// Package backlog implements the bounded historical catch-up pass run
// once at startup, before the live feed is enabled.
package backlog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/dealsync/internal/engine"
	"github.com/rickgao/dealsync/internal/metrics"
	"github.com/rickgao/dealsync/internal/model"
)

// HistorySource pages the terminal's deal history.
type HistorySource interface {
	DealCount(ctx context.Context) (int, error)
	DealTickets(ctx context.Context, offset, limit int) ([]uint64, error)
}

// EventProcessor consumes one event at a time.
type EventProcessor interface {
	Process(ctx context.Context, event model.RawEvent) engine.Result
}

// Config holds backlog pass configuration.
type Config struct {
	Enabled    bool
	Window     int           // how many most-recent deals to scan
	PauseEvery int           // items between inline pauses, 0 disables
	Pause      time.Duration // inline pause length
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Window:     50,
		PauseEvery: 10,
		Pause:      50 * time.Millisecond,
	}
}

// Report summarizes one backlog pass.
type Report struct {
	Total      int // deals in terminal history
	Scanned    int // tickets inspected inside the window
	Emitted    int // payloads handed to the transport
	Suppressed int
	Failed     int // classified but no payload produced
	Duration   time.Duration
}

// Processor runs the catch-up pass.
type Processor struct {
	cfg    Config
	source HistorySource
	proc   EventProcessor
	logger *slog.Logger
}

// New creates a backlog processor.
func New(cfg Config, source HistorySource, proc EventProcessor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		cfg:    cfg,
		source: source,
		proc:   proc,
		logger: logger,
	}
}

// Run scans the most recent Window deals oldest-first and feeds each
// through the engine, which dedupes against the cursor as usual. The
// pass is strictly sequential and completes before the caller starts
// live delivery. A history fetch failure is fatal: without the source
// there is nothing to sync.
func (p *Processor) Run(ctx context.Context) (Report, error) {
	if !p.cfg.Enabled {
		p.logger.Info("backlog pass disabled, skipping")
		return Report{}, nil
	}

	start := time.Now()

	total, err := p.source.DealCount(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("deal count: %w", err)
	}

	// Full-history replay is unbounded cost; only the trailing window
	// is ever inspected.
	offset := total - p.cfg.Window
	if offset < 0 {
		offset = 0
	}

	tickets, err := p.source.DealTickets(ctx, offset, p.cfg.Window)
	if err != nil {
		return Report{}, fmt.Errorf("deal tickets: %w", err)
	}

	report := Report{Total: total}

	for i, ticket := range tickets {
		select {
		case <-ctx.Done():
			report.Duration = time.Since(start)
			return report, ctx.Err()
		default:
		}

		event := model.RawEvent{
			EventID:    uuid.New(),
			Kind:       model.KindDealAdded,
			Ticket:     ticket,
			ReceivedAt: time.Now(),
		}

		result := p.proc.Process(ctx, event)
		report.Scanned++
		switch {
		case result.Suppressed:
			report.Suppressed++
		case result.Status != 0:
			// A delivery attempt happened, whatever its outcome.
			report.Emitted++
		default:
			report.Failed++
		}

		// Pause inline between chunks; never a background timer.
		if p.cfg.Pause > 0 && p.cfg.PauseEvery > 0 && (i+1)%p.cfg.PauseEvery == 0 {
			select {
			case <-ctx.Done():
				report.Duration = time.Since(start)
				return report, ctx.Err()
			case <-time.After(p.cfg.Pause):
			}
		}
	}

	metrics.RecordBacklogScanned(report.Scanned)
	report.Duration = time.Since(start)

	p.logger.Info("backlog pass complete",
		"total", total,
		"offset", offset,
		"scanned", report.Scanned,
		"emitted", report.Emitted,
		"suppressed", report.Suppressed,
		"failed", report.Failed,
		"duration", report.Duration,
	)

	return report, nil
}
