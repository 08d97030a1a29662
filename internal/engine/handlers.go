package engine

import (
	"context"
	"errors"

	"github.com/rickgao/dealsync/internal/metrics"
	"github.com/rickgao/dealsync/internal/model"
	"github.com/rickgao/dealsync/internal/payload"
	"github.com/rickgao/dealsync/internal/terminal"
)

// processDeal applies the deal rules: dedupe by cursor, fetch detail,
// scope-check, classify, advance and persist the cursor, then deliver.
func (e *Engine) processDeal(ctx context.Context, event model.RawEvent) Result {
	ticket := event.Ticket

	// The sole dedupe check: a ticket at or below the cursor has
	// already been handled.
	if ticket <= e.Cursor() {
		return e.suppress(event, ReasonDuplicate, nil)
	}

	deal, err := e.deals.DealByTicket(ctx, ticket)
	if err != nil {
		e.logger.Warn("deal detail fetch failed",
			"ticket", ticket,
			"event_id", event.EventID,
			"error", err,
		)
		return e.suppress(event, ReasonDetailUnavailable, err)
	}

	// Balance operations, corrective entries and other non-trade deals
	// never advance the cursor, so a later valid deal with a higher
	// ticket is unaffected.
	outOfScope := (deal.Type != model.DealBuy && deal.Type != model.DealSell) ||
		(deal.Entry != model.EntryIn && deal.Entry != model.EntryOut)
	if outOfScope {
		return e.suppress(event, ReasonOutOfScope, nil)
	}

	action := model.ActionPositionOpen
	if deal.Entry == model.EntryOut {
		action = model.ActionPositionClose
	}
	classified := model.ClassifiedEvent{Action: action, Deal: deal}

	// Commit the ticket. The compare-and-advance can only lose to a
	// concurrent caller that committed the same ticket first.
	if !e.advanceCursor(ticket) {
		return e.suppress(event, ReasonDuplicate, nil)
	}

	// Persist before delivery: a crash after this point never replays
	// this deal. Delivery failure never rolls the cursor back.
	persistErr := e.persistCursor(ctx, ticket)

	body, err := payload.Encode(e.cfg.Account, classified)
	if err != nil {
		e.logger.Error("payload encode failed",
			"ticket", ticket,
			"event_id", event.EventID,
			"error", err,
		)
		return Result{
			Action:         string(action),
			Event:          &classified,
			CursorAdvanced: true,
			Err:            errors.Join(persistErr, err),
		}
	}

	metrics.RecordEventEmitted(string(action))
	e.mu.Lock()
	e.stats.Emitted++
	e.mu.Unlock()

	outcome := e.deliverer.Deliver(ctx, body)
	if outcome.Delivered() {
		e.mu.Lock()
		e.stats.Delivered++
		e.mu.Unlock()
	}

	e.logger.Info("deal processed",
		"ticket", ticket,
		"position", classified.PositionID(),
		"action", action,
		"status", outcome.Status,
		"event_id", event.EventID,
	)

	return Result{
		Action:         string(action),
		Event:          &classified,
		Delivered:      outcome.Delivered(),
		Status:         outcome.Status,
		CursorAdvanced: true,
		Err:            errors.Join(persistErr, outcome.Err),
	}
}

// processPositionChange re-reads the live snapshot at emission time and
// forwards it. Position updates are idempotent snapshots: they carry no
// cursor interaction and may be re-sent freely.
func (e *Engine) processPositionChange(ctx context.Context, event model.RawEvent) Result {
	pos, err := e.positions.PositionByID(ctx, event.Ticket)
	if err != nil {
		if errors.Is(err, terminal.ErrPositionGone) {
			// The position closed between the change notification and
			// the read. Expected race, nothing to send.
			return e.suppress(event, ReasonPositionGone, nil)
		}
		e.logger.Warn("position snapshot fetch failed",
			"position", event.Ticket,
			"event_id", event.EventID,
			"error", err,
		)
		return e.suppress(event, ReasonDetailUnavailable, err)
	}

	classified := model.ClassifiedEvent{Action: model.ActionPositionUpdate, Position: pos}

	body, err := payload.Encode(e.cfg.Account, classified)
	if err != nil {
		e.logger.Error("payload encode failed",
			"position", event.Ticket,
			"event_id", event.EventID,
			"error", err,
		)
		return Result{
			Action: string(model.ActionPositionUpdate),
			Event:  &classified,
			Err:    err,
		}
	}

	metrics.RecordEventEmitted(string(model.ActionPositionUpdate))
	e.mu.Lock()
	e.stats.Emitted++
	e.mu.Unlock()

	outcome := e.deliverer.Deliver(ctx, body)
	if outcome.Delivered() {
		e.mu.Lock()
		e.stats.Delivered++
		e.mu.Unlock()
	}

	e.logger.Info("position update processed",
		"position", pos.ID,
		"symbol", pos.Symbol,
		"status", outcome.Status,
		"event_id", event.EventID,
	)

	return Result{
		Action:    string(model.ActionPositionUpdate),
		Event:     &classified,
		Delivered: outcome.Delivered(),
		Status:    outcome.Status,
		Err:       outcome.Err,
	}
}
