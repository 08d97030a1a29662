package engine

import "github.com/rickgao/dealsync/internal/model"

// SuppressReason states why an event produced no outbound message.
type SuppressReason string

const (
	// ReasonDuplicate marks a deal ticket at or below the cursor.
	ReasonDuplicate SuppressReason = "duplicate"

	// ReasonDetailUnavailable marks an event whose detail fetch failed.
	ReasonDetailUnavailable SuppressReason = "detail_unavailable"

	// ReasonOutOfScope marks deals that are not buy/sell entries or
	// exits (balance operations, corrective entries, and the like).
	ReasonOutOfScope SuppressReason = "out_of_scope"

	// ReasonPositionGone marks a position update whose position had
	// already closed by snapshot time. An expected race, not a failure.
	ReasonPositionGone SuppressReason = "position_gone"

	// ReasonOrderEvent marks order change events, which are never
	// forwarded.
	ReasonOrderEvent SuppressReason = "order_event"
)

// Result records what the engine decided for one event. Suppressions
// carry the reason so callers and tests can assert why nothing was
// emitted, not just that nothing was.
type Result struct {
	// Action is the emitted action name, empty when suppressed.
	Action string

	// Event is the classification derived for the event, nil when
	// suppressed.
	Event *model.ClassifiedEvent

	// Suppressed is true when no message was produced.
	Suppressed bool

	// Reason is set iff Suppressed.
	Reason SuppressReason

	// Delivered is true when the collector acknowledged the payload.
	Delivered bool

	// Status is the delivery HTTP status, -1 for a transport failure,
	// 0 when nothing was sent.
	Status int

	// CursorAdvanced is true when this event moved the deal cursor.
	CursorAdvanced bool

	// Err holds errors the engine absorbed without stopping: a cursor
	// persistence failure, a failed detail fetch behind a suppression,
	// or a transport-level delivery failure.
	Err error
}
