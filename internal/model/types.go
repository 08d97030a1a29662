package model

import (
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Event Types
// -----------------------------------------------------------------------------

// EventKind identifies what the terminal reported as changed.
type EventKind string

const (
	KindDealAdded       EventKind = "deal_added"
	KindPositionChanged EventKind = "position_changed"
	KindOrderChanged    EventKind = "order_changed"
)

// RawEvent is a terminal-observed occurrence, normalized from a feed frame or
// synthesized by the backlog pass. Detail is not carried inline: the engine
// fetches it by ticket, so a slow or racing terminal shows up as a fetch
// failure on one event rather than a stale payload.
type RawEvent struct {
	EventID    uuid.UUID // Local correlation id for logs, never sent outbound
	Kind       EventKind // What changed
	Ticket     uint64    // Subject identifier (deal, position, or order ticket)
	ReceivedAt time.Time // When the event entered the pipeline
}

// -----------------------------------------------------------------------------
// Terminal Records
// -----------------------------------------------------------------------------

// DealType is the direction of an executed deal. The bridge reports other
// values too (balance operations, credits, corrections); only buy and sell
// are in scope for synchronization.
type DealType string

const (
	DealBuy  DealType = "buy"
	DealSell DealType = "sell"
)

// DealEntry tells whether a deal opened or closed position exposure. The
// bridge also reports "inout" (reversal) and "out_by" (close-by); those are
// out of scope.
type DealEntry string

const (
	EntryIn  DealEntry = "in"
	EntryOut DealEntry = "out"
)

// Deal is the full detail of an executed trade fill, fetched by ticket.
type Deal struct {
	Ticket     uint64    // Primary key, terminal-assigned
	PositionID uint64    // Aggregate id shared by the open and close deals of one position
	Symbol     string    // Instrument (e.g., "EURUSD")
	Type       DealType  // buy / sell / other
	Entry      DealEntry // in / out / other
	Volume     float64   // Lots
	Price      float64   // Execution price
	Profit     float64   // Realized profit in account currency (0 for entry deals)
	Time       int64     // Execution time (seconds since epoch)
}

// Position direction codes used in outbound payloads.
const (
	TypeBuy  = 0
	TypeSell = 1
)

// Position is a live snapshot of an open position, fetched by id at emission
// time. It reflects terminal state at the moment of the read, not the state
// carried by whatever notification triggered the read.
type Position struct {
	ID           uint64  // Position ticket, terminal-assigned
	Symbol       string  // Instrument
	Type         int     // TypeBuy or TypeSell
	Volume       float64 // Current lots
	OpenPrice    float64 // Volume-weighted open price
	CurrentPrice float64 // Last quote for the symbol
	StopLoss     float64 // 0 when unset
	TakeProfit   float64 // 0 when unset
	Profit       float64 // Floating profit in account currency
	OpenedAt     int64   // Open time (seconds since epoch)
	UpdatedAt    int64   // Last modification time (seconds since epoch)
}

// -----------------------------------------------------------------------------
// Classification Output
// -----------------------------------------------------------------------------

// Action is the semantic state transition an event represents.
type Action string

const (
	ActionPositionOpen   Action = "position_open"
	ActionPositionClose  Action = "position_close"
	ActionPositionUpdate Action = "position_update"
)

// ClassifiedEvent is the engine's output for an event that should be
// delivered. Exactly one of Deal or Position is set: Deal for open/close
// actions, Position for update actions. Ephemeral, never persisted.
type ClassifiedEvent struct {
	Action   Action
	Deal     *Deal     // Set for position_open / position_close
	Position *Position // Set for position_update
}

// PositionID returns the stable aggregate id used as the outbound "id" field.
func (e ClassifiedEvent) PositionID() uint64 {
	switch {
	case e.Deal != nil:
		return e.Deal.PositionID
	case e.Position != nil:
		return e.Position.ID
	}
	return 0
}
