package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestModelTypes validates that model types can be instantiated correctly.
func TestModelTypes(t *testing.T) {
	t.Run("RawEvent", func(t *testing.T) {
		ev := RawEvent{
			EventID:    uuid.New(),
			Kind:       KindDealAdded,
			Ticket:     90215001,
			ReceivedAt: time.Unix(1755770400, 0),
		}

		if ev.Kind != KindDealAdded {
			t.Errorf("Kind = %q, want %q", ev.Kind, KindDealAdded)
		}
		if ev.Ticket != 90215001 {
			t.Errorf("Ticket = %d, want %d", ev.Ticket, 90215001)
		}
		if ev.EventID == uuid.Nil {
			t.Error("EventID should not be nil")
		}
	})

	t.Run("Deal", func(t *testing.T) {
		d := Deal{
			Ticket:     90215001,
			PositionID: 81007443,
			Symbol:     "EURUSD",
			Type:       DealBuy,
			Entry:      EntryIn,
			Volume:     0.1,
			Price:      1.08345,
			Profit:     0,
			Time:       1755770400,
		}

		if d.Type != DealBuy {
			t.Errorf("Type = %q, want %q", d.Type, DealBuy)
		}
		if d.Entry != EntryIn {
			t.Errorf("Entry = %q, want %q", d.Entry, EntryIn)
		}
		if d.PositionID != 81007443 {
			t.Errorf("PositionID = %d, want %d", d.PositionID, 81007443)
		}
	})

	t.Run("Position", func(t *testing.T) {
		p := Position{
			ID:           81007443,
			Symbol:       "EURUSD",
			Type:         TypeSell,
			Volume:       0.25,
			OpenPrice:    1.08345,
			CurrentPrice: 1.08122,
			StopLoss:     1.08900,
			TakeProfit:   1.07500,
			Profit:       55.75,
			OpenedAt:     1755770400,
			UpdatedAt:    1755774000,
		}

		if p.Type != TypeSell {
			t.Errorf("Type = %d, want %d", p.Type, TypeSell)
		}
		if p.ID != 81007443 {
			t.Errorf("ID = %d, want %d", p.ID, 81007443)
		}
	})
}

func TestClassifiedEventPositionID(t *testing.T) {
	tests := []struct {
		name string
		ev   ClassifiedEvent
		want uint64
	}{
		{
			name: "deal variant",
			ev: ClassifiedEvent{
				Action: ActionPositionOpen,
				Deal:   &Deal{Ticket: 501, PositionID: 400},
			},
			want: 400,
		},
		{
			name: "position variant",
			ev: ClassifiedEvent{
				Action:   ActionPositionUpdate,
				Position: &Position{ID: 400},
			},
			want: 400,
		},
		{
			name: "empty",
			ev:   ClassifiedEvent{},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.PositionID(); got != tt.want {
				t.Errorf("PositionID() = %d, want %d", got, tt.want)
			}
		})
	}
}
