package terminal

import (
	"testing"

	"github.com/rickgao/dealsync/internal/model"
)

func TestToDeal(t *testing.T) {
	d := ToDeal(APIDeal{
		Ticket:     501,
		PositionID: 400,
		Symbol:     "EURUSD",
		Type:       "buy",
		Entry:      "in",
		Volume:     0.1,
		Price:      1.08345,
		Profit:     0,
		Time:       1755770400,
	})

	if d.Ticket != 501 {
		t.Errorf("Ticket = %d, want 501", d.Ticket)
	}
	if d.Type != model.DealBuy {
		t.Errorf("Type = %q, want %q", d.Type, model.DealBuy)
	}
	if d.Entry != model.EntryIn {
		t.Errorf("Entry = %q, want %q", d.Entry, model.EntryIn)
	}
}

func TestToDealPreservesUnknownKinds(t *testing.T) {
	d := ToDeal(APIDeal{Ticket: 502, Type: "balance", Entry: "inout"})

	if d.Type == model.DealBuy || d.Type == model.DealSell {
		t.Errorf("Type = %q, unknown kinds must not collapse into buy/sell", d.Type)
	}
	if d.Entry == model.EntryIn || d.Entry == model.EntryOut {
		t.Errorf("Entry = %q, unknown kinds must not collapse into in/out", d.Entry)
	}
}

func TestToPosition(t *testing.T) {
	p := ToPosition(APIPosition{
		ID:           400,
		Symbol:       "XAUUSD",
		Type:         "sell",
		Volume:       0.25,
		OpenPrice:    2311.5,
		CurrentPrice: 2309.89,
		StopLoss:     2320,
		TakeProfit:   2290,
		Profit:       40.25,
		OpenedAt:     1755770400,
		UpdatedAt:    1755774000,
	})

	if p.ID != 400 {
		t.Errorf("ID = %d, want 400", p.ID)
	}
	if p.Type != model.TypeSell {
		t.Errorf("Type = %d, want %d", p.Type, model.TypeSell)
	}
	if p.CurrentPrice != 2309.89 {
		t.Errorf("CurrentPrice = %v, want 2309.89", p.CurrentPrice)
	}
}

func TestPositionTypeCode(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"buy", model.TypeBuy},
		{"sell", model.TypeSell},
		{"", model.TypeBuy},
	}

	for _, tt := range tests {
		got := PositionTypeCode(tt.input)
		if got != tt.want {
			t.Errorf("PositionTypeCode(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
