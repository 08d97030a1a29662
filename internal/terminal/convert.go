package terminal

import (
	"github.com/rickgao/dealsync/internal/model"
)

// ToDeal converts a bridge deal to the internal model. Type and entry strings
// pass through untranslated; values outside the model's known constants are
// valid data and classified as out of scope downstream.
func ToDeal(d APIDeal) model.Deal {
	return model.Deal{
		Ticket:     d.Ticket,
		PositionID: d.PositionID,
		Symbol:     d.Symbol,
		Type:       model.DealType(d.Type),
		Entry:      model.DealEntry(d.Entry),
		Volume:     d.Volume,
		Price:      d.Price,
		Profit:     d.Profit,
		Time:       d.Time,
	}
}

// ToPosition converts a bridge position to the internal model.
func ToPosition(p APIPosition) model.Position {
	return model.Position{
		ID:           p.ID,
		Symbol:       p.Symbol,
		Type:         PositionTypeCode(p.Type),
		Volume:       p.Volume,
		OpenPrice:    p.OpenPrice,
		CurrentPrice: p.CurrentPrice,
		StopLoss:     p.StopLoss,
		TakeProfit:   p.TakeProfit,
		Profit:       p.Profit,
		OpenedAt:     p.OpenedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// PositionTypeCode converts a bridge direction string to the payload code.
// "buy" -> 0, "sell" -> 1. Unknown strings map to buy; the bridge only
// reports the two directions for open positions.
func PositionTypeCode(s string) int {
	if s == "sell" {
		return model.TypeSell
	}
	return model.TypeBuy
}
