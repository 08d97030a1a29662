package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rickgao/dealsync/internal/model"
)

// Account carries the identity fields stamped on every payload. Both are
// opaque pass-through configuration values.
type Account struct {
	ID          string
	AccessToken string
}

// Encode renders the payload for a classified event, dispatching on its
// action. Open and close events carry a deal, updates carry a live
// position snapshot.
func Encode(acct Account, ev model.ClassifiedEvent) ([]byte, error) {
	switch ev.Action {
	case model.ActionPositionOpen, model.ActionPositionClose:
		if ev.Deal == nil {
			return nil, fmt.Errorf("%s event has no deal", ev.Action)
		}
		return encodeDeal(acct, *ev.Deal, ev.Action)
	case model.ActionPositionUpdate:
		if ev.Position == nil {
			return nil, fmt.Errorf("%s event has no position snapshot", ev.Action)
		}
		return EncodeUpdate(acct, *ev.Position)
	default:
		return nil, fmt.Errorf("action %q has no payload shape", ev.Action)
	}
}

// EncodeOpen renders a position_open payload from a position-entry deal.
func EncodeOpen(acct Account, d model.Deal) ([]byte, error) {
	return encodeDeal(acct, d, model.ActionPositionOpen)
}

// EncodeClose renders a position_close payload from a position-exit deal.
func EncodeClose(acct Account, d model.Deal) ([]byte, error) {
	return encodeDeal(acct, d, model.ActionPositionClose)
}

// EncodeUpdate renders a position_update payload from a live position
// snapshot.
func EncodeUpdate(acct Account, p model.Position) ([]byte, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("position snapshot has no id")
	}

	o := newObject()
	o.str("account_id", acct.ID)
	o.str("access_token", acct.AccessToken)
	o.unsigned("id", p.ID)
	o.str("symbol", p.Symbol)
	o.integer("type", int64(p.Type))
	o.num("volume", p.Volume, 2)
	o.num("price", p.OpenPrice, 5)
	o.num("current_price", p.CurrentPrice, 5)
	o.num("sl", p.StopLoss, 5)
	o.num("tp", p.TakeProfit, 5)
	o.num("profit", p.Profit, 2)
	o.integer("opened_at", p.OpenedAt)
	o.str("action", string(model.ActionPositionUpdate))
	o.integer("updated_at", p.UpdatedAt)

	return o.finish(), nil
}

// encodeDeal renders the shared open/close shape. The time field key is
// opened_at for opens and closed_at for closes.
func encodeDeal(acct Account, d model.Deal, action model.Action) ([]byte, error) {
	code, err := typeCode(d.Type)
	if err != nil {
		return nil, err
	}
	if d.PositionID == 0 {
		return nil, fmt.Errorf("deal %d has no position id", d.Ticket)
	}

	timeKey := "opened_at"
	if action == model.ActionPositionClose {
		timeKey = "closed_at"
	}

	o := newObject()
	o.str("account_id", acct.ID)
	o.str("access_token", acct.AccessToken)
	o.unsigned("id", d.PositionID)
	o.str("symbol", d.Symbol)
	o.integer("type", int64(code))
	o.num("volume", d.Volume, 2)
	o.num("price", d.Price, 5)
	o.num("profit", d.Profit, 2)
	o.integer(timeKey, d.Time)
	o.str("action", string(action))
	o.unsigned("deal_ticket", d.Ticket)

	return o.finish(), nil
}

// typeCode maps a deal direction onto the outbound integer code
// (0 buy, 1 sell).
func typeCode(t model.DealType) (int, error) {
	switch t {
	case model.DealBuy:
		return model.TypeBuy, nil
	case model.DealSell:
		return model.TypeSell, nil
	default:
		return 0, fmt.Errorf("deal type %q has no outbound code", t)
	}
}

// object accumulates JSON fields in caller order.
type object struct {
	buf bytes.Buffer
	n   int
}

func newObject() *object {
	o := &object{}
	o.buf.WriteByte('{')
	return o
}

func (o *object) key(k string) {
	if o.n > 0 {
		o.buf.WriteByte(',')
	}
	o.n++
	o.buf.WriteByte('"')
	o.buf.WriteString(k)
	o.buf.WriteString(`":`)
}

func (o *object) str(k, v string) {
	o.key(k)
	// json.Marshal of a string cannot fail; it handles escaping.
	b, _ := json.Marshal(v)
	o.buf.Write(b)
}

func (o *object) num(k string, v float64, places int) {
	o.key(k)
	o.buf.WriteString(strconv.FormatFloat(v, 'f', places, 64))
}

func (o *object) integer(k string, v int64) {
	o.key(k)
	o.buf.WriteString(strconv.FormatInt(v, 10))
}

func (o *object) unsigned(k string, v uint64) {
	o.key(k)
	o.buf.WriteString(strconv.FormatUint(v, 10))
}

func (o *object) finish() []byte {
	o.buf.WriteByte('}')
	return o.buf.Bytes()
}
