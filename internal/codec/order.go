package codec

import (
	"tradereport/internal/model"
	"tradereport/internal/model/enum"
	"tradereport/internal/order"
)

// EncodeOrder serializes accepted order parameters. Ids and symbols longer
// than 65535 bytes are rejected with exception.ErrMalformedPayload.
func EncodeOrder(dst []byte, p order.Params) ([]byte, error) {
	w := newWriter(dst)
	w.str(string(p.ID))
	w.symbol(p.Symbol)
	w.u8(uint8(p.Side))
	w.u8(uint8(p.Type))
	if p.Price != nil {
		w.u8(1)
		w.price(*p.Price)
	} else {
		w.u8(0)
	}
	w.u64(uint64(p.Quantity))
	return w.result()
}

// DecodeOrder parses a payload written by EncodeOrder.
func DecodeOrder(src []byte) (order.Params, error) {
	r := newReader(src)
	p := order.Params{
		ID:     model.OrderID(r.str()),
		Symbol: r.symbol(),
		Side:   enum.OrderSide(r.u8()),
		Type:   enum.OrderType(r.u8()),
	}
	if r.u8() == 1 {
		price := r.price()
		p.Price = &price
	}
	p.Quantity = model.Quantity(r.u64())
	if err := r.done(); err != nil {
		return order.Params{}, err
	}
	return p, nil
}
