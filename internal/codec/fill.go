package codec

import (
	"tradereport/internal/event"
	"tradereport/internal/model"
	"tradereport/internal/model/enum"
)

// EncodeFill serializes an order fill.
func EncodeFill(dst []byte, fill event.OrderFilled) ([]byte, error) {
	w := newWriter(dst)
	writeFill(w, fill)
	return w.result()
}

// DecodeFill parses a payload written by EncodeFill.
func DecodeFill(src []byte) (event.OrderFilled, error) {
	r := newReader(src)
	fill := readFill(r)
	if err := r.done(); err != nil {
		return event.OrderFilled{}, err
	}
	return fill, nil
}

// EncodePositionFill serializes a classified position fill.
func EncodePositionFill(dst []byte, pf event.PositionFill) ([]byte, error) {
	w := newWriter(dst)
	w.str(string(pf.PositionID))
	w.u8(uint8(pf.Kind))
	writeFill(w, pf.Fill)
	return w.result()
}

// DecodePositionFill parses a payload written by EncodePositionFill.
func DecodePositionFill(src []byte) (event.PositionFill, error) {
	r := newReader(src)
	pf := event.PositionFill{
		PositionID: model.PositionID(r.str()),
		Kind:       enum.FillKind(r.u8()),
	}
	pf.Fill = readFill(r)
	if err := r.done(); err != nil {
		return event.PositionFill{}, err
	}
	return pf, nil
}

func writeFill(w *writer, fill event.OrderFilled) {
	w.str(string(fill.OrderID))
	w.str(string(fill.AccountID))
	w.str(string(fill.ExecutionID))
	w.str(string(fill.ExecutionTicket))
	w.symbol(fill.Symbol)
	w.u8(uint8(fill.Side))
	w.u64(uint64(fill.FilledQuantity))
	w.price(fill.FillPrice)
	w.timestamp(fill.ExecutionTime)
	w.str(string(fill.EventID))
	w.timestamp(fill.EventTime)
}

func readFill(r *reader) event.OrderFilled {
	return event.OrderFilled{
		OrderID:         model.OrderID(r.str()),
		AccountID:       model.AccountID(r.str()),
		ExecutionID:     model.ExecutionID(r.str()),
		ExecutionTicket: model.ExecutionTicket(r.str()),
		Symbol:          r.symbol(),
		Side:            enum.OrderSide(r.u8()),
		FilledQuantity:  model.Quantity(r.u64()),
		FillPrice:       r.price(),
		ExecutionTime:   r.timestamp(),
		EventID:         model.EventID(r.str()),
		EventTime:       r.timestamp(),
	}
}
