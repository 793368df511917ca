package store

import (
	"time"

	"github.com/yanun0323/errors"

	"tradereport/internal/event"
	"tradereport/internal/model"
	"tradereport/internal/model/enum"
	"tradereport/internal/order"
	"tradereport/pkg/exception"
)

// OrderRecord is one accepted order.
type OrderRecord struct {
	Seq       uint64  `gorm:"primaryKey;autoIncrement:false"`
	OrderID   string  `gorm:"size:64;uniqueIndex"`
	Symbol    string  `gorm:"size:32"`
	Venue     string  `gorm:"size:32"`
	Side      string  `gorm:"size:8"`
	Type      string  `gorm:"size:16"`
	Price     *string `gorm:"size:40"`
	Quantity  uint64
	CreatedAt time.Time
}

func (OrderRecord) TableName() string {
	return "orders"
}

// FillRecord is one execution. PositionID and Kind are set when the fill
// was classified against a position.
type FillRecord struct {
	Seq             uint64 `gorm:"primaryKey;autoIncrement:false"`
	OrderID         string `gorm:"size:64;index"`
	AccountID       string `gorm:"size:64"`
	ExecutionID     string `gorm:"size:64;index"`
	ExecutionTicket string `gorm:"size:64"`
	Symbol          string `gorm:"size:32"`
	Venue           string `gorm:"size:32"`
	Side            string `gorm:"size:8"`
	Quantity        uint64
	Price           string `gorm:"size:40"`
	ExecutionTime   time.Time
	EventID         string `gorm:"size:64"`
	EventTime       *time.Time
	PositionID      *string `gorm:"size:64;index"`
	Kind            *string `gorm:"size:8"`
	CreatedAt       time.Time
}

func (FillRecord) TableName() string {
	return "fills"
}

func orderRecord(seq uint64, p order.Params) OrderRecord {
	rec := OrderRecord{
		Seq:      seq,
		OrderID:  string(p.ID),
		Symbol:   p.Symbol.Code,
		Venue:    p.Symbol.Venue,
		Side:     p.Side.String(),
		Type:     p.Type.String(),
		Quantity: uint64(p.Quantity),
	}
	if p.Price != nil {
		price := p.Price.String()
		rec.Price = &price
	}
	return rec
}

func (r OrderRecord) params() (order.Params, error) {
	side, ok := enum.ParseOrderSide(r.Side)
	if !ok {
		return order.Params{}, errors.Wrapf(exception.ErrInvalidArgument, "order seq %d: side %q", r.Seq, r.Side)
	}
	typ, ok := enum.ParseOrderType(r.Type)
	if !ok {
		return order.Params{}, errors.Wrapf(exception.ErrInvalidArgument, "order seq %d: type %q", r.Seq, r.Type)
	}
	p := order.Params{
		ID:       model.OrderID(r.OrderID),
		Symbol:   model.NewSymbol(r.Symbol, r.Venue),
		Side:     side,
		Type:     typ,
		Quantity: model.Quantity(r.Quantity),
	}
	if r.Price != nil {
		price, err := model.ParsePrice(*r.Price)
		if err != nil {
			return order.Params{}, errors.Wrapf(err, "order seq %d", r.Seq)
		}
		p.Price = &price
	}
	return p, nil
}

func fillRecord(seq uint64, fill event.OrderFilled) FillRecord {
	rec := FillRecord{
		Seq:             seq,
		OrderID:         string(fill.OrderID),
		AccountID:       string(fill.AccountID),
		ExecutionID:     string(fill.ExecutionID),
		ExecutionTicket: string(fill.ExecutionTicket),
		Symbol:          fill.Symbol.Code,
		Venue:           fill.Symbol.Venue,
		Side:            fill.Side.String(),
		Quantity:        uint64(fill.FilledQuantity),
		Price:           fill.FillPrice.String(),
		ExecutionTime:   fill.ExecutionTime,
		EventID:         string(fill.EventID),
	}
	if !fill.EventTime.IsZero() {
		at := fill.EventTime
		rec.EventTime = &at
	}
	return rec
}

func positionFillRecord(seq uint64, pf event.PositionFill) FillRecord {
	rec := fillRecord(seq, pf.Fill)
	id, kind := string(pf.PositionID), pf.Kind.String()
	rec.PositionID = &id
	rec.Kind = &kind
	return rec
}

func (r FillRecord) fill() (event.OrderFilled, error) {
	side, ok := enum.ParseOrderSide(r.Side)
	if !ok {
		return event.OrderFilled{}, errors.Wrapf(exception.ErrInvalidArgument, "fill seq %d: side %q", r.Seq, r.Side)
	}
	price, err := model.ParsePrice(r.Price)
	if err != nil {
		return event.OrderFilled{}, errors.Wrapf(err, "fill seq %d", r.Seq)
	}
	fill := event.OrderFilled{
		OrderID:         model.OrderID(r.OrderID),
		AccountID:       model.AccountID(r.AccountID),
		ExecutionID:     model.ExecutionID(r.ExecutionID),
		ExecutionTicket: model.ExecutionTicket(r.ExecutionTicket),
		Symbol:          model.NewSymbol(r.Symbol, r.Venue),
		Side:            side,
		FilledQuantity:  model.Quantity(r.Quantity),
		FillPrice:       price,
		ExecutionTime:   r.ExecutionTime.UTC(),
		EventID:         model.EventID(r.EventID),
	}
	if r.EventTime != nil {
		fill.EventTime = r.EventTime.UTC()
	}
	return fill, nil
}

func (r FillRecord) positionFill() (event.PositionFill, error) {
	fill, err := r.fill()
	if err != nil {
		return event.PositionFill{}, err
	}
	kind, ok := enum.ParseFillKind(*r.Kind)
	if !ok {
		return event.PositionFill{}, errors.Wrapf(exception.ErrInvalidArgument, "fill seq %d: kind %q", r.Seq, *r.Kind)
	}
	return event.PositionFill{
		PositionID: model.PositionID(*r.PositionID),
		Kind:       kind,
		Fill:       fill,
	}, nil
}

func (r FillRecord) classified() bool {
	return r.PositionID != nil && r.Kind != nil
}
