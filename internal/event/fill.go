package event

import (
	"time"

	"github.com/shopspring/decimal"

	"tradereport/internal/model"
	"tradereport/internal/model/enum"
)

// OrderFilled records one execution against an order.
// It is a value type; copies handed out never alias the producer's state.
type OrderFilled struct {
	OrderID         model.OrderID
	AccountID       model.AccountID
	ExecutionID     model.ExecutionID
	ExecutionTicket model.ExecutionTicket
	Symbol          model.Symbol
	Side            enum.OrderSide
	FilledQuantity  model.Quantity
	FillPrice       model.Price
	ExecutionTime   time.Time
	EventID         model.EventID
	EventTime       time.Time
}

// Notional is FillPrice x FilledQuantity without rounding.
func (f OrderFilled) Notional() decimal.Decimal {
	return f.FillPrice.Decimal().Mul(f.FilledQuantity.Decimal())
}

// PositionFill is an execution already classified by the position owner as
// increasing (entry) or reducing (exit) the exposure of one position.
type PositionFill struct {
	PositionID model.PositionID
	Kind       enum.FillKind
	Fill       OrderFilled
}
