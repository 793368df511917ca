package order

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"tradereport/internal/event"
	"tradereport/internal/model"
	"tradereport/internal/model/enum"
	"tradereport/pkg/exception"
)

// rawPrecision is the number of fractional digits kept when dividing running
// sums. Display values are rounded down to the instrument precision from it.
const rawPrecision int32 = 16

// Params describes an order accepted by the venue.
type Params struct {
	ID       model.OrderID
	Symbol   model.Symbol
	Side     enum.OrderSide
	Type     enum.OrderType
	Price    *model.Price
	Quantity model.Quantity
}

func (p Params) validate() error {
	if p.ID == "" {
		return errors.Wrap(exception.ErrInvalidArgument, "empty order id")
	}
	if p.Symbol.Code == "" {
		return errors.Wrapf(exception.ErrInvalidArgument, "order %s: empty symbol", p.ID)
	}
	if !p.Side.IsAvailable() {
		return errors.Wrapf(exception.ErrInvalidArgument, "order %s: side %d", p.ID, p.Side)
	}
	if !p.Type.IsAvailable() {
		return errors.Wrapf(exception.ErrInvalidArgument, "order %s: type %d", p.ID, p.Type)
	}
	if p.Quantity == 0 {
		return errors.Wrapf(exception.ErrInvalidArgument, "order %s: zero quantity", p.ID)
	}
	if p.Type.HasPrice() && p.Price == nil {
		return errors.Wrapf(exception.ErrInvalidArgument, "order %s: %s order without price", p.ID, p.Type)
	}
	if !p.Type.HasPrice() && p.Price != nil {
		return errors.Wrapf(exception.ErrInvalidArgument, "order %s: %s order with price", p.ID, p.Type)
	}
	return nil
}

// Order accumulates fills into filled quantity, average fill price and
// slippage against the requested price. Apply and the readers are safe for
// concurrent use; each order serialises its own writers.
type Order struct {
	mu sync.Mutex

	id        model.OrderID
	symbol    model.Symbol
	side      enum.OrderSide
	typ       enum.OrderType
	price     model.Price
	hasPrice  bool
	quantity  model.Quantity
	precision int32

	filled       model.Quantity
	notional     decimal.Decimal
	state        enum.FillState
	lastFillTime time.Time
	executions   map[model.ExecutionID]struct{}
}

// New creates an order with no fills.
func New(p Params) (*Order, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	o := &Order{
		id:         p.ID,
		symbol:     p.Symbol,
		side:       p.Side,
		typ:        p.Type,
		quantity:   p.Quantity,
		notional:   decimal.Zero,
		state:      enum.FillStateNone,
		executions: make(map[model.ExecutionID]struct{}),
	}
	if p.Price != nil {
		o.price = *p.Price
		o.hasPrice = true
		o.precision = p.Price.Precision()
	}
	return o, nil
}

func (o *Order) ID() model.OrderID { return o.id }
func (o *Order) Symbol() model.Symbol { return o.symbol }
func (o *Order) Side() enum.OrderSide { return o.side }
func (o *Order) Type() enum.OrderType { return o.typ }
func (o *Order) Quantity() model.Quantity { return o.quantity }

// Price returns the requested price. ok is false for market orders.
func (o *Order) Price() (model.Price, bool) {
	return o.price, o.hasPrice
}

// Apply accumulates a fill. A fill that does not belong to this order or
// would overfill it is rejected with exception.ErrInconsistentFill and leaves
// the order untouched.
func (o *Order) Apply(fill event.OrderFilled) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.checkFill(fill); err != nil {
		return err
	}

	o.filled += fill.FilledQuantity
	o.notional = o.notional.Add(fill.Notional())
	if p := fill.FillPrice.Precision(); p > o.precision {
		o.precision = p
	}
	if fill.ExecutionID != "" {
		o.executions[fill.ExecutionID] = struct{}{}
	}
	o.lastFillTime = fill.ExecutionTime

	if o.filled == o.quantity {
		o.state = enum.FillStateFilled
	} else {
		o.state = enum.FillStatePartiallyFilled
	}
	return nil
}

// Check reports whether Apply would accept fill, without changing the order.
func (o *Order) Check(fill event.OrderFilled) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.checkFill(fill)
}

func (o *Order) checkFill(fill event.OrderFilled) error {
	if fill.OrderID != o.id {
		return errors.Wrapf(exception.ErrInconsistentFill, "fill for order %s applied to order %s", fill.OrderID, o.id)
	}
	if fill.FilledQuantity == 0 {
		return errors.Wrapf(exception.ErrInconsistentFill, "order %s: zero fill quantity", o.id)
	}
	if fill.FilledQuantity > o.quantity-o.filled {
		return errors.Wrapf(exception.ErrInconsistentFill, "order %s: fill %d exceeds leaves %d", o.id, fill.FilledQuantity, o.quantity-o.filled)
	}
	if fill.Side != o.side {
		return errors.Wrapf(exception.ErrInconsistentFill, "order %s: fill side %s, order side %s", o.id, fill.Side, o.side)
	}
	if fill.Symbol != o.symbol {
		return errors.Wrapf(exception.ErrInconsistentFill, "order %s: fill symbol %s, order symbol %s", o.id, fill.Symbol, o.symbol)
	}
	if fill.ExecutionID != "" {
		if _, ok := o.executions[fill.ExecutionID]; ok {
			return errors.Wrapf(exception.ErrInconsistentFill, "order %s: execution %s already applied", o.id, fill.ExecutionID)
		}
	}
	return nil
}

func (o *Order) FillState() enum.FillState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Order) FilledQuantity() model.Quantity {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.filled
}

// AvgPrice is the quantity-weighted mean fill price at instrument precision.
func (o *Order) AvgPrice() (decimal.Decimal, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	avg, ok := o.avgPrice()
	if !ok {
		return decimal.Decimal{}, errors.Wrapf(exception.ErrUndefinedMetric, "order %s: avg price before first fill", o.id)
	}
	return avg, nil
}

// Slippage is (avg price - requested price) x sign(side); positive means the
// execution was worse than requested.
func (o *Order) Slippage() (decimal.Decimal, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	slippage, ok := o.slippage()
	if !ok {
		return decimal.Decimal{}, errors.Wrapf(exception.ErrUndefinedMetric, "order %s: slippage undefined (state %s, has price %t)", o.id, o.state, o.hasPrice)
	}
	return slippage, nil
}

func (o *Order) avgPriceRaw() (decimal.Decimal, bool) {
	if o.filled == 0 {
		return decimal.Decimal{}, false
	}
	return o.notional.DivRound(o.filled.Decimal(), rawPrecision), true
}

func (o *Order) avgPrice() (decimal.Decimal, bool) {
	raw, ok := o.avgPriceRaw()
	if !ok {
		return decimal.Decimal{}, false
	}
	return raw.Round(o.precision), true
}

func (o *Order) slippage() (decimal.Decimal, bool) {
	if !o.hasPrice {
		return decimal.Decimal{}, false
	}
	avg, ok := o.avgPrice()
	if !ok {
		return decimal.Decimal{}, false
	}
	return avg.Sub(o.price.Decimal()).Mul(decimal.NewFromInt(o.side.Sign())), true
}

// View returns a consistent copy of the order for reporting.
func (o *Order) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()

	v := View{
		ID:             o.id,
		Symbol:         o.symbol,
		Side:           o.side,
		Type:           o.typ,
		Quantity:       o.quantity,
		FilledQuantity: o.filled,
		State:          o.state,
		LastFillTime:   o.lastFillTime,
	}
	if o.hasPrice {
		v.Price = decimal.NewNullDecimal(o.price.Decimal())
	}
	if avg, ok := o.avgPrice(); ok {
		v.AvgPrice = decimal.NewNullDecimal(avg)
	}
	if slippage, ok := o.slippage(); ok {
		v.Slippage = decimal.NewNullDecimal(slippage)
	}
	return v
}

// View is a point-in-time copy of an order. Undefined metrics are not Valid.
type View struct {
	ID             model.OrderID
	Symbol         model.Symbol
	Side           enum.OrderSide
	Type           enum.OrderType
	Price          decimal.NullDecimal
	Quantity       model.Quantity
	FilledQuantity model.Quantity
	State          enum.FillState
	AvgPrice       decimal.NullDecimal
	Slippage       decimal.NullDecimal
	LastFillTime   time.Time
}
