package position

import (
	"database/sql"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"tradereport/internal/event"
	"tradereport/internal/model"
	"tradereport/internal/model/enum"
	"tradereport/pkg/exception"
)

// rawPrecision is the number of fractional digits kept for the unrounded
// averages used by Return.
const rawPrecision int32 = 16

// Position reduces pre-classified entry and exit fills into peak size,
// average entry/exit prices, points and return. It closes once when the net
// size returns to zero and rejects every fill afterwards.
type Position struct {
	mu sync.Mutex

	id        model.PositionID
	symbol    model.Symbol
	direction enum.PositionSide
	state     enum.PositionState
	precision int32

	net  model.Quantity
	peak model.Quantity

	entryQty      model.Quantity
	entryNotional decimal.Decimal
	exitQty       model.Quantity
	exitNotional  decimal.Decimal

	entryTime time.Time
	exitTime  time.Time
	points    decimal.Decimal
	ret       float64
}

// New creates an open position with no fills. Its direction is set by the
// first entry.
func New(id model.PositionID, symbol model.Symbol) *Position {
	return &Position{
		id:            id,
		symbol:        symbol,
		state:         enum.PositionStateOpen,
		entryNotional: decimal.Zero,
		exitNotional:  decimal.Zero,
	}
}

func (p *Position) ID() model.PositionID { return p.id }
func (p *Position) Symbol() model.Symbol { return p.symbol }

// ApplyEntry records a fill that increases the exposure.
func (p *Position) ApplyEntry(fill event.OrderFilled) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkEntry(fill); err != nil {
		return err
	}

	if !p.direction.IsAvailable() {
		p.direction = enum.PositionSideOf(fill.Side)
		p.entryTime = fill.ExecutionTime
	}
	p.entryQty += fill.FilledQuantity
	p.entryNotional = p.entryNotional.Add(fill.Notional())
	p.trackPrecision(fill.FillPrice)
	p.net += fill.FilledQuantity
	p.peak = max(p.peak, p.net)
	return nil
}

// ApplyExit records a fill that reduces the exposure. An exit larger than the
// open size would flip the direction and is rejected.
func (p *Position) ApplyExit(fill event.OrderFilled) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkExit(fill); err != nil {
		return err
	}

	p.exitQty += fill.FilledQuantity
	p.exitNotional = p.exitNotional.Add(fill.Notional())
	p.trackPrecision(fill.FillPrice)
	p.net -= fill.FilledQuantity
	if p.net == 0 {
		p.close(fill.ExecutionTime)
	}
	return nil
}

// CheckEntry reports whether ApplyEntry would accept fill.
func (p *Position) CheckEntry(fill event.OrderFilled) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.checkEntry(fill)
}

// CheckExit reports whether ApplyExit would accept fill.
func (p *Position) CheckExit(fill event.OrderFilled) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.checkExit(fill)
}

func (p *Position) checkEntry(fill event.OrderFilled) error {
	if err := p.checkFill(fill); err != nil {
		return err
	}
	direction := enum.PositionSideOf(fill.Side)
	if p.direction.IsAvailable() && direction != p.direction {
		return errors.Wrapf(exception.ErrInvalidFillSequence, "position %s: %s entry on %s position", p.id, fill.Side, p.direction)
	}
	return nil
}

func (p *Position) checkExit(fill event.OrderFilled) error {
	if err := p.checkFill(fill); err != nil {
		return err
	}
	if !p.direction.IsAvailable() {
		return errors.Wrapf(exception.ErrInvalidFillSequence, "position %s: exit before entry", p.id)
	}
	if fill.Side != p.direction.EntrySide().Opposite() {
		return errors.Wrapf(exception.ErrInvalidFillSequence, "position %s: %s exit on %s position", p.id, fill.Side, p.direction)
	}
	if fill.FilledQuantity > p.net {
		return errors.Wrapf(exception.ErrInvalidFillSequence, "position %s: exit %d crosses zero, net %d", p.id, fill.FilledQuantity, p.net)
	}
	return nil
}

func (p *Position) checkFill(fill event.OrderFilled) error {
	if p.state == enum.PositionStateClosed {
		return errors.Wrapf(exception.ErrInvalidFillSequence, "position %s: already closed", p.id)
	}
	if fill.FilledQuantity == 0 {
		return errors.Wrapf(exception.ErrInvalidArgument, "position %s: zero fill quantity", p.id)
	}
	if !fill.Side.IsAvailable() {
		return errors.Wrapf(exception.ErrInvalidArgument, "position %s: fill side %d", p.id, fill.Side)
	}
	if fill.Symbol != p.symbol {
		return errors.Wrapf(exception.ErrInvalidFillSequence, "position %s: fill symbol %s, position symbol %s", p.id, fill.Symbol, p.symbol)
	}
	return nil
}

func (p *Position) trackPrecision(price model.Price) {
	if price.Precision() > p.precision {
		p.precision = price.Precision()
	}
}

func (p *Position) close(at time.Time) {
	p.state = enum.PositionStateClosed
	p.exitTime = at

	sign := decimal.NewFromInt(p.direction.Sign())
	p.points = p.avgExitPrice().Sub(p.avgEntryPrice()).Mul(sign)

	entry := p.avgEntryRaw()
	p.ret = p.avgExitRaw().Sub(entry).Mul(sign).DivRound(entry, rawPrecision).InexactFloat64()
}

func (p *Position) avgEntryRaw() decimal.Decimal {
	return p.entryNotional.DivRound(p.entryQty.Decimal(), rawPrecision)
}

func (p *Position) avgExitRaw() decimal.Decimal {
	return p.exitNotional.DivRound(p.exitQty.Decimal(), rawPrecision)
}

func (p *Position) avgEntryPrice() decimal.Decimal {
	return p.avgEntryRaw().Round(p.precision)
}

func (p *Position) avgExitPrice() decimal.Decimal {
	return p.avgExitRaw().Round(p.precision)
}

func (p *Position) Direction() enum.PositionSide {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.direction
}

func (p *Position) State() enum.PositionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// PeakQuantity is the largest net size reached.
func (p *Position) PeakQuantity() model.Quantity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.peak
}

// NetQuantity is the size still open.
func (p *Position) NetQuantity() model.Quantity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.net
}

func (p *Position) EntryTime() (time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.direction.IsAvailable() {
		return time.Time{}, errors.Wrapf(exception.ErrUndefinedMetric, "position %s: no entry", p.id)
	}
	return p.entryTime, nil
}

func (p *Position) ExitTime() (time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireClosed("exit time"); err != nil {
		return time.Time{}, err
	}
	return p.exitTime, nil
}

func (p *Position) AvgEntryPrice() (decimal.Decimal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.entryQty == 0 {
		return decimal.Decimal{}, errors.Wrapf(exception.ErrUndefinedMetric, "position %s: avg entry price before entry", p.id)
	}
	return p.avgEntryPrice(), nil
}

func (p *Position) AvgExitPrice() (decimal.Decimal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireClosed("avg exit price"); err != nil {
		return decimal.Decimal{}, err
	}
	return p.avgExitPrice(), nil
}

// Points is (avg exit - avg entry) x sign(direction) at instrument precision.
func (p *Position) Points() (decimal.Decimal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireClosed("points"); err != nil {
		return decimal.Decimal{}, err
	}
	return p.points, nil
}

// Return is points over the average entry price, both taken from the
// unrounded averages.
func (p *Position) Return() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireClosed("return"); err != nil {
		return 0, err
	}
	return p.ret, nil
}

func (p *Position) requireClosed(metric string) error {
	if p.state != enum.PositionStateClosed {
		return errors.Wrapf(exception.ErrUndefinedMetric, "position %s: %s while %s", p.id, metric, p.state)
	}
	return nil
}

// View returns a consistent copy of the position for reporting.
func (p *Position) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{
		ID:           p.id,
		Symbol:       p.symbol,
		Direction:    p.direction,
		State:        p.state,
		PeakQuantity: p.peak,
		NetQuantity:  p.net,
	}
	if p.entryQty > 0 {
		v.AvgEntryPrice = decimal.NewNullDecimal(p.avgEntryPrice())
		v.EntryTime = sql.NullTime{Time: p.entryTime, Valid: true}
	}
	if p.state == enum.PositionStateClosed {
		v.AvgExitPrice = decimal.NewNullDecimal(p.avgExitPrice())
		v.ExitTime = sql.NullTime{Time: p.exitTime, Valid: true}
		v.Points = decimal.NewNullDecimal(p.points)
		v.Return = sql.NullFloat64{Float64: p.ret, Valid: true}
	}
	return v
}

// View is a point-in-time copy of a position. Fields that are undefined while
// the position is open are not Valid.
type View struct {
	ID            model.PositionID
	Symbol        model.Symbol
	Direction     enum.PositionSide
	State         enum.PositionState
	PeakQuantity  model.Quantity
	NetQuantity   model.Quantity
	AvgEntryPrice decimal.NullDecimal
	AvgExitPrice  decimal.NullDecimal
	EntryTime     sql.NullTime
	ExitTime      sql.NullTime
	Points        decimal.NullDecimal
	Return        sql.NullFloat64
}
