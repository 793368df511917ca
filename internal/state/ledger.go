package state

import (
	"context"
	"sync"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"tradereport/internal/bus"
	"tradereport/internal/codec"
	"tradereport/internal/event"
	"tradereport/internal/model"
	"tradereport/internal/obs"
	"tradereport/internal/order"
	"tradereport/internal/position"
	"tradereport/internal/schema"
	"tradereport/pkg/exception"
)

// Config controls ledger behavior.
type Config struct {
	// StopOnError makes Run return the first rejected event instead of
	// logging it and moving on.
	StopOnError bool `json:"stopOnError"`
	QueueSize   int  `json:"queueSize"`
}

// Journal receives every event before the ledger applies it. An Append error
// rejects the event and leaves the books unchanged. The payload is only valid
// during the call.
type Journal interface {
	Append(header schema.EventHeader, payload []byte) error
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithRegistry rescales order and fill prices to instrument precision and
// rejects symbols the registry does not know.
func WithRegistry(r *schema.Registry) Option {
	return func(l *Ledger) { l.registry = r }
}

// WithMetrics counts applied and rejected events.
func WithMetrics(m *obs.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// WithJournal appends every event to j before it is applied.
func WithJournal(j Journal) Option {
	return func(l *Ledger) { l.journal = j }
}

// Ledger applies events to the order and position books. All mutation goes
// through one mutex, so a Snapshot never observes half an event.
type Ledger struct {
	mu sync.Mutex

	cfg       Config
	orders    *order.Book
	positions *position.Book
	registry  *schema.Registry
	metrics   *obs.Metrics
	journal   Journal
	seq       *bus.Sequencer
	buf       []byte
}

// Snapshot is a consistent copy of both books.
type Snapshot struct {
	Orders    []order.View
	Positions []position.View
	LastSeq   uint64
}

// New creates an empty ledger.
func New(cfg Config, opts ...Option) *Ledger {
	l := &Ledger{
		cfg:       cfg,
		orders:    order.NewBook(),
		positions: position.NewBook(),
		seq:       bus.NewSequencer(0),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SubmitOrder registers an accepted order.
func (l *Ledger) SubmitOrder(p order.Params) (*order.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	o, err := l.prepareOrder(p)
	if err == nil {
		l.buf, err = codec.EncodeOrder(l.buf, p)
	}
	if err == nil {
		header := l.header(schema.EventOrderAccepted, time.Time{})
		err = l.commit(header, l.buf, start, func() error { return l.orders.Add(o) })
	}
	if err != nil {
		l.metrics.IncRejected(schema.EventOrderAccepted)
		return nil, err
	}
	return o, nil
}

// ApplyFill applies an execution to its order.
func (l *Ledger) ApplyFill(fill event.OrderFilled) (*order.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	normalized, err := l.prepareFill(fill)
	if err == nil {
		l.buf, err = codec.EncodeFill(l.buf, fill)
	}
	var o *order.Order
	if err == nil {
		header := l.header(schema.EventOrderFilled, fill.EventTime)
		err = l.commit(header, l.buf, start, func() (err error) {
			o, err = l.orders.Apply(normalized)
			return err
		})
	}
	if err != nil {
		l.metrics.IncRejected(schema.EventOrderFilled)
		return nil, err
	}
	return o, nil
}

// ApplyPositionFill applies a classified execution to its position.
func (l *Ledger) ApplyPositionFill(pf event.PositionFill) (*position.Position, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	normalized, err := l.preparePositionFill(pf)
	if err == nil {
		l.buf, err = codec.EncodePositionFill(l.buf, pf)
	}
	var p *position.Position
	if err == nil {
		header := l.header(schema.EventPositionFill, pf.Fill.EventTime)
		err = l.commit(header, l.buf, start, func() (err error) {
			p, err = l.positions.Apply(normalized)
			return err
		})
	}
	if err != nil {
		l.metrics.IncRejected(schema.EventPositionFill)
		return nil, err
	}
	return p, nil
}

// Handle decodes and applies one encoded event, journaling it under its own
// header first. A zero Seq is assigned from the ledger sequence.
func (l *Ledger) Handle(header schema.EventHeader, payload []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if header.Seq == 0 {
		header.Seq = l.seq.Last() + 1
	}
	start := time.Now()
	apply, err := l.prepare(header, payload)
	if err == nil {
		err = l.commit(header, payload, start, apply)
	}
	if err != nil {
		l.metrics.IncRejected(header.Type)
		return errors.Wrapf(err, "%s seq %d", header.Type, header.Seq)
	}
	return nil
}

// Run applies events from q until it is closed and drained or ctx is done.
// Rejected events are logged and skipped unless StopOnError is set.
func (l *Ledger) Run(ctx context.Context, q *bus.Queue) error {
	return q.Run(ctx, func(e bus.Event) error {
		err := l.Handle(e.Header, e.Payload)
		if err == nil || l.cfg.StopOnError {
			return err
		}
		logs.Errorf("ledger: skip %s seq %d, err: %+v", e.Header.Type, e.Header.Seq, err)
		return nil
	})
}

// Snapshot copies both books and the last applied sequence.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Snapshot{
		Orders:    l.orders.Snapshot(),
		Positions: l.positions.Snapshot(),
		LastSeq:   l.seq.Last(),
	}
}

// LastSeq returns the most recent sequence number applied or issued.
func (l *Ledger) LastSeq() uint64 {
	return l.seq.Last()
}

// dispatch applies one encoded event without journaling. Callers hold l.mu.
func (l *Ledger) dispatch(header schema.EventHeader, payload []byte) error {
	start := time.Now()
	apply, err := l.prepare(header, payload)
	if err == nil {
		err = apply()
	}
	if err != nil {
		l.metrics.IncRejected(header.Type)
		return errors.Wrapf(err, "%s seq %d", header.Type, header.Seq)
	}

	l.seq.Observe(header.Seq)
	l.metrics.ObserveApplied(header, time.Since(start))
	return nil
}

// prepare decodes and validates one event and returns the mutation that
// applies it. Nothing changes until the returned func runs.
func (l *Ledger) prepare(header schema.EventHeader, payload []byte) (func() error, error) {
	if header.Version > schema.SchemaVersion {
		return nil, errors.Wrapf(exception.ErrUnsupportedEvent, "schema version %d", header.Version)
	}

	switch header.Type {
	case schema.EventOrderAccepted:
		p, err := codec.DecodeOrder(payload)
		if err != nil {
			return nil, err
		}
		o, err := l.prepareOrder(p)
		if err != nil {
			return nil, err
		}
		return func() error { return l.orders.Add(o) }, nil
	case schema.EventOrderFilled:
		fill, err := codec.DecodeFill(payload)
		if err != nil {
			return nil, err
		}
		if fill, err = l.prepareFill(fill); err != nil {
			return nil, err
		}
		return func() error {
			_, err := l.orders.Apply(fill)
			return err
		}, nil
	case schema.EventPositionFill:
		pf, err := codec.DecodePositionFill(payload)
		if err != nil {
			return nil, err
		}
		if pf, err = l.preparePositionFill(pf); err != nil {
			return nil, err
		}
		return func() error {
			_, err := l.positions.Apply(pf)
			return err
		}, nil
	default:
		return nil, errors.Wrapf(exception.ErrUnsupportedEvent, "type %d", header.Type)
	}
}

// commit journals a validated event and then applies it. The books only
// change once the journal has accepted the event, so a failed append leaves
// the ledger as it was and the event can be retried.
func (l *Ledger) commit(header schema.EventHeader, payload []byte, start time.Time, apply func() error) error {
	if l.journal != nil {
		if err := l.journal.Append(header, payload); err != nil {
			return errors.Wrapf(err, "journal seq %d", header.Seq)
		}
	}
	l.seq.Observe(header.Seq)
	if err := apply(); err != nil {
		return err
	}
	l.metrics.ObserveApplied(header, time.Since(start))
	return nil
}

// header stamps a locally submitted event with the next sequence number.
func (l *Ledger) header(eventType schema.EventType, eventTime time.Time) schema.EventHeader {
	return schema.NewHeader(eventType, l.seq.Last()+1, unixNano(eventTime), time.Now().UnixNano())
}

// prepareOrder builds the order for p and checks the book would take it.
func (l *Ledger) prepareOrder(p order.Params) (*order.Order, error) {
	if p.Price != nil {
		price, err := l.normalize(p.Symbol, *p.Price)
		if err != nil {
			return nil, err
		}
		p.Price = &price
	} else if err := l.requireInstrument(p); err != nil {
		return nil, err
	}
	o, err := order.New(p)
	if err != nil {
		return nil, err
	}
	if err := l.orders.CheckAdd(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (l *Ledger) prepareFill(fill event.OrderFilled) (event.OrderFilled, error) {
	price, err := l.normalize(fill.Symbol, fill.FillPrice)
	if err != nil {
		return event.OrderFilled{}, err
	}
	fill.FillPrice = price
	if err := l.orders.Check(fill); err != nil {
		return event.OrderFilled{}, err
	}
	return fill, nil
}

func (l *Ledger) preparePositionFill(pf event.PositionFill) (event.PositionFill, error) {
	price, err := l.normalize(pf.Fill.Symbol, pf.Fill.FillPrice)
	if err != nil {
		return event.PositionFill{}, err
	}
	pf.Fill.FillPrice = price
	if err := l.positions.Check(pf); err != nil {
		return event.PositionFill{}, err
	}
	return pf, nil
}

func (l *Ledger) requireInstrument(p order.Params) error {
	if l.registry == nil {
		return nil
	}
	if _, ok := l.registry.Instrument(p.Symbol); !ok {
		return errors.Wrapf(exception.ErrUnknownInstrument, "order %s: symbol %s", p.ID, p.Symbol)
	}
	return nil
}

func (l *Ledger) normalize(symbol model.Symbol, price model.Price) (model.Price, error) {
	if l.registry == nil {
		return price, nil
	}
	return l.registry.NormalizePrice(symbol, price)
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
