package store

import (
	"context"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"gorm.io/gorm"

	"tradereport/internal/bus"
	"tradereport/internal/codec"
	"tradereport/internal/event"
	"tradereport/internal/order"
	"tradereport/internal/schema"
	"tradereport/pkg/exception"
)

// Store keeps accepted orders and fills in Postgres, keyed by journal sequence.
type Store struct {
	db *gorm.DB
}

// New wraps an open gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the orders and fills tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&OrderRecord{}, &FillRecord{}); err != nil {
		return errors.Wrap(err, "migrate fill store")
	}
	return nil
}

// SaveOrder inserts an accepted order.
func (s *Store) SaveOrder(ctx context.Context, seq uint64, p order.Params) error {
	rec := orderRecord(seq, p)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return errors.Wrapf(err, "save order %s seq %d", p.ID, seq)
	}
	return nil
}

// SaveFill inserts an order fill.
func (s *Store) SaveFill(ctx context.Context, seq uint64, fill event.OrderFilled) error {
	rec := fillRecord(seq, fill)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return errors.Wrapf(err, "save fill %s seq %d", fill.ExecutionID, seq)
	}
	return nil
}

// SavePositionFill inserts a classified fill.
func (s *Store) SavePositionFill(ctx context.Context, seq uint64, pf event.PositionFill) error {
	rec := positionFillRecord(seq, pf)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return errors.Wrapf(err, "save position fill %s seq %d", pf.Fill.ExecutionID, seq)
	}
	return nil
}

// Append decodes a journal record and saves it, so the store can stand in
// for the file journal behind a ledger.
func (s *Store) Append(header schema.EventHeader, payload []byte) error {
	ctx := context.Background()
	switch header.Type {
	case schema.EventOrderAccepted:
		p, err := codec.DecodeOrder(payload)
		if err != nil {
			return err
		}
		return s.SaveOrder(ctx, header.Seq, p)
	case schema.EventOrderFilled:
		fill, err := codec.DecodeFill(payload)
		if err != nil {
			return err
		}
		return s.SaveFill(ctx, header.Seq, fill)
	case schema.EventPositionFill:
		pf, err := codec.DecodePositionFill(payload)
		if err != nil {
			return err
		}
		return s.SavePositionFill(ctx, header.Seq, pf)
	default:
		return errors.Wrapf(exception.ErrUnsupportedEvent, "type %d", header.Type)
	}
}

// Load reads every order and fill ordered by sequence.
func (s *Store) Load(ctx context.Context) ([]OrderRecord, []FillRecord, error) {
	var orders []OrderRecord
	if err := s.db.WithContext(ctx).Order("seq").Find(&orders).Error; err != nil {
		return nil, nil, errors.Wrap(err, "load orders")
	}
	var fills []FillRecord
	if err := s.db.WithContext(ctx).Order("seq").Find(&fills).Error; err != nil {
		return nil, nil, errors.Wrap(err, "load fills")
	}
	return orders, fills, nil
}

// Publish loads the stored events and publishes them to q in sequence order.
// It returns the number of events published.
func (s *Store) Publish(ctx context.Context, q *bus.Queue) (int, error) {
	orders, fills, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	events, err := Events(orders, fills)
	if err != nil {
		return 0, err
	}
	for i, e := range events {
		if err := q.Publish(ctx, e); err != nil {
			return i, errors.Wrapf(err, "publish seq %d", e.Header.Seq)
		}
	}
	logs.Infof("store: published %d orders and %d fills", len(orders), len(fills))
	return len(events), nil
}

// Events merges orders and fills, each sorted by sequence, into encoded bus
// events. A fill classified against a position becomes a position fill.
func Events(orders []OrderRecord, fills []FillRecord) ([]bus.Event, error) {
	events := make([]bus.Event, 0, len(orders)+len(fills))
	i, j := 0, 0
	for i < len(orders) || j < len(fills) {
		if j == len(fills) || (i < len(orders) && orders[i].Seq < fills[j].Seq) {
			e, err := orderEvent(orders[i])
			if err != nil {
				return nil, err
			}
			events = append(events, e)
			i++
			continue
		}
		e, err := fillEvent(fills[j])
		if err != nil {
			return nil, err
		}
		events = append(events, e)
		j++
	}
	return events, nil
}

func orderEvent(rec OrderRecord) (bus.Event, error) {
	p, err := rec.params()
	if err != nil {
		return bus.Event{}, err
	}
	payload, err := codec.EncodeOrder(nil, p)
	if err != nil {
		return bus.Event{}, err
	}
	return bus.Event{
		Header:  schema.NewHeader(schema.EventOrderAccepted, rec.Seq, 0, 0),
		Payload: payload,
	}, nil
}

func fillEvent(rec FillRecord) (bus.Event, error) {
	if rec.classified() {
		pf, err := rec.positionFill()
		if err != nil {
			return bus.Event{}, err
		}
		payload, err := codec.EncodePositionFill(nil, pf)
		if err != nil {
			return bus.Event{}, err
		}
		return bus.Event{
			Header:  schema.NewHeader(schema.EventPositionFill, rec.Seq, unixNano(pf.Fill), 0),
			Payload: payload,
		}, nil
	}
	fill, err := rec.fill()
	if err != nil {
		return bus.Event{}, err
	}
	payload, err := codec.EncodeFill(nil, fill)
	if err != nil {
		return bus.Event{}, err
	}
	return bus.Event{
		Header:  schema.NewHeader(schema.EventOrderFilled, rec.Seq, unixNano(fill), 0),
		Payload: payload,
	}, nil
}

func unixNano(fill event.OrderFilled) int64 {
	if fill.EventTime.IsZero() {
		return 0
	}
	return fill.EventTime.UnixNano()
}
