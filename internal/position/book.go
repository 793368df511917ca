package position

import (
	"sync"

	"github.com/yanun0323/errors"

	"tradereport/internal/event"
	"tradereport/internal/model"
	"tradereport/internal/model/enum"
	"tradereport/pkg/exception"
)

// Book keeps positions in the order they were opened.
type Book struct {
	mu        sync.RWMutex
	positions []*Position
	index     map[model.PositionID]*Position
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{index: make(map[model.PositionID]*Position)}
}

// Get returns the position by id.
func (b *Book) Get(id model.PositionID) (*Position, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.index[id]
	return p, ok
}

// Apply routes a classified fill. The first entry for an unknown id opens the
// position; an exit for an unknown id is rejected.
func (b *Book) Apply(fill event.PositionFill) (*Position, error) {
	if fill.PositionID == "" {
		return nil, errors.Wrap(exception.ErrInvalidArgument, "empty position id")
	}

	switch fill.Kind {
	case enum.FillKindEntry:
		if p, ok := b.Get(fill.PositionID); ok {
			return p, p.ApplyEntry(fill.Fill)
		}
		return b.open(fill)
	case enum.FillKindExit:
		p, ok := b.Get(fill.PositionID)
		if !ok {
			return nil, errors.Wrapf(exception.ErrPositionNotFound, "exit %s for position %s", fill.Fill.ExecutionID, fill.PositionID)
		}
		return p, p.ApplyExit(fill.Fill)
	default:
		return nil, errors.Wrapf(exception.ErrInvalidArgument, "position %s: fill kind %d", fill.PositionID, fill.Kind)
	}
}

// Check reports whether Apply would accept fill, without changing the book.
func (b *Book) Check(fill event.PositionFill) error {
	if fill.PositionID == "" {
		return errors.Wrap(exception.ErrInvalidArgument, "empty position id")
	}

	switch fill.Kind {
	case enum.FillKindEntry:
		if p, ok := b.Get(fill.PositionID); ok {
			return p.CheckEntry(fill.Fill)
		}
		return New(fill.PositionID, fill.Fill.Symbol).CheckEntry(fill.Fill)
	case enum.FillKindExit:
		p, ok := b.Get(fill.PositionID)
		if !ok {
			return errors.Wrapf(exception.ErrPositionNotFound, "exit %s for position %s", fill.Fill.ExecutionID, fill.PositionID)
		}
		return p.CheckExit(fill.Fill)
	default:
		return errors.Wrapf(exception.ErrInvalidArgument, "position %s: fill kind %d", fill.PositionID, fill.Kind)
	}
}

func (b *Book) open(fill event.PositionFill) (*Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// lost a race with another opener
	if p, ok := b.index[fill.PositionID]; ok {
		return p, p.ApplyEntry(fill.Fill)
	}

	p := New(fill.PositionID, fill.Fill.Symbol)
	if err := p.ApplyEntry(fill.Fill); err != nil {
		return nil, err
	}
	b.positions = append(b.positions, p)
	b.index[p.id] = p
	return p, nil
}

// Len returns the number of positions in the book.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.positions)
}

// Snapshot copies every position in opening order.
func (b *Book) Snapshot() []View {
	b.mu.RLock()
	positions := make([]*Position, len(b.positions))
	copy(positions, b.positions)
	b.mu.RUnlock()

	views := make([]View, 0, len(positions))
	for _, p := range positions {
		views = append(views, p.View())
	}
	return views
}
