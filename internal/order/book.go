package order

import (
	"sync"

	"github.com/yanun0323/errors"

	"tradereport/internal/event"
	"tradereport/internal/model"
	"tradereport/pkg/exception"
)

// Book keeps orders in the order they were added. The book lock only guards
// membership; fills for different orders are applied concurrently.
type Book struct {
	mu     sync.RWMutex
	orders []*Order
	index  map[model.OrderID]*Order
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{index: make(map[model.OrderID]*Order)}
}

// Add registers an order. Order ids are unique within a book.
func (b *Book) Add(o *Order) error {
	if o == nil {
		return exception.ErrNilInstance
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAdd(o); err != nil {
		return err
	}
	b.orders = append(b.orders, o)
	b.index[o.id] = o
	return nil
}

// CheckAdd reports whether Add would accept o.
func (b *Book) CheckAdd(o *Order) error {
	if o == nil {
		return exception.ErrNilInstance
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.checkAdd(o)
}

func (b *Book) checkAdd(o *Order) error {
	if _, ok := b.index[o.id]; ok {
		return errors.Wrapf(exception.ErrDuplicateOrder, "order %s", o.id)
	}
	return nil
}

// Get returns the order by id.
func (b *Book) Get(id model.OrderID) (*Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.index[id]
	return o, ok
}

// Apply routes a fill to its order.
func (b *Book) Apply(fill event.OrderFilled) (*Order, error) {
	o, ok := b.Get(fill.OrderID)
	if !ok {
		return nil, errors.Wrapf(exception.ErrOrderNotFound, "fill %s for order %s", fill.ExecutionID, fill.OrderID)
	}
	if err := o.Apply(fill); err != nil {
		return o, err
	}
	return o, nil
}

// Check reports whether Apply would accept fill, without changing the book.
func (b *Book) Check(fill event.OrderFilled) error {
	o, ok := b.Get(fill.OrderID)
	if !ok {
		return errors.Wrapf(exception.ErrOrderNotFound, "fill %s for order %s", fill.ExecutionID, fill.OrderID)
	}
	return o.Check(fill)
}

// Len returns the number of orders in the book.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.orders)
}

// Snapshot copies every order in insertion order.
func (b *Book) Snapshot() []View {
	b.mu.RLock()
	orders := make([]*Order, len(b.orders))
	copy(orders, b.orders)
	b.mu.RUnlock()

	views := make([]View, 0, len(orders))
	for _, o := range orders {
		views = append(views, o.View())
	}
	return views
}
