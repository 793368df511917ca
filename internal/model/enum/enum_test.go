package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderSide(t *testing.T) {
	assert.Equal(t, int64(1), OrderSideBuy.Sign())
	assert.Equal(t, int64(-1), OrderSideSell.Sign())
	assert.Equal(t, OrderSideSell, OrderSideBuy.Opposite())
	assert.False(t, _order_side_end.IsAvailable())

	for s := _order_side_beg + 1; s < _order_side_end; s++ {
		parsed, ok := ParseOrderSide(s.String())
		assert.True(t, ok)
		assert.Equal(t, s, parsed)
	}
	_, ok := ParseOrderSide("UNKNOWN")
	assert.False(t, ok)
}

func TestOrderType(t *testing.T) {
	assert.True(t, OrderTypeLimit.HasPrice())
	assert.True(t, OrderTypeStop.HasPrice())
	assert.True(t, OrderTypeStopLimit.HasPrice())
	assert.False(t, OrderTypeMarket.HasPrice())
	assert.False(t, _order_type_beg.HasPrice())

	for typ := _order_type_beg + 1; typ < _order_type_end; typ++ {
		parsed, ok := ParseOrderType(typ.String())
		assert.True(t, ok)
		assert.Equal(t, typ, parsed)
	}
}

func TestPositionSide(t *testing.T) {
	assert.Equal(t, PositionSideBuy, PositionSideOf(OrderSideBuy))
	assert.Equal(t, PositionSideSell, PositionSideOf(OrderSideSell))
	assert.False(t, PositionSideOf(_order_side_beg).IsAvailable())
	assert.Equal(t, OrderSideSell, PositionSideSell.EntrySide())
	assert.Equal(t, int64(-1), PositionSideSell.Sign())
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "PARTIALLY_FILLED", FillStatePartiallyFilled.String())
	assert.Equal(t, "CLOSED", PositionStateClosed.String())
	assert.Equal(t, "EXIT", FillKindExit.String())
	assert.Equal(t, "UNKNOWN", FillKind(0).String())

	kind, ok := ParseFillKind("ENTRY")
	assert.True(t, ok)
	assert.Equal(t, FillKindEntry, kind)
}
