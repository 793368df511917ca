package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradereport/internal/event"
	"tradereport/internal/model"
	"tradereport/internal/model/enum"
	"tradereport/internal/order"
	"tradereport/internal/position"
)

var (
	audusd    = model.NewSymbol("AUDUSD", "FXCM")
	unixEpoch = time.Unix(0, 0).UTC()
)

func limitOrder(t *testing.T, id string, side enum.OrderSide, qty model.Quantity, price string) *order.Order {
	t.Helper()
	p := model.MustParsePrice(price)
	o, err := order.New(order.Params{
		ID:       model.OrderID(id),
		Symbol:   audusd,
		Side:     side,
		Type:     enum.OrderTypeLimit,
		Price:    &p,
		Quantity: qty,
	})
	require.NoError(t, err)
	return o
}

func orderFilled(o *order.Order, qty model.Quantity, price string, at time.Time) event.OrderFilled {
	return event.OrderFilled{
		OrderID:         o.ID(),
		AccountID:       "ACC-001",
		ExecutionID:     "SOME_EXEC_ID_1",
		ExecutionTicket: "SOME_EXEC_TICKET_1",
		Symbol:          o.Symbol(),
		Side:            o.Side(),
		FilledQuantity:  qty,
		FillPrice:       model.MustParsePrice(price),
		ExecutionTime:   at,
		EventID:         model.NewEventID(),
		EventTime:       at,
	}
}

// one filled buy and one resting sell
func ordersSnapshot(t *testing.T) []order.View {
	t.Helper()
	b := order.NewBook()
	buy := limitOrder(t, "O-19700101-000000-001-001-1", enum.OrderSideBuy, 1_500_000, "0.80010")
	sell := limitOrder(t, "O-19700101-000000-001-001-2", enum.OrderSideSell, 1_500_000, "0.80000")
	require.NoError(t, b.Add(buy))
	require.NoError(t, b.Add(sell))
	_, err := b.Apply(orderFilled(buy, 1_500_000, "0.80011", unixEpoch))
	require.NoError(t, err)
	return b.Snapshot()
}

func closedPosition(t *testing.T, id string) *position.Position {
	t.Helper()
	p := position.New(model.PositionID(id), audusd)
	entry := event.OrderFilled{
		OrderID: "O-1", ExecutionID: "E-1", Symbol: audusd, Side: enum.OrderSideBuy,
		FilledQuantity: 100_000, FillPrice: model.MustParsePrice("1.00000"), ExecutionTime: unixEpoch,
	}
	exit := event.OrderFilled{
		OrderID: "O-2", ExecutionID: "E-2", Symbol: audusd, Side: enum.OrderSideSell,
		FilledQuantity: 100_000, FillPrice: model.MustParsePrice("1.00010"), ExecutionTime: unixEpoch.Add(5 * time.Minute),
	}
	require.NoError(t, p.ApplyEntry(entry))
	require.NoError(t, p.ApplyExit(exit))
	return p
}

func assertDecimal(t *testing.T, expected string, actual any) {
	t.Helper()
	d, ok := actual.(decimal.Decimal)
	require.Truef(t, ok, "expected decimal.Decimal, got %T", actual)
	assert.Truef(t, decimal.RequireFromString(expected).Equal(d), "expected %s, got %s", expected, d)
}

func TestOrdersReport(t *testing.T) {
	orders := ordersSnapshot(t)

	report := Orders(orders)

	require.Equal(t, 2, report.Len())
	assert.Equal(t, "order_id", report.IndexName)
	assert.Equal(t, []string{"symbol", "side", "type", "quantity", "avg_price", "slippage"}, report.Columns)
	assert.Equal(t, orders[0].ID.String(), report.Index()[0])

	first := report.Records()[0]
	assert.Equal(t, "AUDUSD", first[0])
	assert.Equal(t, "BUY", first[1])
	assert.Equal(t, "LIMIT", first[2])
	assert.Equal(t, uint64(1_500_000), first[3])
	assertDecimal(t, "0.80011", first[4])
	assertDecimal(t, "0.00001", first[5])

	second := report.Records()[1]
	assert.Equal(t, "SELL", second[1])
	assert.Nil(t, second[4])
	assert.Nil(t, second[5])
}

func TestOrderFillsReport(t *testing.T) {
	orders := ordersSnapshot(t)

	report := OrderFills(orders)

	require.Equal(t, 1, report.Len())
	assert.Equal(t, "order_id", report.IndexName)
	assert.Equal(t, orders[0].ID.String(), report.Index()[0])

	row := report.Rows[0]
	assert.Equal(t, "AUDUSD", row.Symbol)
	assert.Equal(t, "BUY", row.Side)
	assert.Equal(t, "LIMIT", row.Type)
	assert.Equal(t, uint64(1_500_000), row.Quantity)
	assert.Equal(t, "0.80011", row.AvgPrice.Decimal.StringFixed(5))
	assert.Equal(t, "0.00001", row.Slippage.Decimal.StringFixed(5))

	assert.Subset(t, Orders(orders).Index(), report.Index())
}

func TestPositionsReport(t *testing.T) {
	b := []position.View{
		closedPosition(t, "P-1").View(),
		closedPosition(t, "P-2").View(),
	}

	report := Positions(b)

	require.Equal(t, 2, report.Len())
	assert.Equal(t, "position_id", report.IndexName)
	assert.Equal(t, []string{
		"symbol", "direction", "peak_quantity", "avg_entry_price", "avg_exit_price",
		"entry_time", "exit_time", "points", "return",
	}, report.Columns)
	assert.Equal(t, "P-1", report.Index()[0])

	row := report.Records()[0]
	assert.Equal(t, "AUDUSD", row[0])
	assert.Equal(t, "BUY", row[1])
	assert.Equal(t, uint64(100_000), row[2])
	assertDecimal(t, "1.00000", row[3])
	assertDecimal(t, "1.00010", row[4])
	assert.Equal(t, unixEpoch, row[5])
	assert.Equal(t, unixEpoch.Add(5*time.Minute), row[6])
	assertDecimal(t, "0.00010", row[7])
	assert.InDelta(t, 0.0001, row[8], 1e-12)
}

func TestOpenPositionHasNullExitColumns(t *testing.T) {
	p := position.New("P-OPEN", audusd)
	require.NoError(t, p.ApplyEntry(event.OrderFilled{
		OrderID: "O-1", ExecutionID: "E-1", Symbol: audusd, Side: enum.OrderSideSell,
		FilledQuantity: 10, FillPrice: model.MustParsePrice("1.00000"), ExecutionTime: unixEpoch,
	}))

	report := Positions([]position.View{p.View()})

	require.Equal(t, 1, report.Len())
	row := report.Records()[0]
	assert.Equal(t, "SELL", row[1])
	assertDecimal(t, "1.00000", row[3])
	assert.Equal(t, unixEpoch, row[5])
	assert.Nil(t, row[4])
	assert.Nil(t, row[6])
	assert.Nil(t, row[7])
	assert.Nil(t, row[8])
}

func TestEmptySnapshots(t *testing.T) {
	orders := Orders(nil)
	assert.Equal(t, 0, orders.Len())
	assert.Len(t, orders.Columns, 6)
	assert.Empty(t, orders.Records())

	fills := OrderFills([]order.View{})
	assert.Equal(t, 0, fills.Len())
	assert.Equal(t, "order_id", fills.IndexName)

	positions := Positions(nil)
	assert.Equal(t, 0, positions.Len())
	assert.Len(t, positions.Columns, 9)
}

func TestRowCountLaws(t *testing.T) {
	b := order.NewBook()
	for i, qty := range []model.Quantity{0, 50, 100, 0, 25} {
		o := limitOrder(t, "O-"+string(rune('A'+i)), enum.OrderSideBuy, 100, "1.00000")
		require.NoError(t, b.Add(o))
		if qty > 0 {
			_, err := b.Apply(orderFilled(o, qty, "1.00001", unixEpoch))
			require.NoError(t, err)
		}
	}
	orders := b.Snapshot()

	var filled int
	for _, o := range orders {
		if o.State != enum.FillStateNone {
			filled++
		}
	}

	assert.Equal(t, len(orders), Orders(orders).Len())
	assert.Equal(t, filled, OrderFills(orders).Len())
	assert.Equal(t, []string{"O-A", "O-B", "O-C", "O-D", "O-E"}, Orders(orders).Index())
	assert.Equal(t, []string{"O-B", "O-C", "O-E"}, OrderFills(orders).Index())
}

func TestProjectionIsIdempotent(t *testing.T) {
	orders := ordersSnapshot(t)
	positions := []position.View{closedPosition(t, "P-1").View()}

	assert.Equal(t, Orders(orders), Orders(orders))
	assert.Equal(t, OrderFills(orders), OrderFills(orders))
	assert.Equal(t, Positions(positions), Positions(positions))

	report := Orders(orders)
	report.Columns[0] = "mutated"
	report.Rows[0].Symbol = "mutated"
	assert.Equal(t, "symbol", Orders(orders).Columns[0])
	assert.Equal(t, "AUDUSD", orders[0].Symbol.Code)
}
