package report

import (
	"github.com/shopspring/decimal"

	"tradereport/internal/model/enum"
	"tradereport/internal/order"
)

const OrderIndex = "order_id"

var orderColumns = []string{"symbol", "side", "type", "quantity", "avg_price", "slippage"}

// OrderRow is one line of an orders report.
type OrderRow struct {
	OrderID  string
	Symbol   string
	Side     string
	Type     string
	Quantity uint64
	AvgPrice decimal.NullDecimal
	Slippage decimal.NullDecimal
}

func (r OrderRow) Index() string {
	return r.OrderID
}

func (r OrderRow) Values() []any {
	return []any{r.Symbol, r.Side, r.Type, r.Quantity, nullDecimal(r.AvgPrice), nullDecimal(r.Slippage)}
}

// Orders projects every order, filled or not, in snapshot order.
func Orders(orders []order.View) Table[OrderRow] {
	table := newTable[OrderRow](OrderIndex, orderColumns, len(orders))
	for _, o := range orders {
		table.Rows = append(table.Rows, orderRow(o))
	}
	return table
}

// OrderFills projects only the orders that received at least one fill.
func OrderFills(orders []order.View) Table[OrderRow] {
	table := newTable[OrderRow](OrderIndex, orderColumns, 0)
	for _, o := range orders {
		if o.State == enum.FillStateNone {
			continue
		}
		table.Rows = append(table.Rows, orderRow(o))
	}
	return table
}

func orderRow(o order.View) OrderRow {
	return OrderRow{
		OrderID:  o.ID.String(),
		Symbol:   o.Symbol.Code,
		Side:     o.Side.String(),
		Type:     o.Type.String(),
		Quantity: uint64(o.Quantity),
		AvgPrice: o.AvgPrice,
		Slippage: o.Slippage,
	}
}

func nullDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal
}
