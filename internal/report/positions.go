package report

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"tradereport/internal/position"
)

const PositionIndex = "position_id"

var positionColumns = []string{
	"symbol",
	"direction",
	"peak_quantity",
	"avg_entry_price",
	"avg_exit_price",
	"entry_time",
	"exit_time",
	"points",
	"return",
}

// PositionRow is one line of a positions report.
type PositionRow struct {
	PositionID    string
	Symbol        string
	Direction     string
	PeakQuantity  uint64
	AvgEntryPrice decimal.NullDecimal
	AvgExitPrice  decimal.NullDecimal
	EntryTime     sql.NullTime
	ExitTime      sql.NullTime
	Points        decimal.NullDecimal
	Return        sql.NullFloat64
}

func (r PositionRow) Index() string {
	return r.PositionID
}

func (r PositionRow) Values() []any {
	return []any{
		r.Symbol,
		r.Direction,
		r.PeakQuantity,
		nullDecimal(r.AvgEntryPrice),
		nullDecimal(r.AvgExitPrice),
		nullTime(r.EntryTime),
		nullTime(r.ExitTime),
		nullDecimal(r.Points),
		nullFloat(r.Return),
	}
}

// Positions projects every position in snapshot order. Open positions keep
// their exit columns null.
func Positions(positions []position.View) Table[PositionRow] {
	table := newTable[PositionRow](PositionIndex, positionColumns, len(positions))
	for _, p := range positions {
		table.Rows = append(table.Rows, PositionRow{
			PositionID:    p.ID.String(),
			Symbol:        p.Symbol.Code,
			Direction:     p.Direction.String(),
			PeakQuantity:  uint64(p.PeakQuantity),
			AvgEntryPrice: p.AvgEntryPrice,
			AvgExitPrice:  p.AvgExitPrice,
			EntryTime:     p.EntryTime,
			ExitTime:      p.ExitTime,
			Points:        p.Points,
			Return:        p.Return,
		})
	}
	return table
}

func nullTime(t sql.NullTime) any {
	if !t.Valid {
		return nil
	}
	return t.Time
}

func nullFloat(f sql.NullFloat64) any {
	if !f.Valid {
		return nil
	}
	return f.Float64
}
