package report

// Row is one report line: its index value and its cells in column order.
type Row interface {
	Index() string
	Values() []any
}

// Table is an ordered projection with a named index and fixed columns.
type Table[R Row] struct {
	IndexName string
	Columns   []string
	Rows      []R
}

func newTable[R Row](indexName string, columns []string, capacity int) Table[R] {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return Table[R]{
		IndexName: indexName,
		Columns:   cols,
		Rows:      make([]R, 0, capacity),
	}
}

func (t Table[R]) Len() int {
	return len(t.Rows)
}

// Index returns the index value of every row in row order.
func (t Table[R]) Index() []string {
	index := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		index = append(index, row.Index())
	}
	return index
}

// Records returns the cells of every row. Undefined values are nil.
func (t Table[R]) Records() [][]any {
	records := make([][]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, row.Values())
	}
	return records
}
