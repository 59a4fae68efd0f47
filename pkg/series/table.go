package series

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Missing returns the marker used for absent values
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v marks an absent value
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Table is an immutable time-indexed set of named float64 columns.
// Timestamps are UTC, strictly ascending and shared by every column.
type Table struct {
	index []time.Time
	names []string
	cols  [][]float64
}

// Empty returns a table with no rows and no columns
func Empty() *Table {
	return &Table{}
}

// NewTable copies the given index and columns into a new table.
// cols[j] holds the values of names[j], one per timestamp.
func NewTable(index []time.Time, names []string, cols [][]float64) (*Table, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("got %d column names for %d columns", len(names), len(cols))
	}

	idx := make([]time.Time, len(index))
	for i, ts := range index {
		idx[i] = ts.UTC()
		if i > 0 && !idx[i].After(idx[i-1]) {
			return nil, fmt.Errorf("index not strictly ascending at row %d (%s)", i, idx[i].Format(time.RFC3339))
		}
	}

	seen := make(map[string]bool, len(names))
	copied := make([][]float64, len(cols))
	for j, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = true
		if len(cols[j]) != len(idx) {
			return nil, fmt.Errorf("column %q has %d values for %d rows", name, len(cols[j]), len(idx))
		}
		copied[j] = append([]float64(nil), cols[j]...)
	}

	return &Table{
		index: idx,
		names: append([]string(nil), names...),
		cols:  copied,
	}, nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.index)
}

// IsEmpty reports whether the table has no rows or no columns
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.index) == 0 || len(t.names) == 0
}

// Index returns a copy of the timestamps
func (t *Table) Index() []time.Time {
	if t == nil {
		return nil
	}
	return append([]time.Time(nil), t.index...)
}

// Columns returns the column names in order
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.names...)
}

// HasColumn reports whether name is one of the table's columns
func (t *Table) HasColumn(name string) bool {
	return t.columnIndex(name) >= 0
}

// Column returns a copy of the named column
func (t *Table) Column(name string) ([]float64, bool) {
	j := t.columnIndex(name)
	if j < 0 {
		return nil, false
	}
	return append([]float64(nil), t.cols[j]...), true
}

// Series returns the named column as a Series
func (t *Table) Series(name string) (*Series, bool) {
	j := t.columnIndex(name)
	if j < 0 {
		return nil, false
	}
	return &Series{
		name:   name,
		index:  append([]time.Time(nil), t.index...),
		values: append([]float64(nil), t.cols[j]...),
	}, true
}

// Row returns the values of row i in column order
func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.cols))
	for j := range t.cols {
		row[j] = t.cols[j][i]
	}
	return row
}

// WithColumn returns a new table with an extra column appended
func (t *Table) WithColumn(name string, values []float64) (*Table, error) {
	if t.HasColumn(name) {
		return nil, fmt.Errorf("column %q already exists", name)
	}
	names := append(t.Columns(), name)
	cols := make([][]float64, 0, len(names))
	if t != nil {
		cols = append(cols, t.cols...)
	}
	cols = append(cols, values)
	return NewTable(t.Index(), names, cols)
}

func (t *Table) columnIndex(name string) int {
	if t == nil {
		return -1
	}
	for j, n := range t.names {
		if n == name {
			return j
		}
	}
	return -1
}

// Merge outer-joins two tables on their timestamps. Timestamps present in
// only one side leave the other side's columns missing. On a column name
// collision the left table's column wins and the right one is dropped.
func Merge(left, right *Table) *Table {
	if left.IsEmpty() {
		return cloneOrEmpty(right)
	}
	if right.IsEmpty() {
		return cloneOrEmpty(left)
	}

	index := unionIndex(left.index, right.index)
	pos := make(map[int64]int, len(index))
	for i, ts := range index {
		pos[ts.UnixNano()] = i
	}

	var names []string
	var cols [][]float64
	seen := make(map[string]bool)
	for _, src := range []*Table{left, right} {
		for j, name := range src.names {
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
			cols = append(cols, realign(src.index, src.cols[j], pos, len(index)))
		}
	}

	return &Table{index: index, names: names, cols: cols}
}

// FromSeries outer-joins the given series column-wise in order.
// Series with a name already taken are dropped.
func FromSeries(list ...*Series) *Table {
	out := Empty()
	for _, s := range list {
		if s.IsEmpty() {
			continue
		}
		out = Merge(out, s.Table())
	}
	return out
}

func cloneOrEmpty(t *Table) *Table {
	if t.IsEmpty() {
		return Empty()
	}
	cols := make([][]float64, len(t.cols))
	for j := range t.cols {
		cols[j] = append([]float64(nil), t.cols[j]...)
	}
	return &Table{
		index: append([]time.Time(nil), t.index...),
		names: append([]string(nil), t.names...),
		cols:  cols,
	}
}

func unionIndex(a, b []time.Time) []time.Time {
	seen := make(map[int64]time.Time, len(a)+len(b))
	for _, ts := range a {
		seen[ts.UnixNano()] = ts
	}
	for _, ts := range b {
		seen[ts.UnixNano()] = ts
	}
	out := make([]time.Time, 0, len(seen))
	for _, ts := range seen {
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func realign(index []time.Time, values []float64, pos map[int64]int, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = Missing()
	}
	for i, ts := range index {
		out[pos[ts.UnixNano()]] = values[i]
	}
	return out
}
