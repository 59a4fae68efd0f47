package series

import (
	"fmt"
	"time"
)

// Series is a single named column of values over a timestamp index
type Series struct {
	name   string
	index  []time.Time
	values []float64
}

// NewSeries copies index and values into a new series
func NewSeries(name string, index []time.Time, values []float64) (*Series, error) {
	if len(index) != len(values) {
		return nil, fmt.Errorf("series %q: %d timestamps for %d values", name, len(index), len(values))
	}
	idx := make([]time.Time, len(index))
	for i, ts := range index {
		idx[i] = ts.UTC()
		if i > 0 && !idx[i].After(idx[i-1]) {
			return nil, fmt.Errorf("series %q: index not strictly ascending at %d", name, i)
		}
	}
	return &Series{
		name:   name,
		index:  idx,
		values: append([]float64(nil), values...),
	}, nil
}

// EmptySeries returns a named series with no values
func EmptySeries(name string) *Series {
	return &Series{name: name}
}

func (s *Series) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

func (s *Series) IsEmpty() bool {
	return s.Len() == 0
}

// Index returns a copy of the timestamps
func (s *Series) Index() []time.Time {
	return append([]time.Time(nil), s.index...)
}

// Values returns a copy of the values
func (s *Series) Values() []float64 {
	return append([]float64(nil), s.values...)
}

// At returns the value at position i
func (s *Series) At(i int) float64 {
	return s.values[i]
}

// Table wraps the series in a single-column table
func (s *Series) Table() *Table {
	if s.IsEmpty() {
		return Empty()
	}
	return &Table{
		index: append([]time.Time(nil), s.index...),
		names: []string{s.name},
		cols:  [][]float64{append([]float64(nil), s.values...)},
	}
}

// Present returns the non-missing values in order
func (s *Series) Present() []float64 {
	out := make([]float64, 0, len(s.values))
	for _, v := range s.values {
		if !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}
