package scoring

import (
	"stress-index/pkg/keywords"
	"stress-index/pkg/series"
)

// IndexColumn is the derived composite column, always last
const IndexColumn = keywords.IndexColumn

// BuildComposite aligns the category scores on their timestamps and appends
// the row mean of the categories that have a value in that row. Empty
// series are left out; no usable input gives an empty table.
func BuildComposite(scores []*series.Series) *series.Table {
	table := series.FromSeries(scores...)
	if table.IsEmpty() {
		return series.Empty()
	}

	index := make([]float64, table.Len())
	for i := range index {
		index[i] = meanPresent(table.Row(i))
	}

	composite, err := table.WithColumn(IndexColumn, index)
	if err != nil {
		// only when a series is named like the index column, which
		// keywords.New rejects for configured groups
		return series.Empty()
	}
	return composite
}

// CategoryColumns returns the composite's category columns in order
func CategoryColumns(composite *series.Table) []string {
	var out []string
	for _, name := range composite.Columns() {
		if name != IndexColumn {
			out = append(out, name)
		}
	}
	return out
}

func meanPresent(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if series.IsMissing(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return series.Missing()
	}
	return sum / float64(n)
}
