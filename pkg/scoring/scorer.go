package scoring

import (
	"stress-index/pkg/keywords"
	"stress-index/pkg/logger"
	"stress-index/pkg/series"
)

// Scorer turns a category's raw keyword columns into one score series
type Scorer struct {
	config *keywords.Config
	log    *logger.Logger
}

func NewScorer(config *keywords.Config) *Scorer {
	return &Scorer{
		config: config,
		log:    logger.GetLogger().WithComponent("scorer"),
	}
}

// Normalize rescales every column to its own maximum (max -> 100).
// Columns whose maximum is not positive are returned unchanged.
func Normalize(table *series.Table) *series.Table {
	if table.IsEmpty() {
		return series.Empty()
	}

	names := table.Columns()
	cols := make([][]float64, len(names))
	for j, name := range names {
		values, _ := table.Column(name)
		if peak := maxPresent(values); peak > 0 {
			for i, v := range values {
				if !series.IsMissing(v) {
					values[i] = v / peak * 100
				}
			}
		}
		cols[j] = values
	}

	normalized, err := series.NewTable(table.Index(), names, cols)
	if err != nil {
		// same index and names as a valid table
		panic(err)
	}
	return normalized
}

// Score computes the weighted average of the normalized columns per row.
// The divisor is the sum of weights of the columns in this table. A row
// with a missing value in any column has a missing score.
func (s *Scorer) Score(name string, table *series.Table) *series.Series {
	if table.IsEmpty() {
		return series.EmptySeries(name)
	}

	normalized := Normalize(table)
	names := normalized.Columns()

	weights := make([]float64, len(names))
	totalWeight := 0.0
	for j, col := range names {
		weights[j] = s.config.Weight(col)
		totalWeight += weights[j]
	}

	scores := make([]float64, normalized.Len())
	for i := range scores {
		row := normalized.Row(i)
		sum := 0.0
		for j, v := range row {
			sum += v * weights[j]
		}
		if totalWeight > 0 {
			sum /= totalWeight
		}
		scores[i] = sum
	}

	if totalWeight <= 0 {
		s.log.WithField("category", name).Warn("Category weights sum to zero, returning raw weighted sum")
	}

	out, err := series.NewSeries(name, normalized.Index(), scores)
	if err != nil {
		panic(err)
	}
	return out
}

func maxPresent(values []float64) float64 {
	peak := 0.0
	found := false
	for _, v := range values {
		if series.IsMissing(v) {
			continue
		}
		if !found || v > peak {
			peak = v
			found = true
		}
	}
	return peak
}
