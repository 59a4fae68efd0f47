package scoring

import (
	"math"

	"stress-index/pkg/series"
)

const (
	// ShortWindow approximates 30 days of weekly observations
	ShortWindow = 4
	// LongWindow approximates 90 days of weekly observations
	LongWindow = 12

	increasingRatio = 1.1
	decreasingRatio = 0.9
)

type StressLevel string

const (
	StressLow      StressLevel = "LOW"
	StressModerate StressLevel = "MODERATE"
	StressElevated StressLevel = "ELEVATED"
	StressCritical StressLevel = "CRITICAL"
)

type TrendDirection string

const (
	TrendIncreasing TrendDirection = "INCREASING"
	TrendDecreasing TrendDirection = "DECREASING"
	TrendStable     TrendDirection = "STABLE"
)

// Analysis summarizes the composite index. Numeric fields hold full
// precision; use Rounded for display.
type Analysis struct {
	LatestScore    float64        `json:"latest_score"`
	AvgScore       float64        `json:"avg_score"`
	Trend30d       float64        `json:"trend_30d"`
	Trend90d       float64        `json:"trend_90d"`
	StressLevel    StressLevel    `json:"stress_level"`
	TrendDirection TrendDirection `json:"trend_direction"`
	Observations   int            `json:"observations"`
}

// IsEmpty reports whether the analysis was computed from no data
func (a Analysis) IsEmpty() bool {
	return a.Observations == 0
}

// Rounded returns a copy with numeric fields rounded to 2 decimals.
// Labels are kept as classified from the unrounded values.
func (a Analysis) Rounded() Analysis {
	a.LatestScore = Round2(a.LatestScore)
	a.AvgScore = Round2(a.AvgScore)
	a.Trend30d = Round2(a.Trend30d)
	a.Trend90d = Round2(a.Trend90d)
	return a
}

// Analyze derives the summary from the composite table's index column.
// Windows cover the last min(n, window) rows up to the last row with an
// index value; missing values inside a window are skipped. An empty or
// index-less table gives an empty Analysis.
func Analyze(composite *series.Table) Analysis {
	index, ok := composite.Series(IndexColumn)
	if !ok {
		return Analysis{}
	}
	present := index.Present()
	if len(present) == 0 {
		return Analysis{}
	}

	rows := index.Values()
	for series.IsMissing(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}

	a := Analysis{
		LatestScore:  rows[len(rows)-1],
		AvgScore:     mean(present),
		Trend30d:     windowMean(rows, ShortWindow),
		Trend90d:     windowMean(rows, LongWindow),
		Observations: len(present),
	}
	a.StressLevel = ClassifyStress(a.LatestScore)
	a.TrendDirection = ClassifyTrend(a.Trend30d, a.Trend90d)
	return a
}

// windowMean averages the present values among the last n rows. The last
// row is always present, so the result is never missing.
func windowMean(rows []float64, n int) float64 {
	var values []float64
	for _, v := range tail(rows, n) {
		if !series.IsMissing(v) {
			values = append(values, v)
		}
	}
	return mean(values)
}

// ClassifyStress buckets a score: <20 low, <40 moderate, <60 elevated,
// anything else critical
func ClassifyStress(score float64) StressLevel {
	switch {
	case score < 20:
		return StressLow
	case score < 40:
		return StressModerate
	case score < 60:
		return StressElevated
	default:
		return StressCritical
	}
}

// ClassifyTrend compares the short window mean against ±10% of the long one
func ClassifyTrend(short, long float64) TrendDirection {
	switch {
	case short > long*increasingRatio:
		return TrendIncreasing
	case short < long*decreasingRatio:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// Round2 rounds half away from zero to 2 decimal digits
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func tail(values []float64, n int) []float64 {
	if n > len(values) {
		n = len(values)
	}
	return values[len(values)-n:]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return series.Missing()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
