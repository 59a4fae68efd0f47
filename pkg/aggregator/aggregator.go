package aggregator

import (
	"context"
	"time"

	"stress-index/pkg/keywords"
	"stress-index/pkg/logger"
	"stress-index/pkg/series"
	"stress-index/pkg/trends"
)

// Failure records a keyword whose fetch failed
type Failure struct {
	Category string `json:"category"`
	Keyword  string `json:"keyword"`
	Error    string `json:"error"`
	Severity string `json:"severity"`
}

// Report describes how one category was assembled
type Report struct {
	Category  string    `json:"category"`
	Requested int       `json:"requested"`
	Fetched   []string  `json:"fetched"`
	Empty     []string  `json:"empty,omitempty"`
	Failures  []Failure `json:"failures,omitempty"`
	Columns   []string  `json:"columns"`
	Rows      int       `json:"rows"`
	Duration  string    `json:"duration"`
}

// CategoryData is one category's merged keyword table
type CategoryData struct {
	Category string
	Table    *series.Table
	Report   Report
}

// Options selects the window and region queried for every keyword
type Options struct {
	Timeframe string
	Geo       string
}

// Aggregator merges per-keyword series into per-category tables
type Aggregator struct {
	config  *keywords.Config
	source  trends.Source
	options Options
	log     *logger.Logger
}

func New(config *keywords.Config, source trends.Source, options Options) *Aggregator {
	return &Aggregator{
		config:  config,
		source:  source,
		options: options,
		log:     logger.GetLogger().WithComponent("aggregator"),
	}
}

// Aggregate fetches every keyword of the group in order and outer-joins the
// results on timestamp. Keywords that fail or carry no signal contribute
// nothing; an empty table means no keyword produced data.
func (a *Aggregator) Aggregate(ctx context.Context, group keywords.Group) (*series.Table, Report) {
	start := time.Now()
	report := Report{Category: group.Name, Requested: len(group.Keywords)}
	table := series.Empty()

	for _, kw := range group.Keywords {
		result := a.source.Fetch(ctx, trends.Query{
			Keyword:   kw,
			Timeframe: a.options.Timeframe,
			Geo:       a.options.Geo,
		})

		switch result.Status {
		case trends.StatusData:
			table = series.Merge(table, result.Table)
			report.Fetched = append(report.Fetched, kw)
		case trends.StatusNoSignal:
			report.Empty = append(report.Empty, kw)
		default:
			failure := Failure{Category: group.Name, Keyword: kw, Severity: trends.ClassifyError(result.Err).String()}
			if result.Err != nil {
				failure.Error = result.Err.Error()
			}
			report.Failures = append(report.Failures, failure)
			a.log.WithError(result.Err).WithFields(map[string]interface{}{
				"category": group.Name,
				"keyword":  kw,
			}).Warn("Skipping keyword after fetch failure")
		}
	}

	report.Columns = table.Columns()
	report.Rows = table.Len()
	report.Duration = time.Since(start).Round(time.Millisecond).String()
	return table, report
}

// CollectAll aggregates every configured group in configured order
func (a *Aggregator) CollectAll(ctx context.Context) []CategoryData {
	groups := a.config.Groups()
	progress := logger.NewProgressReporter(len(groups), "Collecting category data")

	out := make([]CategoryData, 0, len(groups))
	for _, g := range groups {
		table, report := a.Aggregate(ctx, g)
		progress.Step(g.Name)
		a.log.WithFields(map[string]interface{}{
			"category": g.Name,
			"fetched":  len(report.Fetched),
			"empty":    len(report.Empty),
			"failed":   len(report.Failures),
			"rows":     report.Rows,
		}).Info("Category aggregated")
		out = append(out, CategoryData{Category: g.Name, Table: table, Report: report})
	}
	progress.Complete()
	return out
}
