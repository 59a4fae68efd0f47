package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stress-index/pkg/aggregator"
	"stress-index/pkg/keywords"
	"stress-index/pkg/logger"
	"stress-index/pkg/scoring"
	"stress-index/pkg/series"
	"stress-index/pkg/trends"
)

// Result is the outcome of one refresh
type Result struct {
	ID                string
	StartedAt         time.Time
	FinishedAt        time.Time
	Composite         *series.Table
	Analysis          scoring.Analysis
	Reports           []aggregator.Report
	MissingCategories []string
}

// HasData reports whether any category produced a score
func (r *Result) HasData() bool {
	return r != nil && !r.Composite.IsEmpty()
}

// IsPartial reports whether some configured categories are missing
func (r *Result) IsPartial() bool {
	return r.HasData() && len(r.MissingCategories) > 0
}

// Failures flattens the keyword failures of every category
func (r *Result) Failures() []aggregator.Failure {
	var out []aggregator.Failure
	for _, rep := range r.Reports {
		out = append(out, rep.Failures...)
	}
	return out
}

// Tracker runs the fetch, aggregate, score, combine and analyze pipeline
type Tracker struct {
	aggregator *aggregator.Aggregator
	scorer     *scoring.Scorer
	log        *logger.Logger
}

func New(config *keywords.Config, source trends.Source, options aggregator.Options) *Tracker {
	return &Tracker{
		aggregator: aggregator.New(config, source, options),
		scorer:     scoring.NewScorer(config),
		log:        logger.GetLogger().WithComponent("tracker"),
	}
}

// Refresh runs the whole pipeline once. Missing keywords and categories are
// tolerated; the only error is a context cancelled before completion.
func (t *Tracker) Refresh(ctx context.Context) (*Result, error) {
	result := &Result{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := t.log.WithField("refresh_id", result.ID)
	log.Info("Refresh started")

	categories := t.aggregator.CollectAll(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("refresh %s interrupted: %w", result.ID, err)
	}

	scores := make([]*series.Series, 0, len(categories))
	for _, cat := range categories {
		result.Reports = append(result.Reports, cat.Report)
		if cat.Table.IsEmpty() {
			result.MissingCategories = append(result.MissingCategories, cat.Category)
			continue
		}
		scores = append(scores, t.scorer.Score(cat.Category, cat.Table))
	}

	result.Composite = scoring.BuildComposite(scores)
	result.Analysis = scoring.Analyze(result.Composite)
	result.FinishedAt = time.Now()

	fields := map[string]interface{}{
		"categories":         len(scores),
		"missing_categories": result.MissingCategories,
		"rows":               result.Composite.Len(),
		"duration":           result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond).String(),
	}
	if !result.HasData() {
		log.WithFields(fields).Warn("Refresh finished without data")
		return result, nil
	}

	rounded := result.Analysis.Rounded()
	fields["latest_score"] = rounded.LatestScore
	fields["stress_level"] = rounded.StressLevel
	fields["trend_direction"] = rounded.TrendDirection
	log.WithFields(fields).Info("Refresh completed")
	return result, nil
}
