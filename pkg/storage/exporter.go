package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stress-index/pkg/aggregator"
	"stress-index/pkg/logger"
	"stress-index/pkg/scoring"
	"stress-index/pkg/series"
	"stress-index/pkg/tracker"
)

const filePrefix = "economic_stress_"

// ExportedFiles lists the paths written by one export
type ExportedFiles struct {
	CSV     string `json:"csv"`
	Summary string `json:"summary"`
}

// Summary is the JSON report written next to the CSV export
type Summary struct {
	RefreshID         string               `json:"refresh_id"`
	GeneratedAt       string               `json:"generated_at"`
	Duration          string               `json:"duration"`
	Rows              int                  `json:"rows"`
	FirstDate         string               `json:"first_date,omitempty"`
	LastDate          string               `json:"last_date,omitempty"`
	Categories        []string             `json:"categories"`
	MissingCategories []string             `json:"missing_categories"`
	Analysis          scoring.Analysis     `json:"analysis"`
	Failures          []aggregator.Failure `json:"failures"`
	Reports           []aggregator.Report  `json:"reports"`
}

// NewSummary builds the report for a result. Scores are rounded.
func NewSummary(result *tracker.Result) Summary {
	s := Summary{
		RefreshID:         result.ID,
		GeneratedAt:       result.FinishedAt.Format(time.RFC3339),
		Duration:          result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond).String(),
		Rows:              result.Composite.Len(),
		Categories:        scoring.CategoryColumns(result.Composite),
		MissingCategories: result.MissingCategories,
		Analysis:          result.Analysis.Rounded(),
		Failures:          result.Failures(),
		Reports:           result.Reports,
	}
	if s.MissingCategories == nil {
		s.MissingCategories = []string{}
	}
	if s.Failures == nil {
		s.Failures = []aggregator.Failure{}
	}
	if index := result.Composite.Index(); len(index) > 0 {
		s.FirstDate = index[0].Format(series.DateLayout)
		s.LastDate = index[len(index)-1].Format(series.DateLayout)
	}
	return s
}

// FileName returns the dated CSV export name for t
func FileName(t time.Time) string {
	return filePrefix + t.Format("20060102") + ".csv"
}

// ReportExporter writes the composite table and its summary into a directory
type ReportExporter struct {
	outputDir string
	log       *logger.Logger
}

func NewReportExporter(outputDir string) *ReportExporter {
	return &ReportExporter{
		outputDir: outputDir,
		log:       logger.GetLogger().WithComponent("exporter"),
	}
}

// Export writes economic_stress_YYYYMMDD.csv and its _summary.json,
// dated by the refresh finish time
func (e *ReportExporter) Export(ctx context.Context, result *tracker.Result) (*ExportedFiles, error) {
	if !result.HasData() {
		return nil, ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	stamp := result.FinishedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	csvPath := filepath.Join(e.outputDir, FileName(stamp))
	summaryPath := filepath.Join(e.outputDir, filePrefix+stamp.Format("20060102")+"_summary.json")

	var buf bytes.Buffer
	if err := series.WriteCSV(&buf, result.Composite); err != nil {
		return nil, fmt.Errorf("failed to encode composite: %w", err)
	}
	if err := os.WriteFile(csvPath, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", csvPath, err)
	}

	data, err := json.MarshalIndent(NewSummary(result), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := os.WriteFile(summaryPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", summaryPath, err)
	}

	e.log.WithFields(map[string]interface{}{
		"refresh_id": result.ID,
		"csv":        csvPath,
		"summary":    summaryPath,
	}).Info("Report exported")

	return &ExportedFiles{CSV: csvPath, Summary: summaryPath}, nil
}
