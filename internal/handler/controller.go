package handler

import (
	"bytes"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"stress-index/internal/service"
	"stress-index/pkg/aggregator"
	"stress-index/pkg/logger"
	"stress-index/pkg/scoring"
	"stress-index/pkg/series"
	"stress-index/pkg/storage"
	"stress-index/pkg/tracker"
)

const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusNoData  = "no_data"
)

// Controller serves the dashboard API on top of a RefreshService
type Controller struct {
	service service.RefreshService
	stats   service.StatsProvider
	started time.Time
	log     *logger.Logger
}

// NewController builds the controller; stats may be nil
func NewController(svc service.RefreshService, stats service.StatsProvider) *Controller {
	return &Controller{
		service: svc,
		stats:   stats,
		started: time.Now(),
		log:     logger.GetLogger().WithComponent("handler"),
	}
}

type CategoryScore struct {
	Name   string   `json:"name"`
	Latest *float64 `json:"latest"`
}

type SummaryResponse struct {
	RefreshID         string           `json:"refresh_id"`
	UpdatedAt         string           `json:"updated_at"`
	Language          string           `json:"language"`
	Analysis          scoring.Analysis `json:"analysis"`
	StressLabel       string           `json:"stress_label"`
	TrendLabel        string           `json:"trend_label"`
	Categories        []CategoryScore  `json:"categories"`
	MissingCategories []string         `json:"missing_categories"`
	FailedKeywords    int              `json:"failed_keywords"`
}

type RefreshResponse struct {
	Status            string               `json:"status"`
	RefreshID         string               `json:"refresh_id"`
	Summary           *SummaryResponse     `json:"summary,omitempty"`
	MissingCategories []string             `json:"missing_categories"`
	Failures          []aggregator.Failure `json:"failures"`
}

type IndexRow struct {
	Date   string     `json:"date"`
	Values []*float64 `json:"values"`
}

type IndexResponse struct {
	RefreshID string     `json:"refresh_id"`
	Columns   []string   `json:"columns"`
	Rows      []IndexRow `json:"rows"`
}

type HistoryEntry struct {
	RefreshID   string              `json:"refresh_id"`
	Status      string              `json:"status"`
	StartedAt   string              `json:"started_at"`
	FinishedAt  string              `json:"finished_at"`
	LatestScore *float64            `json:"latest_score"`
	StressLevel scoring.StressLevel `json:"stress_level,omitempty"`
}

type HealthResponse struct {
	Status      string              `json:"status"`
	Uptime      string              `json:"uptime"`
	HasData     bool                `json:"has_data"`
	LastRefresh string              `json:"last_refresh,omitempty"`
	Source      *ClientStatsPayload `json:"source,omitempty"`
}

type ClientStatsPayload struct {
	TotalRequests  uint64 `json:"total_requests"`
	FailedRequests uint64 `json:"failed_requests"`
	EmptyResults   uint64 `json:"empty_results"`
	BreakerState   string `json:"breaker_state"`
}

func (ctl *Controller) Refresh(c *fiber.Ctx) error {
	result, err := ctl.service.Refresh(c.UserContext())
	if err != nil {
		if errors.Is(err, service.ErrRefreshInProgress) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}

	resp := RefreshResponse{
		Status:            resultStatus(result),
		RefreshID:         result.ID,
		MissingCategories: nonNil(result.MissingCategories),
		Failures:          result.Failures(),
	}
	if resp.Failures == nil {
		resp.Failures = []aggregator.Failure{}
	}
	if result.HasData() {
		summary := buildSummary(result, scoring.Labels(c.Query("lang"), c.Get(fiber.HeaderAcceptLanguage)))
		resp.Summary = &summary
	}
	return c.JSON(resp)
}

func (ctl *Controller) Index(c *fiber.Ctx) error {
	result, err := ctl.latest()
	if err != nil {
		return err
	}

	table := result.Composite
	index := table.Index()
	resp := IndexResponse{
		RefreshID: result.ID,
		Columns:   table.Columns(),
		Rows:      make([]IndexRow, len(index)),
	}
	for i, ts := range index {
		row := table.Row(i)
		values := make([]*float64, len(row))
		for j, v := range row {
			values[j] = optional(v)
		}
		resp.Rows[i] = IndexRow{Date: ts.Format(series.DateLayout), Values: values}
	}
	return c.JSON(resp)
}

func (ctl *Controller) Summary(c *fiber.Ctx) error {
	result, err := ctl.latest()
	if err != nil {
		return err
	}
	return c.JSON(buildSummary(result, scoring.Labels(c.Query("lang"), c.Get(fiber.HeaderAcceptLanguage))))
}

// ExportCSV streams the latest composite as a dated CSV attachment
func (ctl *Controller) ExportCSV(c *fiber.Ctx) error {
	result, err := ctl.latest()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := series.WriteCSV(&buf, result.Composite); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Attachment(storage.FileName(result.FinishedAt))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

// ExportReport writes the latest result's CSV and summary to the output dir
func (ctl *Controller) ExportReport(c *fiber.Ctx) error {
	result, err := ctl.latest()
	if err != nil {
		return err
	}

	files, err := ctl.service.Export(c.UserContext(), result)
	if err != nil {
		ctl.log.WithError(err).Error("Report export failed")
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(files)
}

func (ctl *Controller) History(c *fiber.Ctx) error {
	results := ctl.service.History()
	out := make([]HistoryEntry, 0, len(results))
	for _, r := range results {
		entry := HistoryEntry{
			RefreshID:  r.ID,
			Status:     resultStatus(r),
			StartedAt:  r.StartedAt.Format(time.RFC3339),
			FinishedAt: r.FinishedAt.Format(time.RFC3339),
		}
		if r.HasData() {
			rounded := r.Analysis.Rounded()
			entry.LatestScore = &rounded.LatestScore
			entry.StressLevel = rounded.StressLevel
		}
		out = append(out, entry)
	}
	return c.JSON(out)
}

// Report returns the full summary of one refresh by id
func (ctl *Controller) Report(c *fiber.Ctx) error {
	result, ok := ctl.service.Get(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown refresh id")
	}
	return c.JSON(storage.NewSummary(result))
}

func (ctl *Controller) Health(c *fiber.Ctx) error {
	resp := HealthResponse{
		Status: "ok",
		Uptime: time.Since(ctl.started).Round(time.Second).String(),
	}
	if latest, ok := ctl.service.Latest(); ok {
		resp.HasData = true
		resp.LastRefresh = latest.FinishedAt.Format(time.RFC3339)
	}
	if ctl.stats != nil {
		s := ctl.stats.Stats()
		resp.Source = &ClientStatsPayload{
			TotalRequests:  s.TotalRequests,
			FailedRequests: s.FailedRequests,
			EmptyResults:   s.EmptyResults,
			BreakerState:   s.BreakerState,
		}
	}
	return c.JSON(resp)
}

func (ctl *Controller) latest() (*tracker.Result, error) {
	result, ok := ctl.service.Latest()
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "no index data available, run a refresh first")
	}
	return result, nil
}

func buildSummary(result *tracker.Result, labels scoring.LabelSet) SummaryResponse {
	rounded := result.Analysis.Rounded()
	summary := SummaryResponse{
		RefreshID:         result.ID,
		UpdatedAt:         result.FinishedAt.Format(time.RFC3339),
		Language:          labels.Language,
		Analysis:          rounded,
		StressLabel:       labels.StressLabel(rounded.StressLevel),
		TrendLabel:        labels.TrendLabel(rounded.TrendDirection),
		MissingCategories: nonNil(result.MissingCategories),
		FailedKeywords:    len(result.Failures()),
	}

	last := result.Composite.Len() - 1
	for _, name := range scoring.CategoryColumns(result.Composite) {
		values, _ := result.Composite.Column(name)
		summary.Categories = append(summary.Categories, CategoryScore{
			Name:   name,
			Latest: optional(scoring.Round2(values[last])),
		})
	}
	return summary
}

func resultStatus(result *tracker.Result) string {
	switch {
	case !result.HasData():
		return StatusNoData
	case result.IsPartial():
		return StatusPartial
	default:
		return StatusOK
	}
}

// optional maps missing values to JSON null
func optional(v float64) *float64 {
	if series.IsMissing(v) {
		return nil
	}
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
