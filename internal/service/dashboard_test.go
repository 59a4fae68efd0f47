package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stress-index/pkg/scoring"
	"stress-index/pkg/series"
	"stress-index/pkg/storage"
	"stress-index/pkg/tracker"
)

type fakeRefresher struct {
	results []*tracker.Result
	err     error
	block   chan struct{}
	started chan struct{}
}

func (f *fakeRefresher) Refresh(ctx context.Context) (*tracker.Result, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r, nil
}

func resultWithData(t *testing.T, id string) *tracker.Result {
	t.Helper()
	s, err := series.NewSeries("risparmio", []time.Time{time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)}, []float64{42})
	if err != nil {
		t.Fatalf("Failed to build series: %v", err)
	}
	composite := scoring.BuildComposite([]*series.Series{s})
	return &tracker.Result{ID: id, Composite: composite, Analysis: scoring.Analyze(composite)}
}

func TestDashboard_LatestSkipsEmptyResults(t *testing.T) {
	refresher := &fakeRefresher{results: []*tracker.Result{
		resultWithData(t, "with-data"),
		{ID: "empty", Composite: series.Empty()},
	}}
	d := NewDashboard(refresher, storage.NewMemoryHistory(5, 0), storage.NewReportExporter(t.TempDir()))

	for i := 0; i < 2; i++ {
		if _, err := d.Refresh(context.Background()); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	latest, ok := d.Latest()
	if !ok || latest.ID != "with-data" {
		t.Errorf("Expected the latest result with data, got %+v", latest)
	}
	if h := d.History(); len(h) != 2 || h[0].ID != "empty" {
		t.Errorf("Expected both attempts in history, got %d", len(h))
	}
	if _, ok := d.Get("empty"); !ok {
		t.Error("Expected empty result to be retrievable by id")
	}
}

func TestDashboard_RejectsConcurrentRefresh(t *testing.T) {
	refresher := &fakeRefresher{
		results: []*tracker.Result{resultWithData(t, "slow")},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	d := NewDashboard(refresher, storage.NewMemoryHistory(5, 0), storage.NewReportExporter(t.TempDir()))

	done := make(chan error, 1)
	go func() {
		_, err := d.Refresh(context.Background())
		done <- err
	}()
	<-refresher.started

	if _, err := d.Refresh(context.Background()); !errors.Is(err, ErrRefreshInProgress) {
		t.Errorf("Expected ErrRefreshInProgress, got %v", err)
	}

	close(refresher.block)
	if err := <-done; err != nil {
		t.Errorf("Unexpected error from first refresh: %v", err)
	}
}

func TestDashboard_RefreshError(t *testing.T) {
	d := NewDashboard(&fakeRefresher{err: context.Canceled}, storage.NewMemoryHistory(5, 0), storage.NewReportExporter(t.TempDir()))

	if _, err := d.Refresh(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(d.History()) != 0 {
		t.Error("Failed refresh must not be recorded")
	}
}
