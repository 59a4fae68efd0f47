package service

import (
	"context"
	"errors"

	"stress-index/pkg/storage"
	"stress-index/pkg/tracker"
	"stress-index/pkg/trends"
)

// ErrRefreshInProgress is returned when a refresh is requested while
// another one is still running
var ErrRefreshInProgress = errors.New("refresh already in progress")

// RefreshService runs refreshes and serves the results kept in memory
type RefreshService interface {
	Refresh(ctx context.Context) (*tracker.Result, error)
	Latest() (*tracker.Result, bool)
	Get(id string) (*tracker.Result, bool)
	History() []*tracker.Result
	Export(ctx context.Context, result *tracker.Result) (*storage.ExportedFiles, error)
}

// StatsProvider is implemented by sources that expose request counters
type StatsProvider interface {
	Stats() trends.ClientStats
}
