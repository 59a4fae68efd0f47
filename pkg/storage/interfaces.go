package storage

import (
	"context"
	"errors"

	"stress-index/pkg/tracker"
)

// ErrNoData is returned when a refresh result has nothing to export
var ErrNoData = errors.New("refresh produced no data")

// Exporter writes a refresh result somewhere durable
type Exporter interface {
	Export(ctx context.Context, result *tracker.Result) (*ExportedFiles, error)
}

// ResultStore keeps recent refresh results in memory
type ResultStore interface {
	Put(result *tracker.Result)
	Get(id string) (*tracker.Result, bool)
	Latest() (*tracker.Result, bool)
	List() []*tracker.Result
}
