package service

import (
	"context"
	"sync"

	"stress-index/pkg/logger"
	"stress-index/pkg/storage"
	"stress-index/pkg/tracker"
)

// Refresher runs one pipeline pass
type Refresher interface {
	Refresh(ctx context.Context) (*tracker.Result, error)
}

// Dashboard serializes refreshes and keeps recent results in memory
type Dashboard struct {
	tracker  Refresher
	history  storage.ResultStore
	exporter storage.Exporter
	running  sync.Mutex
	log      *logger.Logger
}

func NewDashboard(t Refresher, history storage.ResultStore, exporter storage.Exporter) *Dashboard {
	return &Dashboard{
		tracker:  t,
		history:  history,
		exporter: exporter,
		log:      logger.GetLogger().WithComponent("dashboard"),
	}
}

// Refresh runs the pipeline unless one is already running. Results without
// data are still recorded so the history shows the attempt.
func (d *Dashboard) Refresh(ctx context.Context) (*tracker.Result, error) {
	if !d.running.TryLock() {
		return nil, ErrRefreshInProgress
	}
	defer d.running.Unlock()

	result, err := d.tracker.Refresh(ctx)
	if err != nil {
		d.log.WithError(err).Error("Refresh failed")
		return nil, err
	}
	d.history.Put(result)
	return result, nil
}

// Latest returns the newest result that has data
func (d *Dashboard) Latest() (*tracker.Result, bool) {
	for _, r := range d.history.List() {
		if r.HasData() {
			return r, true
		}
	}
	return nil, false
}

func (d *Dashboard) Get(id string) (*tracker.Result, bool) {
	return d.history.Get(id)
}

func (d *Dashboard) History() []*tracker.Result {
	return d.history.List()
}

func (d *Dashboard) Export(ctx context.Context, result *tracker.Result) (*storage.ExportedFiles, error) {
	return d.exporter.Export(ctx, result)
}
