package trends

import (
	"context"
	"sync"
	"time"
)

// Pacer runs provider calls one at a time and keeps a minimum gap between
// the end of one call and the start of the next
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval, now: time.Now}
}

// Execute waits for the pacing gap, then runs fn
func (p *Pacer) Execute(ctx context.Context, fn func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.last.IsZero() && p.interval > 0 {
		if wait := p.interval - p.now().Sub(p.last); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	defer func() { p.last = p.now() }()
	return fn()
}
