// Package poller runs the fixed-interval refresh loop behind the
// analytics snapshot. Cycles may overlap when the upstream is slow; the
// sequence Guard makes sure a superseded cycle can never overwrite a
// newer one's result.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lifelink/lifelink-web/internal/metrics"
)

// RefreshFunc performs one fetch cycle. seq identifies the cycle; pass it
// to Guard.Apply when storing the result.
type RefreshFunc func(ctx context.Context, seq uint64) error

type Poller struct {
	name     string
	interval time.Duration
	refresh  RefreshFunc
	logger   *slog.Logger

	seq    atomic.Uint64
	mu     sync.Mutex
	paused bool
	kick   chan struct{}
}

func New(name string, interval time.Duration, refresh RefreshFunc, logger *slog.Logger) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		refresh:  refresh,
		logger:   logger.With("component", "poller", "poller", name),
		kick:     make(chan struct{}, 1),
	}
}

// Start runs the loop until ctx is done. The first refresh fires
// immediately. Ticks are skipped while paused; each refresh runs in its
// own goroutine so a slow cycle never delays the next tick.
func (p *Poller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("poller started", "interval", p.interval)
	p.fire(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller shut down")
			return
		case <-p.kick:
			p.fire(ctx)
		case <-ticker.C:
			if p.isPaused() {
				continue
			}
			p.fire(ctx)
		}
	}
}

func (p *Poller) fire(ctx context.Context) {
	seq := p.seq.Add(1)
	go func() {
		start := time.Now()
		outcome := "success"
		if err := p.refresh(ctx, seq); err != nil {
			outcome = "failure"
			p.logger.Warn("refresh failed", "seq", seq, "error", err)
		}
		metrics.PollerRefreshDuration.WithLabelValues(p.name, outcome).Observe(time.Since(start).Seconds())
	}()
}

func (p *Poller) isPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Pause stops scheduled refreshes, mirroring the hidden-tab behavior.
func (p *Poller) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

// Resume re-enables refreshes and triggers one immediately.
func (p *Poller) Resume() {
	p.mu.Lock()
	wasPaused := p.paused
	p.paused = false
	p.mu.Unlock()
	if wasPaused {
		select {
		case p.kick <- struct{}{}:
		default:
		}
	}
}

// Guard serializes snapshot writes by cycle sequence: a result from an
// older cycle than the last applied one is dropped.
type Guard struct {
	mu      sync.Mutex
	name    string
	applied uint64
}

func NewGuard(name string) *Guard {
	return &Guard{name: name}
}

// Apply runs fn only if seq is newer than the last applied cycle and
// reports whether it ran.
func (g *Guard) Apply(seq uint64, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq <= g.applied {
		metrics.PollerStaleDropsTotal.WithLabelValues(g.name).Inc()
		return false
	}
	g.applied = seq
	fn()
	return true
}
