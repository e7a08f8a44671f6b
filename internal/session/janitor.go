package session

import (
	"log/slog"
	"time"

	"github.com/lifelink/lifelink-web/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Sweeper is satisfied by *Memory. Redis sessions expire via TTL instead.
type Sweeper interface {
	Sweep(maxIdle time.Duration) int
	Count() int
}

// Janitor drops idle browser sessions on a schedule so the in-process
// backend does not grow without bound. It does not touch the admin blob's
// expiry field; that stays server-side enforced.
type Janitor struct {
	cron    *cron.Cron
	sweeper Sweeper
	maxIdle time.Duration
	logger  *slog.Logger
}

func NewJanitor(sweeper Sweeper, maxIdle time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		cron:    cron.New(),
		sweeper: sweeper,
		maxIdle: maxIdle,
		logger:  logger.With("component", "session_janitor"),
	}
}

func (j *Janitor) Start() error {
	_, err := j.cron.AddFunc("@every 1h", j.sweep)
	if err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("janitor started", "max_idle", j.maxIdle)
	return nil
}

func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("janitor stopped")
}

func (j *Janitor) sweep() {
	swept := j.sweeper.Sweep(j.maxIdle)
	metrics.SessionsSweptTotal.Add(float64(swept))
	metrics.SessionsActive.Set(float64(j.sweeper.Count()))
	if swept > 0 {
		j.logger.Info("swept idle sessions", "count", swept)
	}
}
