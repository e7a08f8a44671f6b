// Package snapshot caches the public analytics payloads refreshed by the
// 30-second poller, so chart requests are served from memory between polls.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lifelink/lifelink-web/internal/api"
	"github.com/lifelink/lifelink-web/internal/domain"
	"github.com/lifelink/lifelink-web/internal/poller"
)

// apiCaller is the slice of the API client the snapshot needs.
type apiCaller interface {
	Call(ctx context.Context, endpoint string, opts api.CallOptions) (*api.Envelope, error)
}

// Analytics holds the last successfully fetched heatmap and trends data.
type Analytics struct {
	api    apiCaller
	guard  *poller.Guard
	logger *slog.Logger

	mu        sync.RWMutex
	heatmap   *domain.HeatmapData
	trends    *domain.TrendsData
	updatedAt time.Time
}

func NewAnalytics(apiClient apiCaller, logger *slog.Logger) *Analytics {
	return &Analytics{
		api:    apiClient,
		guard:  poller.NewGuard("analytics"),
		logger: logger.With("component", "analytics_snapshot"),
	}
}

// Refresh is the poller.RefreshFunc: both endpoints are fetched in
// parallel and the result is applied only if this cycle is still current.
func (s *Analytics) Refresh(ctx context.Context, seq uint64) error {
	var (
		wg         sync.WaitGroup
		heatmap    domain.HeatmapData
		trends     domain.TrendsData
		heatmapErr error
		trendsErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		heatmapErr = s.fetch(ctx, "/heatmap/demand", &heatmap)
	}()
	go func() {
		defer wg.Done()
		trendsErr = s.fetch(ctx, "/analytics/trends", &trends)
	}()
	wg.Wait()

	if heatmapErr != nil {
		return heatmapErr
	}
	if trendsErr != nil {
		return trendsErr
	}

	applied := s.guard.Apply(seq, func() {
		s.mu.Lock()
		s.heatmap = &heatmap
		s.trends = &trends
		s.updatedAt = time.Now()
		s.mu.Unlock()
	})
	if !applied {
		s.logger.Debug("dropped superseded refresh", "seq", seq)
	}
	return nil
}

func (s *Analytics) fetch(ctx context.Context, endpoint string, out any) error {
	env, err := s.api.Call(ctx, endpoint, api.CallOptions{})
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// View returns the cached payloads. ok is false until the first successful
// refresh; callers then render placeholder values.
func (s *Analytics) View() (heatmap *domain.HeatmapData, trends *domain.TrendsData, updatedAt time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.heatmap == nil || s.trends == nil {
		return nil, nil, time.Time{}, false
	}
	return s.heatmap, s.trends, s.updatedAt, true
}
