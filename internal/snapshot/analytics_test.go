package snapshot_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/lifelink/lifelink-web/internal/api"
	"github.com/lifelink/lifelink-web/internal/snapshot"
)

// fakeAPI implements the unexported apiCaller interface via method matching.
type fakeAPI struct {
	call func(ctx context.Context, endpoint string, opts api.CallOptions) (*api.Envelope, error)
}

func (f *fakeAPI) Call(ctx context.Context, endpoint string, opts api.CallOptions) (*api.Envelope, error) {
	return f.call(ctx, endpoint, opts)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func payloads(heatmapDonors int) *fakeAPI {
	return &fakeAPI{call: func(_ context.Context, endpoint string, _ api.CallOptions) (*api.Envelope, error) {
		switch endpoint {
		case "/heatmap/demand":
			raw, _ := json.Marshal(map[string]any{
				"summary": map[string]int{"total_donors": heatmapDonors},
			})
			return &api.Envelope{Success: true, Data: raw}, nil
		case "/analytics/trends":
			raw, _ := json.Marshal(map[string]any{"weekly_activity": []any{}})
			return &api.Envelope{Success: true, Data: raw}, nil
		}
		return nil, errors.New("unexpected endpoint " + endpoint)
	}}
}

func TestAnalytics_ViewEmptyBeforeFirstRefresh(t *testing.T) {
	snap := snapshot.NewAnalytics(payloads(1), testLogger())
	if _, _, _, ok := snap.View(); ok {
		t.Error("View ok = true before any refresh")
	}
}

func TestAnalytics_RefreshPopulatesView(t *testing.T) {
	snap := snapshot.NewAnalytics(payloads(42), testLogger())

	if err := snap.Refresh(context.Background(), 1); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	heatmap, trends, updatedAt, ok := snap.View()
	if !ok {
		t.Fatal("View ok = false after successful refresh")
	}
	if heatmap.Summary.TotalDonors != 42 {
		t.Errorf("TotalDonors = %d, want 42", heatmap.Summary.TotalDonors)
	}
	if trends == nil {
		t.Error("trends should be populated")
	}
	if updatedAt.IsZero() {
		t.Error("updatedAt should be set")
	}
}

func TestAnalytics_StaleRefreshDoesNotOverwrite(t *testing.T) {
	donors := 1
	fake := &fakeAPI{}
	fake.call = func(ctx context.Context, endpoint string, opts api.CallOptions) (*api.Envelope, error) {
		return payloads(donors).call(ctx, endpoint, opts)
	}

	snap := snapshot.NewAnalytics(fake, testLogger())
	if err := snap.Refresh(context.Background(), 5); err != nil {
		t.Fatalf("Refresh seq 5: %v", err)
	}

	// A slow older cycle lands afterwards carrying different data.
	donors = 999
	if err := snap.Refresh(context.Background(), 3); err != nil {
		t.Fatalf("Refresh seq 3: %v", err)
	}

	heatmap, _, _, ok := snap.View()
	if !ok {
		t.Fatal("View ok = false")
	}
	if heatmap.Summary.TotalDonors != 1 {
		t.Errorf("TotalDonors = %d, stale cycle overwrote newer data", heatmap.Summary.TotalDonors)
	}
}

func TestAnalytics_RefreshErrorLeavesViewIntact(t *testing.T) {
	good := payloads(7)
	snap := snapshot.NewAnalytics(good, testLogger())
	if err := snap.Refresh(context.Background(), 1); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	failing := &fakeAPI{call: func(_ context.Context, _ string, _ api.CallOptions) (*api.Envelope, error) {
		return nil, errors.New("upstream down")
	}}
	snapFail := snapshot.NewAnalytics(failing, testLogger())
	if err := snapFail.Refresh(context.Background(), 1); err == nil {
		t.Error("Refresh should report upstream failure")
	}

	// The original snapshot still serves its last good data.
	if heatmap, _, _, ok := snap.View(); !ok || heatmap.Summary.TotalDonors != 7 {
		t.Error("previous snapshot data should remain")
	}
}
