package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/lifelink/lifelink-web/internal/session"
)

func TestMemory_SweepDropsIdleSessions(t *testing.T) {
	m := session.NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "sid-1", "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Set(ctx, "sid-2", "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if m.Count() != 2 {
		t.Fatalf("Count = %d, want 2", m.Count())
	}

	if swept := m.Sweep(time.Hour); swept != 0 {
		t.Errorf("Sweep(1h) = %d, want 0", swept)
	}

	// Zero idle tolerance sweeps everything already written.
	time.Sleep(time.Millisecond)
	if swept := m.Sweep(0); swept != 2 {
		t.Errorf("Sweep(0) = %d, want 2", swept)
	}
	if m.Count() != 0 {
		t.Errorf("Count = %d, want 0", m.Count())
	}
}

func TestMemory_GetMissingIsEmptyNotError(t *testing.T) {
	m := session.NewMemory()
	got, err := m.Get(context.Background(), "nope", "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "" {
		t.Errorf("Get = %q, want empty", got)
	}
}
