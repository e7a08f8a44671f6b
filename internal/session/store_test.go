package session_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/lifelink/lifelink-web/internal/domain"
	"github.com/lifelink/lifelink-web/internal/session"
)

func testStore() (*session.Store, context.Context) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	store := session.NewStore(session.NewMemory(), logger)
	ctx := session.WithID(context.Background(), "sid-1")
	return store, ctx
}

func TestSetDonorLogin_WritesAllDonorKeys(t *testing.T) {
	store, ctx := testStore()

	if err := store.SetDonorLogin(ctx, "tok", "d-1", "Jane Doe"); err != nil {
		t.Fatalf("SetDonorLogin: %v", err)
	}

	if got := store.DonorToken(ctx); got != "tok" {
		t.Errorf("DonorToken = %q, want %q", got, "tok")
	}
	if got := store.DonorID(ctx); got != "d-1" {
		t.Errorf("DonorID = %q, want %q", got, "d-1")
	}
	if got := store.DonorName(ctx); got != "Jane Doe" {
		t.Errorf("DonorName = %q, want %q", got, "Jane Doe")
	}
}

func TestRequireDonor_SentinelWithoutToken(t *testing.T) {
	store, ctx := testStore()

	if err := store.RequireDonor(ctx); !errors.Is(err, domain.ErrNoDonorSession) {
		t.Errorf("err = %v, want ErrNoDonorSession", err)
	}

	if err := store.SetDonorLogin(ctx, "tok", "d-1", "Jane"); err != nil {
		t.Fatalf("SetDonorLogin: %v", err)
	}
	if err := store.RequireDonor(ctx); err != nil {
		t.Errorf("err = %v, want nil with a donor token", err)
	}
}

func TestRequireAdmin_SentinelWithoutBlob(t *testing.T) {
	store, ctx := testStore()

	if err := store.RequireAdmin(ctx); !errors.Is(err, domain.ErrNoAdminSession) {
		t.Errorf("err = %v, want ErrNoAdminSession", err)
	}

	sess := domain.NewAdminSession("tok", domain.AdminIdentity{Role: "admin"}, time.Now())
	if err := store.SetAdminSession(ctx, sess); err != nil {
		t.Fatalf("SetAdminSession: %v", err)
	}
	if err := store.RequireAdmin(ctx); err != nil {
		t.Errorf("err = %v, want nil with an admin session", err)
	}
}

func TestAdminSession_RoundTrip(t *testing.T) {
	store, ctx := testStore()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sess := domain.NewAdminSession("admin-tok", domain.AdminIdentity{
		AdminID:  "a-1",
		Email:    "admin@lifelink.pk",
		FullName: "Admin User",
		Role:     "admin",
	}, now)

	if err := store.SetAdminSession(ctx, sess); err != nil {
		t.Fatalf("SetAdminSession: %v", err)
	}

	got := store.AdminSession(ctx)
	if got == nil || !got.Valid() {
		t.Fatal("stored admin session should be valid")
	}
	if got.Token != "admin-tok" {
		t.Errorf("Token = %q, want %q", got.Token, "admin-tok")
	}
	if got.Expiry != now.Add(24*time.Hour).UnixMilli() {
		t.Errorf("Expiry = %d, want login+24h", got.Expiry)
	}
	if store.AdminToken(ctx) != "admin-tok" {
		t.Errorf("AdminToken = %q, want %q", store.AdminToken(ctx), "admin-tok")
	}
}

func TestAdminToken_EmptyWithoutSession(t *testing.T) {
	store, ctx := testStore()
	if got := store.AdminToken(ctx); got != "" {
		t.Errorf("AdminToken = %q, want empty", got)
	}
}

func TestLogout_ClearsEverySessionKey(t *testing.T) {
	store, ctx := testStore()

	if err := store.SetDonorLogin(ctx, "tok", "d-1", "Jane Doe"); err != nil {
		t.Fatalf("SetDonorLogin: %v", err)
	}
	if err := store.SetDonorRegistration(ctx, "d-1", "O+"); err != nil {
		t.Fatalf("SetDonorRegistration: %v", err)
	}
	sess := domain.NewAdminSession("admin-tok", domain.AdminIdentity{Role: "admin"}, time.Now())
	if err := store.SetAdminSession(ctx, sess); err != nil {
		t.Fatalf("SetAdminSession: %v", err)
	}
	if err := store.AppendDonation(ctx, "d-1", domain.DonationEntry{Date: "2026-01-10"}); err != nil {
		t.Fatalf("AppendDonation: %v", err)
	}

	if err := store.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if store.DonorToken(ctx) != "" || store.DonorID(ctx) != "" ||
		store.DonorName(ctx) != "" || store.DonorBlood(ctx) != "" {
		t.Error("donor keys should all be cleared")
	}
	if store.AdminSession(ctx) != nil {
		t.Error("admin session should be cleared")
	}
	if got := store.Donations(ctx, "d-1"); len(got) != 0 {
		t.Errorf("donation log should be cleared, got %d entries", len(got))
	}
}

func TestAppendDonation_NewestFirst(t *testing.T) {
	store, ctx := testStore()

	entries := []domain.DonationEntry{
		{Date: "2026-01-10", Location: "Karachi"},
		{Date: "2026-03-05", Location: "Lahore"},
		{Date: "2026-02-01", Location: "Islamabad"},
	}
	for _, e := range entries {
		if err := store.AppendDonation(ctx, "d-1", e); err != nil {
			t.Fatalf("AppendDonation: %v", err)
		}
	}

	got := store.Donations(ctx, "d-1")
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Date != "2026-03-05" || got[1].Date != "2026-02-01" || got[2].Date != "2026-01-10" {
		t.Errorf("donations not ordered newest first: %+v", got)
	}
}

func TestStore_IsolatedBetweenSessions(t *testing.T) {
	store, ctx := testStore()
	other := session.WithID(context.Background(), "sid-2")

	if err := store.SetDonorLogin(ctx, "tok", "d-1", "Jane"); err != nil {
		t.Fatalf("SetDonorLogin: %v", err)
	}
	if got := store.DonorToken(other); got != "" {
		t.Errorf("other session sees token %q, want empty", got)
	}
}
