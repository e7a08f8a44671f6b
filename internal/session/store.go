// Package session persists per-browser session records: the donor key
// group, the admin session blob, and the donation-log fallback cache.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/lifelink/lifelink-web/internal/domain"
)

// Fixed key identifiers, one record each. The donor group and the admin
// blob are independent; no atomicity is guaranteed across them.
const (
	KeyDonorToken = "lifelink_donor_token"
	KeyDonorID    = "lifelink_donor_id"
	KeyDonorName  = "lifelink_donor_name"
	KeyDonorBlood = "lifelink_donor_blood"
	KeyAdmin      = "lifelink_admin_session"
)

func donationsKey(donorID string) string {
	return "lifelink_donations_" + donorID
}

// Backend is plain key-based get/set/remove scoped to a browser session ID.
type Backend interface {
	Get(ctx context.Context, sid, key string) (string, error) // "", nil when absent
	Set(ctx context.Context, sid, key, value string) error
	Remove(ctx context.Context, sid string, keys ...string) error
	Ping(ctx context.Context) error
}

// Store layers typed accessors over a Backend. The browser session ID is
// read from ctx; calls without one operate on nothing and return zero values.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

func NewStore(backend Backend, logger *slog.Logger) *Store {
	return &Store{backend: backend, logger: logger.With("component", "session_store")}
}

func (s *Store) get(ctx context.Context, key string) string {
	sid := IDFromContext(ctx)
	if sid == "" {
		return ""
	}
	v, err := s.backend.Get(ctx, sid, key)
	if err != nil {
		s.logger.Warn("session read failed", "key", key, "error", err)
		return ""
	}
	return v
}

func (s *Store) set(ctx context.Context, key, value string) error {
	sid := IDFromContext(ctx)
	if sid == "" {
		return fmt.Errorf("set %s: no session id in context", key)
	}
	return s.backend.Set(ctx, sid, key, value)
}

func (s *Store) DonorToken(ctx context.Context) string { return s.get(ctx, KeyDonorToken) }
func (s *Store) DonorID(ctx context.Context) string    { return s.get(ctx, KeyDonorID) }
func (s *Store) DonorName(ctx context.Context) string  { return s.get(ctx, KeyDonorName) }
func (s *Store) DonorBlood(ctx context.Context) string { return s.get(ctx, KeyDonorBlood) }

// SetDonorLogin writes the donor key group. The keys are written one by
// one; a write interrupted midway leaves a partial group, unguarded.
func (s *Store) SetDonorLogin(ctx context.Context, token, donorID, name string) error {
	if err := s.set(ctx, KeyDonorToken, token); err != nil {
		return err
	}
	if err := s.set(ctx, KeyDonorID, donorID); err != nil {
		return err
	}
	return s.set(ctx, KeyDonorName, name)
}

// SetDonorRegistration stores the id and blood group returned by
// /donors/register for later use by the tracker.
func (s *Store) SetDonorRegistration(ctx context.Context, donorID, bloodGroup string) error {
	if err := s.set(ctx, KeyDonorID, donorID); err != nil {
		return err
	}
	return s.set(ctx, KeyDonorBlood, bloodGroup)
}

// AdminSession decodes the stored admin blob. Returns nil when absent or
// unreadable.
func (s *Store) AdminSession(ctx context.Context) *domain.AdminSession {
	raw := s.get(ctx, KeyAdmin)
	if raw == "" {
		return nil
	}
	var sess domain.AdminSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		s.logger.Warn("corrupt admin session blob", "error", err)
		return nil
	}
	return &sess
}

func (s *Store) SetAdminSession(ctx context.Context, sess domain.AdminSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode admin session: %w", err)
	}
	return s.set(ctx, KeyAdmin, string(raw))
}

// RequireDonor reports domain.ErrNoDonorSession when the session carries
// no donor token.
func (s *Store) RequireDonor(ctx context.Context) error {
	if s.DonorToken(ctx) == "" {
		return domain.ErrNoDonorSession
	}
	return nil
}

// RequireAdmin reports domain.ErrNoAdminSession unless the session holds
// an authenticated admin record with a token.
func (s *Store) RequireAdmin(ctx context.Context) error {
	if !s.AdminSession(ctx).Valid() {
		return domain.ErrNoAdminSession
	}
	return nil
}

// AdminToken implements api.TokenSource: the bearer token for authenticated
// calls, or "" when no admin session is stored.
func (s *Store) AdminToken(ctx context.Context) string {
	sess := s.AdminSession(ctx)
	if sess == nil {
		return ""
	}
	return sess.Token
}

// Logout removes every session key together. Individual removal is never
// done outside this path.
func (s *Store) Logout(ctx context.Context) error {
	sid := IDFromContext(ctx)
	if sid == "" {
		return nil
	}
	keys := []string{KeyDonorToken, KeyDonorID, KeyDonorName, KeyDonorBlood, KeyAdmin}
	if donorID := s.get(ctx, KeyDonorID); donorID != "" {
		keys = append(keys, donationsKey(donorID))
	}
	return s.backend.Remove(ctx, sid, keys...)
}

// Donations reads the per-donor fallback donation log.
func (s *Store) Donations(ctx context.Context, donorID string) []domain.DonationEntry {
	raw := s.get(ctx, donationsKey(donorID))
	if raw == "" {
		return nil
	}
	var entries []domain.DonationEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logger.Warn("corrupt donation log", "donor_id", donorID, "error", err)
		return nil
	}
	return entries
}

// AppendDonation adds the entry to the fallback log, kept newest first.
func (s *Store) AppendDonation(ctx context.Context, donorID string, entry domain.DonationEntry) error {
	entries := append([]domain.DonationEntry{entry}, s.Donations(ctx, donorID)...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode donation log: %w", err)
	}
	return s.set(ctx, donationsKey(donorID), string(raw))
}
