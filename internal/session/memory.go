package session

import (
	"context"
	"sync"
	"time"
)

// Memory is the default in-process backend. Records live until the janitor
// sweeps sessions idle past the configured cutoff.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*memoryRecord
}

type memoryRecord struct {
	values   map[string]string
	lastSeen time.Time
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*memoryRecord)}
}

func (m *Memory) Get(_ context.Context, sid, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.sessions[sid]
	if !ok {
		return "", nil
	}
	return rec.values[key], nil
}

func (m *Memory) Set(_ context.Context, sid, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.sessions[sid]
	if !ok {
		rec = &memoryRecord{values: make(map[string]string)}
		m.sessions[sid] = rec
	}
	rec.values[key] = value
	rec.lastSeen = time.Now()
	return nil
}

func (m *Memory) Remove(_ context.Context, sid string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.sessions[sid]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(rec.values, k)
	}
	rec.lastSeen = time.Now()
	return nil
}

func (m *Memory) Ping(_ context.Context) error { return nil }

// Count returns the number of live sessions.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle longer than maxIdle and reports how many went.
func (m *Memory) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	swept := 0
	for sid, rec := range m.sessions {
		if rec.lastSeen.Before(cutoff) {
			delete(m.sessions, sid)
			swept++
		}
	}
	return swept
}
