package ratelimit

import (
	"sync"
	"time"
)

type memEntry struct {
	count     int64
	expiresAt time.Time
}

// memStore is the in-process fallback counter map. It is correct for a
// single node only; counters are not shared across server instances.
type memStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	window  time.Duration
	now     func() time.Time // swapped out in tests
}

func newMemStore(window time.Duration) *memStore {
	return &memStore{
		entries: make(map[string]memEntry),
		window:  window,
		now:     time.Now,
	}
}

func (m *memStore) Set(identity string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[identity] = memEntry{count: 1, expiresAt: m.now().Add(m.window)}
	return 1
}

func (m *memStore) Get(identity string) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[identity]
	if !ok || !e.expiresAt.After(m.now()) {
		delete(m.entries, identity)
		return 0, false
	}
	return e.count, true
}

// Increment bumps the counter without touching its absolute expiry: a
// counter created at T with window W still dies at T+W no matter how many
// increments land in between.
func (m *memStore) Increment(identity string) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[identity]
	if !ok || !e.expiresAt.After(m.now()) {
		delete(m.entries, identity)
		return 0, false
	}
	e.count++
	m.entries[identity] = e
	return e.count, true
}

func (m *memStore) sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for id, e := range m.entries {
		if !e.expiresAt.After(now) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}
