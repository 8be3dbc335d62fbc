package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"camwatch/internal/outcome"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCache is an in-memory stand-in for the Redis session cache with
// set-if-absent semantics. down=true simulates an unreachable cache.
type fakeCache struct {
	mu   sync.Mutex
	vals map[string]string
	down bool

	gets    int
	creates []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{vals: make(map[string]string)}
}

func (f *fakeCache) GetSessionByIdentity(ctx context.Context, identity string) outcome.Outcome[string] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.down {
		return outcome.Unavailable[string]()
	}
	v, ok := f.vals[identity]
	if !ok {
		return outcome.NotFound[string]()
	}
	return outcome.Found(v)
}

func (f *fakeCache) CreateSessionByIdentity(ctx context.Context, identity, sessionID string) outcome.Outcome[string] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return outcome.Unavailable[string]()
	}
	f.creates = append(f.creates, sessionID)
	if _, exists := f.vals[identity]; !exists {
		f.vals[identity] = sessionID
	}
	return outcome.Found(sessionID)
}

// fakeStore mimics the sessions table: unique on identity, insert adopts the
// first writer's value.
type fakeStore struct {
	mu   sync.Mutex
	rows map[string]string
	down bool

	inserted int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]string)}
}

func (f *fakeStore) GetSessionIDByAuthID(ctx context.Context, authID string) outcome.Outcome[string] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return outcome.Unavailable[string]()
	}
	v, ok := f.rows[authID]
	if !ok {
		return outcome.NotFound[string]()
	}
	return outcome.Found(v)
}

func (f *fakeStore) CreateSessionIDByAuthID(ctx context.Context, authID, sessionID string) outcome.Outcome[string] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return outcome.Unavailable[string]()
	}
	if existing, ok := f.rows[authID]; ok {
		return outcome.Found(existing)
	}
	f.rows[authID] = sessionID
	f.inserted++
	return outcome.Found(sessionID)
}

func TestResolveCacheHitSkipsStore(t *testing.T) {
	c := newFakeCache()
	c.vals["alice"] = "cached-id"
	s := newFakeStore()
	s.down = true // must never be consulted

	r := NewResolver(c, s, testLogger())
	got, err := r.Resolve(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "cached-id" {
		t.Errorf("Resolve = %q, want cached-id", got)
	}
}

func TestResolveCreatesWhenBothMiss(t *testing.T) {
	c := newFakeCache()
	s := newFakeStore()

	r := NewResolver(c, s, testLogger())
	r.newID = func() string { return "fresh-uuid" }

	got, err := r.Resolve(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "fresh-uuid" {
		t.Errorf("Resolve = %q, want fresh-uuid", got)
	}
	if s.rows["alice"] != "fresh-uuid" {
		t.Errorf("store row = %q, want fresh-uuid", s.rows["alice"])
	}
	if c.vals["alice"] != "fresh-uuid" {
		t.Errorf("cache value = %q, want fresh-uuid", c.vals["alice"])
	}
}

func TestResolveStoreHitWritesBackToCache(t *testing.T) {
	c := newFakeCache()
	s := newFakeStore()
	s.rows["alice"] = "durable-id"

	r := NewResolver(c, s, testLogger())
	got, err := r.Resolve(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "durable-id" {
		t.Errorf("Resolve = %q, want durable-id", got)
	}
	if c.vals["alice"] != "durable-id" {
		t.Errorf("cache write-back = %q, want durable-id", c.vals["alice"])
	}
}

func TestResolveFailsWhenStoreOffline(t *testing.T) {
	c := newFakeCache()
	c.down = true
	s := newFakeStore()
	s.down = true

	r := NewResolver(c, s, testLogger())
	if _, err := r.Resolve(context.Background(), "alice"); !errors.Is(err, ErrDatabasesOffline) {
		t.Errorf("Resolve error = %v, want ErrDatabasesOffline", err)
	}
}

func TestResolveCacheDownStoreUp(t *testing.T) {
	c := newFakeCache()
	c.down = true
	s := newFakeStore()
	s.rows["alice"] = "durable-id"

	r := NewResolver(c, s, testLogger())
	got, err := r.Resolve(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "durable-id" {
		t.Errorf("Resolve = %q, want durable-id", got)
	}
}

// Two concurrent resolutions for an identity with no prior session must end
// with one durable row and both callers holding the same id.
func TestResolveConcurrentFirstLogin(t *testing.T) {
	c := newFakeCache()
	s := newFakeStore()

	r := NewResolver(c, s, testLogger())

	const callers = 8
	ids := make([]string, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i], errs[i] = r.Resolve(context.Background(), "alice")
		}()
	}
	wg.Wait()

	for i := range callers {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("caller %d resolved %q, caller 0 resolved %q", i, ids[i], ids[0])
		}
	}
	if s.inserted != 1 {
		t.Errorf("durable rows created = %d, want 1", s.inserted)
	}
	if s.rows["alice"] != ids[0] {
		t.Errorf("store row = %q, resolved = %q", s.rows["alice"], ids[0])
	}
}
