package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// A client that never connected must answer Unavailable without touching the
// underlying connection.
func TestOperationsOnDisconnectedClient(t *testing.T) {
	c := &Client{
		// rdb deliberately nil: touching it would panic the test.
		backoff: Backoff{MaxRetries: 0, CapDelay: time.Millisecond},
		logger:  testLogger(),
	}
	c.exhausted.Store(true) // keep the guard from spawning a reconnect
	ctx := context.Background()

	if res := c.Ping(ctx); !res.IsUnavailable() {
		t.Errorf("Ping on disconnected client = %v, want unavailable", res.State())
	}

	sc := NewSessionCache(c, 15)
	if res := sc.GetSessionByIdentity(ctx, "alice"); !res.IsUnavailable() {
		t.Errorf("GetSessionByIdentity = %v, want unavailable", res.State())
	}
	if res := sc.CreateSessionByIdentity(ctx, "alice", "sid"); !res.IsUnavailable() {
		t.Errorf("CreateSessionByIdentity = %v, want unavailable", res.State())
	}

	rc := NewRateLimitCache(c, 15*time.Minute)
	if res := rc.IncrementCountByIdentity(ctx, "alice"); !res.IsUnavailable() {
		t.Errorf("IncrementCountByIdentity = %v, want unavailable", res.State())
	}
	if res := rc.SetCountByIdentity(ctx, "alice"); !res.IsUnavailable() {
		t.Errorf("SetCountByIdentity = %v, want unavailable", res.State())
	}
}

func TestConnectGivesUpAfterRetryBudget(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1", // nothing listens here
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	c := &Client{
		rdb:     rdb,
		closer:  rdb.Close,
		backoff: Backoff{MaxRetries: 2, CapDelay: time.Millisecond},
		logger:  testLogger(),
	}

	if err := c.Connect(context.Background()); !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("Connect = %v, want ErrRetriesExhausted", err)
	}
	if c.Ready() {
		t.Error("client reports ready after exhausted connect")
	}
	// Terminal: further connects refuse immediately.
	if err := c.Connect(context.Background()); !errors.Is(err, ErrRetriesExhausted) {
		t.Errorf("second Connect = %v, want ErrRetriesExhausted", err)
	}
}

func TestConnectReportsCancelledContext(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1", // nothing listens here
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	c := &Client{
		rdb:     rdb,
		closer:  rdb.Close,
		backoff: Backoff{MaxRetries: 50, CapDelay: time.Minute},
		logger:  testLogger(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Connect(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Connect = %v, want context.Canceled", err)
	}
	if c.Ready() {
		t.Error("client reports ready after cancelled connect")
	}
	// The budget was not spent; a later connect may still try.
	if c.exhausted.Load() {
		t.Error("cancelled connect must not mark the client exhausted")
	}
}

func TestDisconnectIdempotent(t *testing.T) {
	closed := 0
	c := &Client{
		closer: func() error { closed++; return nil },
		logger: testLogger(),
	}
	c.Disconnect()
	c.Disconnect()
	if closed != 1 {
		t.Errorf("closer called %d times, want 1", closed)
	}
}

func TestBackoffDelay(t *testing.T) {
	b := Backoff{MaxRetries: 3, CapDelay: 2 * time.Second}

	for attempt := 1; attempt <= 3; attempt++ {
		d, ok := b.Delay(attempt)
		if !ok {
			t.Fatalf("Delay(%d) terminal before budget spent", attempt)
		}
		base := baseDelay << uint(attempt)
		if base > b.CapDelay {
			base = b.CapDelay
		}
		if d < base || d > base+maxJitter {
			t.Errorf("Delay(%d) = %v outside [%v, %v]", attempt, d, base, base+maxJitter)
		}
	}

	if _, ok := b.Delay(4); ok {
		t.Error("Delay(4) not terminal with MaxRetries=3")
	}
}

func TestBackoffDelayCapped(t *testing.T) {
	b := Backoff{MaxRetries: 60, CapDelay: time.Second}
	// Shift overflow territory must still respect the cap.
	d, ok := b.Delay(40)
	if !ok {
		t.Fatal("Delay(40) terminal")
	}
	if d > b.CapDelay+maxJitter {
		t.Errorf("Delay(40) = %v exceeds cap+jitter", d)
	}
}
