package db

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"camwatch/internal/outcome"
)

func newTestDB(attempts int, waitMin, waitMax time.Duration) (*DB, *[]time.Duration) {
	var waits []time.Duration
	d := &DB{
		retry:  RetryConfig{Attempts: attempts, WaitMin: waitMin, WaitMax: waitMax},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		sleep:  func(dur time.Duration) { waits = append(waits, dur) },
	}
	return d, &waits
}

func TestRetryQueryExhaustsConfiguredAttempts(t *testing.T) {
	d, waits := newTestDB(5, time.Second, 3*time.Second)

	calls := 0
	res := retryQuery(context.Background(), d, "alwaysDown", func(ctx context.Context) (outcome.Outcome[string], error) {
		calls++
		return outcome.Unavailable[string](), nil
	})

	if calls != 5 {
		t.Errorf("query attempts = %d, want 5", calls)
	}
	if !res.IsUnavailable() {
		t.Errorf("result = %v, want unavailable", res.State())
	}
	for _, w := range *waits {
		if w < time.Second || w > 3*time.Second {
			t.Errorf("wait %v outside [1s, 3s]", w)
		}
	}
}

func TestRetryQueryReturnsOnFirstUsableResult(t *testing.T) {
	d, waits := newTestDB(5, time.Second, 3*time.Second)

	calls := 0
	res := retryQuery(context.Background(), d, "flaky", func(ctx context.Context) (outcome.Outcome[int], error) {
		calls++
		if calls < 3 {
			return outcome.Unavailable[int](), nil
		}
		return outcome.Found(7), nil
	})

	if calls != 3 {
		t.Errorf("query attempts = %d, want 3", calls)
	}
	if v, ok := res.Value(); !ok || v != 7 {
		t.Errorf("result = %v, want Found(7)", res.State())
	}
	if len(*waits) != 2 {
		t.Errorf("waited %d times, want 2", len(*waits))
	}
}

func TestRetryQueryDoesNotRetryAbsence(t *testing.T) {
	d, _ := newTestDB(5, 0, 0)

	calls := 0
	res := retryQuery(context.Background(), d, "noRow", func(ctx context.Context) (outcome.Outcome[string], error) {
		calls++
		return outcome.NotFound[string](), nil
	})

	if calls != 1 {
		t.Errorf("query attempts = %d, want 1", calls)
	}
	if !res.IsNotFound() {
		t.Errorf("result = %v, want not_found", res.State())
	}
}

func TestRetryQueryAbortsOnError(t *testing.T) {
	d, waits := newTestDB(5, time.Second, 3*time.Second)

	calls := 0
	res := retryQuery(context.Background(), d, "broken", func(ctx context.Context) (outcome.Outcome[string], error) {
		calls++
		return outcome.Unavailable[string](), errors.New("bad argument")
	})

	if calls != 1 {
		t.Errorf("query attempts = %d, want 1", calls)
	}
	if !res.IsUnavailable() {
		t.Errorf("result = %v, want unavailable", res.State())
	}
	if len(*waits) != 0 {
		t.Errorf("waited %d times, want 0", len(*waits))
	}
}

func TestRandWait(t *testing.T) {
	for range 100 {
		w := randWait(time.Second, 3*time.Second)
		if w < time.Second || w > 3*time.Second {
			t.Fatalf("randWait = %v outside [1s, 3s]", w)
		}
	}
	if w := randWait(2*time.Second, 2*time.Second); w != 2*time.Second {
		t.Errorf("randWait on equal bounds = %v, want 2s", w)
	}
}
