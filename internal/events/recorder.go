package events

import (
	"context"
	"log/slog"
	"sync"
)

const defaultRecent = 64

// Recorder keeps a bounded window of the latest lifecycle events so the
// dashboard can show recent camera-job activity without replaying the
// channel.
type Recorder struct {
	mu  sync.Mutex
	buf []Event
	max int
}

func NewRecorder(max int) *Recorder {
	if max <= 0 {
		max = defaultRecent
	}
	return &Recorder{max: max}
}

func (r *Recorder) Add(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = append(r.buf, event)
	if len(r.buf) > r.max {
		r.buf = r.buf[len(r.buf)-r.max:]
	}
}

// Recent returns the retained events, oldest first.
func (r *Recorder) Recent() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.buf))
	copy(out, r.buf)
	return out
}

// Record drains the bus into rec until the subscription ends. Blocking; run
// in a goroutine. Closing the underlying connection ends the subscription.
func Record(ctx context.Context, bus Bus, rec *Recorder, logger *slog.Logger) error {
	ch, err := bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	logger.Info("Listening for job events")
	for event := range ch {
		rec.Add(event)
	}
	logger.Info("Job event subscription ended")
	return nil
}
