package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

// chanBus feeds Record from a plain channel.
type chanBus struct {
	ch chan Event
}

func (b *chanBus) Publish(_ context.Context, event Event) error {
	b.ch <- event
	return nil
}

func (b *chanBus) Subscribe(context.Context) (<-chan Event, error) {
	return b.ch, nil
}

func TestRecorderKeepsLatest(t *testing.T) {
	r := NewRecorder(3)
	for id := int64(1); id <= 5; id++ {
		r.Add(Event{Type: EventJobStarted, CameraID: id})
	}

	got := r.Recent()
	if len(got) != 3 {
		t.Fatalf("Recent = %d events, want 3", len(got))
	}
	for i, want := range []int64{3, 4, 5} {
		if got[i].CameraID != want {
			t.Errorf("Recent[%d].CameraID = %d, want %d", i, got[i].CameraID, want)
		}
	}
}

func TestRecorderEmpty(t *testing.T) {
	r := NewRecorder(0)
	if got := r.Recent(); len(got) != 0 {
		t.Fatalf("Recent on fresh recorder = %d events, want 0", len(got))
	}
}

func TestRecordDrainsBusIntoRecorder(t *testing.T) {
	bus := &chanBus{ch: make(chan Event, 4)}
	rec := NewRecorder(16)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	done := make(chan error, 1)
	go func() {
		done <- Record(context.Background(), bus, rec, logger)
	}()

	bus.ch <- Event{Type: EventJobStarted, CameraID: 1, CameraName: "lobby"}
	bus.ch <- Event{Type: EventJobStopped, CameraID: 1, CameraName: "lobby"}
	close(bus.ch)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Record did not return after the channel closed")
	}

	got := rec.Recent()
	if len(got) != 2 {
		t.Fatalf("recorded %d events, want 2", len(got))
	}
	if got[0].Type != EventJobStarted || got[1].Type != EventJobStopped {
		t.Errorf("unexpected event order: %+v", got)
	}
}
