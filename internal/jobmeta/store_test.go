package jobmeta

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewStore(t.TempDir(), logger)
	if err := s.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	return s
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)
	if jobs := s.Load(); len(jobs) != 0 {
		t.Errorf("Load on missing file = %d jobs, want 0", len(jobs))
	}
}

func TestLoadCorruptFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if jobs := s.Load(); len(jobs) != 0 {
		t.Errorf("Load on corrupt file = %d jobs, want 0", len(jobs))
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := []CameraJob{
		{
			CameraID:     3,
			CameraName:   "lobby-east",
			RoomID:       7,
			RoomName:     "lobby",
			MaxHeadCount: 12,
			ModelName:    "hog",
			Command:      []string{"docker", "run", "--name", "camera_3", "model-py-2"},
		},
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out := s.Load()
	if len(out) != 1 {
		t.Fatalf("Load = %d jobs, want 1", len(out))
	}
	if out[0].CameraID != 3 || out[0].ContainerName() != "camera_3" {
		t.Errorf("job round trip mismatch: %+v", out[0])
	}
}

func TestClearWritesEmptyArray(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save([]CameraJob{{CameraID: 1}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	var jobs []CameraJob
	if err := json.Unmarshal(data, &jobs); err != nil {
		t.Fatalf("cleared file is not valid JSON: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("cleared file holds %d jobs, want 0", len(jobs))
	}
}
