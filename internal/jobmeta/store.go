// Package jobmeta keeps the durable on-disk record of camera jobs presumed
// running. The file exists solely to make stop idempotent and
// crash-recoverable; it is the single source of truth for "what containers
// are currently tracked".
package jobmeta

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const jobsFile = "jobs.json"

type Store struct {
	path   string
	logger *slog.Logger
}

func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{
		path:   filepath.Join(dir, jobsFile),
		logger: logger.With("component", "jobmeta"),
	}
}

func (s *Store) Path() string { return s.path }

// EnsureDir creates the metadata directory; called once at worker startup.
func (s *Store) EnsureDir() error {
	return os.MkdirAll(filepath.Dir(s.path), 0o755)
}

// Load reads the tracked jobs, failing soft: a missing or corrupt file is
// an empty list, never an error, so cleanup can always proceed.
func (s *Store) Load() []CameraJob {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read jobs file", "path", s.path, "error", err)
		}
		return nil
	}

	var jobs []CameraJob
	if err := json.Unmarshal(data, &jobs); err != nil {
		s.logger.Warn("Corrupt jobs file, treating as empty", "path", s.path, "error", err)
		return nil
	}
	return jobs
}

// Save overwrites the record with the given jobs.
func (s *Store) Save(jobs []CameraJob) error {
	if jobs == nil {
		jobs = []CameraJob{}
	}
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal jobs: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write jobs file: %w", err)
	}
	return nil
}

// Clear truncates the record to an empty array. Runs unconditionally after
// every stop sweep so a crashed worker can never relaunch stale jobs.
func (s *Store) Clear() error {
	return s.Save(nil)
}
