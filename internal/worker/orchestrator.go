// Package worker supervises the per-camera detection containers: it spawns
// them on start, records them in the job metadata store, and force-removes
// every tracked container on stop.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"camwatch/internal/events"
	"camwatch/internal/jobmeta"
	"camwatch/internal/monitor"

	"github.com/hibiken/asynq"
)

type Orchestrator struct {
	// mu serializes start and stop: the metadata file is read then fully
	// rewritten, so overlapping sweeps would corrupt the record.
	mu sync.Mutex

	meta    *jobmeta.Store
	runner  Runner
	runtime Runtime
	bus     events.Bus    // optional
	queue   *asynq.Client // optional
	logger  *slog.Logger
}

func NewOrchestrator(meta *jobmeta.Store, runner Runner, runtime Runtime, bus events.Bus, queue *asynq.Client, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		meta:    meta,
		runner:  runner,
		runtime: runtime,
		bus:     bus,
		queue:   queue,
		logger:  logger.With("component", "orchestrator"),
	}
}

// Start spawns one container per job, in order, blocking on each spawn. The
// first failing command aborts the whole call; containers spawned before the
// failure keep running and are only reaped by the next stop sweep. Jobs are
// recorded in the metadata file only after every spawn succeeded.
func (o *Orchestrator) Start(ctx context.Context, jobs []jobmeta.CameraJob) error {
	if len(jobs) == 0 {
		return errors.New("no jobs given")
	}
	for _, job := range jobs {
		if len(job.Command) == 0 {
			return fmt.Errorf("job for camera %d has no spawn command", job.CameraID)
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for _, job := range jobs {
		began := time.Now()
		out, err := o.runner.Run(ctx, job.Command)
		if err != nil {
			return fmt.Errorf("spawn %s: %w", job.ContainerName(), err)
		}
		monitor.JobStartLatency.Observe(time.Since(began).Seconds())
		o.logger.Info("Running detection container",
			"camera", job.CameraName,
			"camera_id", job.CameraID,
			"output", string(out),
		)
	}

	tracked := append(o.meta.Load(), jobs...)
	if err := o.meta.Save(tracked); err != nil {
		return err
	}
	monitor.JobsTracked.Set(float64(len(tracked)))

	for _, job := range jobs {
		o.publish(ctx, events.EventJobStarted, job)
	}
	o.enqueueReconcile()

	o.logger.Info("Started all detection containers", "count", len(jobs))
	return nil
}

type SweepFailure struct {
	Container string
	Err       error
}

type SweepReport struct {
	Removed  int
	Failures []SweepFailure
}

// Stop force-removes every tracked container and truncates the metadata
// file. Individual removal failures are collected, never fatal: one dead
// entry must not block cleanup of the rest. The file is cleared even when
// removals failed, so a later start never inherits stale jobs; the only
// error Stop returns is a metadata file that cannot be rewritten.
func (o *Orchestrator) Stop(ctx context.Context) (SweepReport, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var report SweepReport
	jobs := o.meta.Load()
	for _, job := range jobs {
		name := job.ContainerName()
		err := o.runtime.RemoveContainer(ctx, name)
		if err != nil && !errors.Is(err, ErrContainerNotFound) {
			monitor.SweepFailures.Inc()
			o.logger.Warn("Failed to remove container, continuing sweep",
				"container", name, "error", err)
			report.Failures = append(report.Failures, SweepFailure{Container: name, Err: err})
			continue
		}
		report.Removed++
		o.logger.Info("Killed camera job", "camera", job.CameraName, "camera_id", job.CameraID)
		o.publish(ctx, events.EventJobStopped, job)
	}

	if err := o.meta.Clear(); err != nil {
		return report, fmt.Errorf("clear job metadata: %w", err)
	}
	monitor.JobsTracked.Set(0)
	monitor.JobsRunning.Set(0)

	o.logger.Info("Stopped all detection containers",
		"removed", report.Removed, "failed", len(report.Failures))
	return report, nil
}

// Tracked returns the jobs currently recorded as running. It takes the same
// lock as Start and Stop so it never reads the metadata file mid-rewrite.
func (o *Orchestrator) Tracked() []jobmeta.CameraJob {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.meta.Load()
}

func (o *Orchestrator) publish(ctx context.Context, typ events.EventType, job jobmeta.CameraJob) {
	if o.bus == nil {
		return
	}
	event := events.Event{Type: typ, CameraID: job.CameraID, CameraName: job.CameraName}
	if err := o.bus.Publish(ctx, event); err != nil {
		o.logger.Warn("Failed to publish job event", "type", typ, "error", err)
	}
}

func (o *Orchestrator) enqueueReconcile() {
	if o.queue == nil {
		return
	}
	task := asynq.NewTask(TaskReconcile, nil)
	if _, err := o.queue.Enqueue(task, asynq.ProcessIn(reconcileDelay)); err != nil {
		o.logger.Warn("Failed to enqueue reconcile task", "error", err)
	}
}
