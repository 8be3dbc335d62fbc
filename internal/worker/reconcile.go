package worker

import (
	"context"
	"log/slog"
	"time"

	"camwatch/internal/events"
	"camwatch/internal/monitor"

	"github.com/hibiken/asynq"
)

const (
	// TaskReconcile re-checks that every tracked camera container is still
	// running and reports the ones that vanished out from under us.
	TaskReconcile = "containers:reconcile"

	reconcileDelay = 30 * time.Second
)

type ReconcileWorker struct {
	orch    *Orchestrator
	runtime Runtime
	bus     events.Bus
	logger  *slog.Logger
}

func NewReconcileWorker(orch *Orchestrator, runtime Runtime, bus events.Bus, logger *slog.Logger) *ReconcileWorker {
	return &ReconcileWorker{
		orch:    orch,
		runtime: runtime,
		bus:     bus,
		logger:  logger.With("component", "reconcile"),
	}
}

func (w *ReconcileWorker) HandleReconcile(ctx context.Context, _ *asynq.Task) error {
	jobs := w.orch.Tracked()
	running := 0
	for _, job := range jobs {
		name := job.ContainerName()
		if w.runtime.IsRunning(ctx, name) {
			running++
			continue
		}
		w.logger.Warn("Tracked container is gone", "container", name, "camera", job.CameraName)
		if w.bus != nil {
			event := events.Event{Type: events.EventJobVanished, CameraID: job.CameraID, CameraName: job.CameraName}
			if err := w.bus.Publish(ctx, event); err != nil {
				w.logger.Warn("Failed to publish vanish event", "error", err)
			}
		}
	}
	monitor.JobsRunning.Set(float64(running))
	w.logger.Info("Reconciled camera containers", "tracked", len(jobs), "running", running)
	return nil
}
