package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

var ErrContainerNotFound = errors.New("container not found")

// Runtime is the slice of the container engine the sweep needs: force
// removal by name and a liveness probe for reconciliation.
type Runtime interface {
	RemoveContainer(ctx context.Context, name string) error
	IsRunning(ctx context.Context, name string) bool
}

var _ Runtime = (*DockerRuntime)(nil)

type DockerRuntime struct {
	client *client.Client
	logger *slog.Logger
}

func NewDockerRuntime(client *client.Client, logger *slog.Logger) *DockerRuntime {
	return &DockerRuntime{
		client: client,
		logger: logger.With("component", "docker"),
	}
}

func (d *DockerRuntime) RemoveContainer(ctx context.Context, name string) error {
	opts := container.RemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	}

	if err := d.client.ContainerRemove(ctx, name, opts); err != nil {
		if errdefs.IsNotFound(err) {
			return ErrContainerNotFound
		}
		return fmt.Errorf("failed to remove container: %w", err)
	}

	d.logger.Info("Container removed", "name", name)
	return nil
}

func (d *DockerRuntime) IsRunning(ctx context.Context, name string) bool {
	inspect, err := d.client.ContainerInspect(ctx, name)
	if err != nil {
		return false
	}
	return inspect.State.Running
}
