package worker

import (
	"context"
	"errors"
	"os/exec"
)

// Runner executes one container-spawn command. Commands are argument
// vectors, never shell strings, so job specs cannot inject into a shell.
type Runner interface {
	Run(ctx context.Context, argv []string) ([]byte, error)
}

var _ Runner = (*ExecRunner)(nil)

// ExecRunner runs commands on the host, blocking until they exit.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	return cmd.CombinedOutput()
}
