package submit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mpavic/stagehand/internal/pipeline/core"
)

// Local runs tasks as child processes on this host, with stdout and stderr
// redirected to the task's log file.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Submit(ctx context.Context, spec Spec) (Result, error) {
	if len(spec.Argv) == 0 {
		return Result{}, fmt.Errorf("%w: empty argv", core.ErrInvalidArgument)
	}
	if spec.LogPath == "" {
		return Result{}, fmt.Errorf("%w: empty log path", core.ErrInvalidArgument)
	}

	if err := os.MkdirAll(filepath.Dir(spec.LogPath), 0o755); err != nil {
		return Result{}, fmt.Errorf("creating log directory: %w", err)
	}
	logFile, err := os.Create(spec.LogPath)
	if err != nil {
		return Result{}, fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	runCtx := ctx
	var cancel context.CancelFunc
	if spec.Resources.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, spec.Resources.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, spec.Argv[0], spec.Argv[1:]...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Env = taskEnv(spec.Resources)

	runErr := cmd.Run()

	if spec.Resources.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return Result{ExitCode: -1, LogPath: spec.LogPath, TimedOut: true}, nil
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return Result{ExitCode: exitErr.ExitCode(), LogPath: spec.LogPath}, nil
		}
		// Not an exit status: the process could not be started at all.
		return Result{}, fmt.Errorf("spawning %s: %w", spec.Argv[0], runErr)
	}

	return Result{ExitCode: 0, LogPath: spec.LogPath}, nil
}

func (l *Local) Close() error { return nil }

// taskEnv forwards the resource request to the external tool. Speech tools
// conventionally honor OMP_NUM_THREADS for CPU fan-out and
// CUDA_VISIBLE_DEVICES for GPU selection.
func taskEnv(req ResourceRequest) []string {
	env := os.Environ()
	if req.CPUSlots > 0 {
		env = append(env, fmt.Sprintf("OMP_NUM_THREADS=%d", req.CPUSlots))
	}
	if req.GPUCount == 0 {
		env = append(env, "CUDA_VISIBLE_DEVICES=")
	}
	return env
}
