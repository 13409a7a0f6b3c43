// Package submit abstracts how an external task gets executed: spawned
// locally or handed to a remote agent. The task runner is built on top of
// this, so swapping local for cluster execution never touches stage code.
package submit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ResourceRequest declares what a task needs from its executor. CPUSlots
// and GPUCount are forwarded to the external tool through its environment;
// Timeout, when positive, is a wall-clock bound after which the process is
// forcibly terminated.
type ResourceRequest struct {
	CPUSlots    int
	GPUCount    int
	MemoryBytes uint64
	Timeout     time.Duration
}

// Spec describes one task submission.
type Spec struct {
	TaskID    uuid.UUID
	Argv      []string
	LogPath   string
	Resources ResourceRequest
}

// Result reports how a submitted task ended. A non-zero exit code is not an
// error from the submitter's point of view; the caller decides whether one
// task's failure aborts the enclosing stage.
type Result struct {
	ExitCode int
	LogPath  string
	TimedOut bool
}

// Submitter executes task specs. Submit blocks until the task finishes or
// the context is cancelled.
type Submitter interface {
	Submit(ctx context.Context, spec Spec) (Result, error)
	Close() error
}
