// Package runner dispatches a stage's shard tasks through a submitter with
// bounded parallelism and decides, after the barrier, whether the stage
// passed.
package runner

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mpavic/stagehand/internal/pipeline/core"
	"github.com/mpavic/stagehand/internal/shared/logging"
	"github.com/mpavic/stagehand/internal/submit"
)

// Task is one external invocation to run, typically one per shard. Direct
// (unsharded) stages use a single task with ShardID 1.
type Task struct {
	ShardID int
	Argv    []string
	LogPath string
}

// JobResult reports how one shard's task ended.
type JobResult struct {
	ShardID  int
	ExitCode int
	LogPath  string
	TimedOut bool
}

// ShardError reports the shard whose external invocation failed the stage.
// It unwraps to core.ErrExternalTool and keeps the tool's exit code
// inspectable so the CLI can propagate it as the process exit code.
type ShardError struct {
	ShardID  int
	ExitCode int
	LogPath  string
}

func (e *ShardError) Error() string {
	return fmt.Sprintf("%v: shard %d exited with code %d, log %s",
		core.ErrExternalTool, e.ShardID, e.ExitCode, e.LogPath)
}

func (e *ShardError) Unwrap() error { return core.ErrExternalTool }

// Runner executes tasks through a Submitter, at most maxParallel at a time.
type Runner struct {
	submitter   submit.Submitter
	maxParallel int
	logger      logging.Logger
}

func New(submitter submit.Submitter, maxParallel int, logger logging.Logger) *Runner {
	return &Runner{
		submitter:   submitter,
		maxParallel: maxParallel,
		logger:      logger,
	}
}

// RunAll dispatches every task and blocks until all have finished, then
// fails the stage if any shard failed. Results come back sorted by shard id
// regardless of completion order. On the first failing shard the remaining
// context is cancelled, so queued shards abort quickly; shard outputs are
// not independently consumable before aggregation, so there is nothing to
// salvage from a partially failed stage. The returned error names the shard
// that triggered the cancellation, never one of the cancelled siblings.
func (r *Runner) RunAll(ctx context.Context, tasks []Task, req submit.ResourceRequest) ([]JobResult, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: no tasks to run", core.ErrInvalidArgument)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]JobResult, len(tasks))

	// The first recorded failure is the one that caused the cancellation;
	// shards killed by the cancelled context fail strictly after it.
	var mu sync.Mutex
	var firstFailure *JobResult

	pool := NewPool(min(r.maxParallel, len(tasks)))
	pool.Start()
	for i, task := range tasks {
		pool.Submit(func() {
			res := r.runOne(runCtx, task, req)
			results[i] = res
			if res.ExitCode != 0 || res.TimedOut {
				mu.Lock()
				if firstFailure == nil {
					failed := res
					firstFailure = &failed
				}
				mu.Unlock()
				cancel()
			}
		})
	}
	pool.Close()

	sort.Slice(results, func(i, j int) bool { return results[i].ShardID < results[j].ShardID })

	if firstFailure == nil {
		return results, nil
	}
	if firstFailure.TimedOut {
		return results, fmt.Errorf("%w: shard %d, log %s", core.ErrTimedOut, firstFailure.ShardID, firstFailure.LogPath)
	}
	return results, &ShardError{
		ShardID:  firstFailure.ShardID,
		ExitCode: firstFailure.ExitCode,
		LogPath:  firstFailure.LogPath,
	}
}

// spawnFailureExitCode marks tasks that never produced an exit status.
const spawnFailureExitCode = -1

func (r *Runner) runOne(ctx context.Context, task Task, req submit.ResourceRequest) JobResult {
	spec := submit.Spec{
		TaskID:    uuid.New(),
		Argv:      task.Argv,
		LogPath:   task.LogPath,
		Resources: req,
	}

	r.logger.Debug("Dispatching task",
		"task_id", spec.TaskID.String(),
		"shard", task.ShardID,
		"argv", task.Argv,
	)

	result, err := r.submitter.Submit(ctx, spec)
	if err != nil {
		r.logger.Error("Task submission failed", "shard", task.ShardID, "error", err)
		return JobResult{ShardID: task.ShardID, ExitCode: spawnFailureExitCode, LogPath: task.LogPath}
	}

	return JobResult{
		ShardID:  task.ShardID,
		ExitCode: result.ExitCode,
		LogPath:  result.LogPath,
		TimedOut: result.TimedOut,
	}
}
