package runner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpavic/stagehand/internal/pipeline/core"
	"github.com/mpavic/stagehand/internal/shared/logging"
	"github.com/mpavic/stagehand/internal/submit"
)

// fakeSubmitter maps the first argv element to a canned result. Tools named
// in blocking hang until the context is cancelled, like a process killed
// mid-flight.
type fakeSubmitter struct {
	mu        sync.Mutex
	results   map[string]submit.Result
	errors    map[string]error
	blocking  map[string]bool
	submitted []string
	cancelled int
}

func (f *fakeSubmitter) Submit(ctx context.Context, spec submit.Spec) (submit.Result, error) {
	f.mu.Lock()
	f.submitted = append(f.submitted, spec.Argv[0])
	f.mu.Unlock()

	if f.blocking[spec.Argv[0]] {
		<-ctx.Done()
		return submit.Result{ExitCode: -1, LogPath: spec.LogPath}, nil
	}

	if err := ctx.Err(); err != nil {
		f.mu.Lock()
		f.cancelled++
		f.mu.Unlock()
		return submit.Result{ExitCode: -1, LogPath: spec.LogPath}, nil
	}
	if err, ok := f.errors[spec.Argv[0]]; ok {
		return submit.Result{}, err
	}
	if res, ok := f.results[spec.Argv[0]]; ok {
		res.LogPath = spec.LogPath
		return res, nil
	}
	return submit.Result{ExitCode: 0, LogPath: spec.LogPath}, nil
}

func (f *fakeSubmitter) Close() error { return nil }

func testLogger() logging.Logger {
	return logging.New("error", "json")
}

func TestRunAll_AllShardsSucceed(t *testing.T) {
	fake := &fakeSubmitter{}
	r := New(fake, 2, testLogger())

	tasks := []Task{
		{ShardID: 1, Argv: []string{"tool-a"}, LogPath: "log/stage.1.log"},
		{ShardID: 2, Argv: []string{"tool-b"}, LogPath: "log/stage.2.log"},
		{ShardID: 3, Argv: []string{"tool-c"}, LogPath: "log/stage.3.log"},
	}

	results, err := r.RunAll(context.Background(), tasks, submit.ResourceRequest{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, res := range results {
		require.Equal(t, i+1, res.ShardID, "results must be sorted by shard id")
		require.Equal(t, 0, res.ExitCode)
		require.NotEmpty(t, res.LogPath)
	}
	require.Len(t, fake.submitted, 3)
}

func TestRunAll_FailingShardFailsStage(t *testing.T) {
	fake := &fakeSubmitter{
		results: map[string]submit.Result{
			"tool-b": {ExitCode: 1},
		},
	}
	r := New(fake, 1, testLogger())

	tasks := []Task{
		{ShardID: 1, Argv: []string{"tool-a"}, LogPath: "log/stage.1.log"},
		{ShardID: 2, Argv: []string{"tool-b"}, LogPath: "log/stage.2.log"},
	}

	results, err := r.RunAll(context.Background(), tasks, submit.ResourceRequest{})
	require.ErrorIs(t, err, core.ErrExternalTool)
	require.Contains(t, err.Error(), "shard 2")
	require.Contains(t, err.Error(), "log/stage.2.log")
	require.Len(t, results, 2)
}

func TestRunAll_ReportsFailingShardNotCancelledSibling(t *testing.T) {
	// Shard 1 hangs until the stage context is cancelled and then comes back
	// with exit -1; shard 2 genuinely fails with exit 7. The stage error must
	// name shard 2, not the killed sibling.
	fake := &fakeSubmitter{
		blocking: map[string]bool{"slow-tool": true},
		results: map[string]submit.Result{
			"failing-tool": {ExitCode: 7},
		},
	}
	r := New(fake, 2, testLogger())

	tasks := []Task{
		{ShardID: 1, Argv: []string{"slow-tool"}, LogPath: "log/stage.1.log"},
		{ShardID: 2, Argv: []string{"failing-tool"}, LogPath: "log/stage.2.log"},
	}

	_, err := r.RunAll(context.Background(), tasks, submit.ResourceRequest{})
	require.ErrorIs(t, err, core.ErrExternalTool)

	var shardErr *ShardError
	require.ErrorAs(t, err, &shardErr)
	require.Equal(t, 2, shardErr.ShardID)
	require.Equal(t, 7, shardErr.ExitCode)
	require.Equal(t, "log/stage.2.log", shardErr.LogPath)
	require.NotContains(t, err.Error(), "shard 1")
}

func TestRunAll_TimedOutShardReportsTimeout(t *testing.T) {
	fake := &fakeSubmitter{
		results: map[string]submit.Result{
			"slow-tool": {ExitCode: -1, TimedOut: true},
		},
	}
	r := New(fake, 1, testLogger())

	tasks := []Task{{ShardID: 1, Argv: []string{"slow-tool"}, LogPath: "log/stage.1.log"}}

	_, err := r.RunAll(context.Background(), tasks, submit.ResourceRequest{})
	require.ErrorIs(t, err, core.ErrTimedOut)
}

func TestRunAll_FailureCancelsQueuedShards(t *testing.T) {
	fake := &fakeSubmitter{
		results: map[string]submit.Result{
			"failing": {ExitCode: 2},
		},
	}
	// One worker, so the failing task finishes before the rest are picked up.
	r := New(fake, 1, testLogger())

	tasks := []Task{
		{ShardID: 1, Argv: []string{"failing"}, LogPath: "log/stage.1.log"},
		{ShardID: 2, Argv: []string{"queued-a"}, LogPath: "log/stage.2.log"},
		{ShardID: 3, Argv: []string{"queued-b"}, LogPath: "log/stage.3.log"},
	}

	_, err := r.RunAll(context.Background(), tasks, submit.ResourceRequest{})
	require.ErrorIs(t, err, core.ErrExternalTool)
	require.Equal(t, 2, fake.cancelled, "queued shards must see the cancelled context")
}

func TestRunAll_SubmissionErrorFailsStage(t *testing.T) {
	fake := &fakeSubmitter{
		errors: map[string]error{
			"unspawnable": errors.New("no such file"),
		},
	}
	r := New(fake, 1, testLogger())

	tasks := []Task{{ShardID: 1, Argv: []string{"unspawnable"}, LogPath: "log/stage.1.log"}}

	_, err := r.RunAll(context.Background(), tasks, submit.ResourceRequest{})
	require.ErrorIs(t, err, core.ErrExternalTool)
}

func TestRunAll_NoTasksIsInvalid(t *testing.T) {
	r := New(&fakeSubmitter{}, 1, testLogger())
	_, err := r.RunAll(context.Background(), nil, submit.ResourceRequest{})
	require.ErrorIs(t, err, core.ErrInvalidArgument)
}
