package core

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpavic/stagehand/internal/shared/config"
)

func driverConfig(t *testing.T, stage, stopStage int) *config.Pipeline {
	t.Helper()
	return &config.Pipeline{
		ExpDir:    t.TempDir(),
		Stage:     stage,
		StopStage: stopStage,
	}
}

func TestDriver_RunsStagesInOrderAndWritesMarkers(t *testing.T) {
	cfg := driverConfig(t, 1, 3)

	var ran []string
	r := NewRegistry()
	for i, name := range []string{"data_prep", "feature_stats", "tokenize"} {
		require.NoError(t, r.Register(i+1, name, Always, func(name string) Action {
			return func(context.Context, *config.Pipeline) error {
				ran = append(ran, name)
				return nil
			}
		}(name)))
	}

	d := NewDriver(r, cfg, "base", testLogger())
	require.Equal(t, StateNotStarted, d.State())

	require.NoError(t, d.Run(context.Background()))
	require.Equal(t, StateCompleted, d.State())
	require.Equal(t, []string{"data_prep", "feature_stats", "tokenize"}, ran)

	for _, name := range ran {
		done, err := IsDone(cfg.ExpDir, name, "base")
		require.NoError(t, err)
		require.True(t, done, "stage %s should have a marker", name)
	}
}

func TestDriver_FailureHaltsAndLeavesNoMarker(t *testing.T) {
	cfg := driverConfig(t, 1, 3)
	boom := errors.New("exit status 1")

	var laterRan bool
	r := NewRegistry()
	require.NoError(t, r.Register(1, "ok", Always, func(context.Context, *config.Pipeline) error {
		return nil
	}))
	require.NoError(t, r.Register(2, "failing", Always, func(context.Context, *config.Pipeline) error {
		return boom
	}))
	require.NoError(t, r.Register(3, "later", Always, func(context.Context, *config.Pipeline) error {
		laterRan = true
		return nil
	}))

	d := NewDriver(r, cfg, "base", testLogger())
	err := d.Run(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, StateFailed, d.State())
	require.Equal(t, "failing", d.FailedStage())
	require.ErrorIs(t, d.Failure(), boom)
	require.False(t, laterRan, "no stage may run after a failure")

	done, err := IsDone(cfg.ExpDir, "failing", "base")
	require.NoError(t, err)
	require.False(t, done, "failed stage must not get a marker")

	done, err = IsDone(cfg.ExpDir, "ok", "base")
	require.NoError(t, err)
	require.True(t, done, "completed stage keeps its marker")
}

func TestDriver_ResumeSkipsDoneStages(t *testing.T) {
	cfg := driverConfig(t, 1, 2)
	cfg.Resume = true

	counts := make(map[string]int)
	build := func() *Registry {
		r := NewRegistry()
		for i, name := range []string{"first", "second"} {
			_ = r.Register(i+1, name, Always, func(name string) Action {
				return func(context.Context, *config.Pipeline) error {
					counts[name]++
					return nil
				}
			}(name))
		}
		return r
	}

	require.NoError(t, NewDriver(build(), cfg, "base", testLogger()).Run(context.Background()))
	require.NoError(t, NewDriver(build(), cfg, "base", testLogger()).Run(context.Background()))

	require.Equal(t, 1, counts["first"], "resumed run must skip completed stages")
	require.Equal(t, 1, counts["second"])

	// A different tag is a different configuration and runs again.
	require.NoError(t, NewDriver(build(), cfg, "ngpu=2", testLogger()).Run(context.Background()))
	require.Equal(t, 2, counts["first"])
}

func TestDriver_InvertedRangeFails(t *testing.T) {
	cfg := driverConfig(t, 5, 2)

	r := NewRegistry()
	require.NoError(t, r.Register(3, "stage", Always, func(context.Context, *config.Pipeline) error {
		return nil
	}))

	d := NewDriver(r, cfg, "base", testLogger())
	err := d.Run(context.Background())
	require.ErrorIs(t, err, ErrConfiguration)
	require.Equal(t, StateFailed, d.State())

	// Pre-flight rejection: no stage was entered, but the reason is kept.
	require.Empty(t, d.FailedStage())
	require.ErrorIs(t, d.Failure(), ErrConfiguration)

	// Nothing may be written to the experiment dir.
	entries, readErr := os.ReadDir(cfg.ExpDir)
	require.NoError(t, readErr)
	require.Empty(t, entries)
}

func TestDriver_IsSingleUse(t *testing.T) {
	cfg := driverConfig(t, 1, 1)

	r := NewRegistry()
	require.NoError(t, r.Register(1, "only", Always, func(context.Context, *config.Pipeline) error {
		return nil
	}))

	d := NewDriver(r, cfg, "base", testLogger())
	require.NoError(t, d.Run(context.Background()))
	require.ErrorIs(t, d.Run(context.Background()), ErrInvalidArgument)
}
