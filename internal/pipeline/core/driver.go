package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mpavic/stagehand/internal/shared/config"
	"github.com/mpavic/stagehand/internal/shared/logging"
)

// State tracks a pipeline run: NotStarted -> Running -> Completed | Failed.
// Running is entered once; a driver is single-use.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NOT_STARTED"
	case StateRunning:
		return "RUNNING"
	case StateCompleted:
		return "COMPLETED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("STATE(%d)", int(s))
	}
}

// Driver sequences the registered stages of one pipeline run. It is strictly
// sequential: no stage starts before the previous one has fully completed.
// Each stage transition is atomic from the driver's point of view; a stage
// either completes (and gets its marker) or the whole run transitions to
// Failed. There is no automatic retry; re-running with an adjusted start
// stage is the resume mechanism.
type Driver struct {
	registry *Registry
	cfg      *config.Pipeline
	tag      string
	log      logging.Logger

	runID       uuid.UUID
	state       State
	failedStage string
	failure     error
}

func NewDriver(registry *Registry, cfg *config.Pipeline, tag string, log logging.Logger) *Driver {
	return &Driver{
		registry: registry,
		cfg:      cfg,
		tag:      tag,
		log:      log,
		runID:    uuid.New(),
		state:    StateNotStarted,
	}
}

func (d *Driver) RunID() uuid.UUID { return d.runID }
func (d *Driver) State() State     { return d.state }

// FailedStage names the stage that aborted the run. It is "" while the run
// has not failed, and also for a pre-flight failure (a bad stage range)
// where no stage was ever entered; Failure carries the reason either way.
func (d *Driver) FailedStage() string { return d.failedStage }

// Failure returns the error that moved the driver to Failed, or nil.
func (d *Driver) Failure() error { return d.failure }

// Run executes the configured stage range [cfg.Stage, cfg.StopStage]. A
// stage whose predicate is false is skipped; with resume enabled, a stage
// holding a completion marker under the current tag is skipped as well.
// The first failing stage aborts the run and leaves no marker behind.
func (d *Driver) Run(ctx context.Context) error {
	if d.state != StateNotStarted {
		return fmt.Errorf("%w: driver already ran (state %s)", ErrInvalidArgument, d.state)
	}

	stages, err := d.registry.InRange(d.cfg.Stage, d.cfg.StopStage)
	if err != nil {
		d.state = StateFailed
		d.failure = err
		d.log.Error("Pipeline rejected", "run_id", d.runID.String(), "error", err)
		return err
	}

	d.state = StateRunning
	d.log.Info("Pipeline started",
		"run_id", d.runID.String(),
		"tag", d.tag,
		"stage", d.cfg.Stage,
		"stop_stage", d.cfg.StopStage,
	)

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return d.fail(stage.Name, fmt.Errorf("pipeline aborted: %w", err))
		}

		if !stage.When(d.cfg) {
			d.log.Info("Skipping stage", "stage", stage.Name, "index", stage.Index, "reason", "predicate")
			continue
		}

		if d.cfg.Resume {
			done, err := IsDone(d.cfg.ExpDir, stage.Name, d.tag)
			if err != nil {
				return d.fail(stage.Name, err)
			}
			if done {
				d.log.Info("Skipping stage", "stage", stage.Name, "index", stage.Index, "reason", "done marker")
				continue
			}
		}

		d.log.Info("Running stage", "stage", stage.Name, "index", stage.Index)
		if err := stage.Run(ctx, d.cfg); err != nil {
			return d.fail(stage.Name, err)
		}

		if err := WriteMarker(d.cfg.ExpDir, stage.Name, d.tag, d.runID); err != nil {
			return d.fail(stage.Name, err)
		}
		d.log.Info("Stage completed", "stage", stage.Name, "index", stage.Index)
	}

	d.state = StateCompleted
	d.log.Info("Pipeline completed", "run_id", d.runID.String())
	return nil
}

func (d *Driver) fail(stage string, err error) error {
	d.state = StateFailed
	d.failedStage = stage
	d.failure = fmt.Errorf("stage %q failed: %w", stage, err)
	d.log.Error("Pipeline failed", "run_id", d.runID.String(), "stage", stage, "error", err)
	return d.failure
}
