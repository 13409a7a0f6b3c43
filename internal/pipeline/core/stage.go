package core

import (
	"context"
	"fmt"

	"github.com/mpavic/stagehand/internal/shared/config"
	"github.com/mpavic/stagehand/internal/shared/logging"
)

// Predicate decides whether a stage applies under the given configuration.
// A false predicate skips the stage; it is not a failure.
type Predicate func(cfg *config.Pipeline) bool

// Action executes a stage. Actions must overwrite their output subtree
// rather than append, so an identical re-run is idempotent.
type Action func(ctx context.Context, cfg *config.Pipeline) error

// Stage is one named, ordered step of the pipeline. Immutable once
// registered.
type Stage struct {
	Index int
	Name  string
	When  Predicate
	Run   Action
}

// Always is the predicate for unconditional stages.
func Always(*config.Pipeline) bool { return true }

// Registry holds the ordered stage list. Indices need not be contiguous but
// must be strictly increasing at registration time.
type Registry struct {
	stages []Stage
	names  map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register appends a stage. The index must exceed every previously
// registered index and the name must be unique.
func (r *Registry) Register(index int, name string, when Predicate, run Action) error {
	if name == "" {
		return fmt.Errorf("%w: stage name must not be empty", ErrInvalidArgument)
	}
	if when == nil || run == nil {
		return fmt.Errorf("%w: stage %q needs both a predicate and an action", ErrInvalidArgument, name)
	}
	if n := len(r.stages); n > 0 && index <= r.stages[n-1].Index {
		return fmt.Errorf("%w: stage %q index %d is not above previous index %d",
			ErrConfiguration, name, index, r.stages[n-1].Index)
	}
	if _, exists := r.names[name]; exists {
		return fmt.Errorf("%w: duplicate stage name %q", ErrConfiguration, name)
	}

	r.stages = append(r.stages, Stage{Index: index, Name: name, When: when, Run: run})
	r.names[name] = struct{}{}
	return nil
}

// Stages returns the registered stages in ascending index order.
func (r *Registry) Stages() []Stage {
	out := make([]Stage, len(r.stages))
	copy(out, r.stages)
	return out
}

// InRange returns the registered stages whose index lies in [low, high],
// after validating the range.
func (r *Registry) InRange(low, high int) ([]Stage, error) {
	if low > high {
		return nil, fmt.Errorf("%w: stage range [%d, %d] is inverted", ErrConfiguration, low, high)
	}
	var selected []Stage
	for _, s := range r.stages {
		if s.Index >= low && s.Index <= high {
			selected = append(selected, s)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrUnknownStage, low, high)
	}
	return selected, nil
}

// RunRange executes, in ascending index order, every registered stage whose
// index lies in [low, high] and whose predicate holds. Skipped stages are
// logged, not failed. Execution stops on the first stage that fails; no
// later stage runs.
func (r *Registry) RunRange(ctx context.Context, low, high int, cfg *config.Pipeline, log logging.Logger) error {
	stages, err := r.InRange(low, high)
	if err != nil {
		return err
	}
	for _, stage := range stages {
		if !stage.When(cfg) {
			log.Info("Skipping stage", "stage", stage.Name, "index", stage.Index)
			continue
		}
		log.Info("Running stage", "stage", stage.Name, "index", stage.Index)
		if err := stage.Run(ctx, cfg); err != nil {
			return fmt.Errorf("stage %q failed: %w", stage.Name, err)
		}
	}
	return nil
}
