package core

import "errors"

// Error taxonomy for the pipeline. All of these are fatal: they surface to
// the driver and terminate the run. None are swallowed, since masking a
// failed shard would leave silently-incomplete aggregated statistics.
var (
	// ErrConfiguration reports a malformed stage range or otherwise
	// contradictory configuration, detected before any stage runs.
	ErrConfiguration = errors.New("invalid pipeline configuration")

	// ErrInvalidArgument reports a bad argument at a call site, such as a
	// non-positive shard count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownStage reports a requested stage range that contains no
	// registered stage at all. A range where every stage is skipped by its
	// predicate is not an error.
	ErrUnknownStage = errors.New("no registered stage in range")

	// ErrExternalTool reports a non-zero exit from a dispatched task. The
	// enclosing stage fails and the pipeline aborts; the error carries the
	// log path for diagnosis.
	ErrExternalTool = errors.New("external tool failed")

	// ErrTimedOut reports a task killed after exceeding its wall-clock
	// timeout. Treated as an external tool failure.
	ErrTimedOut = errors.New("task timed out")

	// ErrMissingShardOutput reports an absent shard output directory during
	// aggregation, signalling a prior stage's corruption.
	ErrMissingShardOutput = errors.New("missing shard output")
)
