package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mpavic/stagehand/internal/pipeline/core"
	"github.com/mpavic/stagehand/internal/recipe"
	"github.com/mpavic/stagehand/internal/runner"
	"github.com/mpavic/stagehand/internal/shared/config"
	"github.com/mpavic/stagehand/internal/shared/logging"
	"github.com/mpavic/stagehand/internal/submit"
)

const (
	exitFailure    = 1
	exitValidation = 2
)

func main() {
	// Optional .env next to the working directory; real env still wins via
	// viper's AutomaticEnv.
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", "", "path to config file")
		stage      = flag.Int("stage", 0, "first stage to run")
		stopStage  = flag.Int("stop-stage", 0, "last stage to run")
		nj         = flag.Int("nj", 0, "shard count for sharded stages")
		ngpu       = flag.Int("ngpu", -1, "gpu count forwarded to training and decoding")
		expDir     = flag.String("expdir", "", "experiment directory")
		resume     = flag.Bool("resume", false, "skip stages with completion markers")
		agentAddr  = flag.String("agent", "", "submit tasks to a remote agent at this address")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(exitValidation)
	}

	// Explicit flags override both file and environment values.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "stage":
			cfg.Stage = *stage
		case "stop-stage":
			cfg.StopStage = *stopStage
		case "nj":
			cfg.NJ = *nj
		case "ngpu":
			cfg.NGPU = *ngpu
		case "expdir":
			cfg.ExpDir = *expDir
		case "resume":
			cfg.Resume = *resume
		case "agent":
			cfg.AgentAddr = *agentAddr
		}
	})

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(exitValidation)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	var submitter submit.Submitter
	if cfg.AgentAddr != "" {
		remote, err := submit.NewRemote(cfg.AgentAddr)
		if err != nil {
			logger.Error("Failed to connect to agent", "addr", cfg.AgentAddr, "error", err)
			os.Exit(exitFailure)
		}
		submitter = remote
	} else {
		submitter = submit.NewLocal()
	}
	defer submitter.Close()

	tag := core.Tag(cfg.Overrides())
	run := runner.New(submitter, cfg.MaxParallel, logger)

	registry, err := recipe.BuildRegistry(cfg, run, tag, logger)
	if err != nil {
		logger.Error("Failed to build stage registry", "error", err)
		os.Exit(exitValidation)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver := core.NewDriver(registry, cfg, tag, logger)
	if err := driver.Run(ctx); err != nil {
		// The driver already logged the failing stage and log path.
		if errors.Is(err, core.ErrConfiguration) ||
			errors.Is(err, core.ErrInvalidArgument) ||
			errors.Is(err, core.ErrUnknownStage) {
			os.Exit(exitValidation)
		}
		// Propagate the failing tool's exit code. Spawn failures (-1) and
		// timeouts fall back to the generic failure code.
		var shardErr *runner.ShardError
		if errors.As(err, &shardErr) && shardErr.ExitCode > 0 && shardErr.ExitCode < 256 {
			os.Exit(shardErr.ExitCode)
		}
		os.Exit(exitFailure)
	}
}
