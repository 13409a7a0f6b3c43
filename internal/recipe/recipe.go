// Package recipe wires the speech-processing stage list into a pipeline
// registry: data preparation, sharded feature statistics, tokenization,
// language-model and ASR training, sharded decoding, scoring, and model
// packing. Every stage owns one output subtree under the experiment
// directory, keyed by stage name and configuration tag, and only does path
// and argument wiring around the external tools.
package recipe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mpavic/stagehand/internal/pipeline/aggregate"
	"github.com/mpavic/stagehand/internal/pipeline/core"
	"github.com/mpavic/stagehand/internal/pipeline/shard"
	"github.com/mpavic/stagehand/internal/runner"
	"github.com/mpavic/stagehand/internal/shared/config"
	"github.com/mpavic/stagehand/internal/shared/logging"
	"github.com/mpavic/stagehand/internal/submit"
	"github.com/mpavic/stagehand/pkg/keylist"
)

// Stage indices. Gaps are allowed by the registry but the recipe has no use
// for them.
const (
	StageDataPrep     = 1
	StageFeatureStats = 2
	StageTokenize     = 3
	StageLMTrain      = 4
	StageASRTrain     = 5
	StageDecode       = 6
	StageScore        = 7
	StagePack         = 8
)

type builder struct {
	cfg *config.Pipeline
	run *runner.Runner
	tag string
	log logging.Logger
}

// BuildRegistry registers the full recipe against the given configuration
// tag. Stage actions resolve their own input paths from the output subtrees
// of earlier stages, so the filesystem is the only channel between stages.
func BuildRegistry(cfg *config.Pipeline, run *runner.Runner, tag string, log logging.Logger) (*core.Registry, error) {
	b := &builder{cfg: cfg, run: run, tag: tag, log: log}

	registry := core.NewRegistry()
	stages := []struct {
		index int
		name  string
		when  core.Predicate
		run   core.Action
	}{
		{StageDataPrep, "data_prep", core.Always, b.dataPrep},
		{StageFeatureStats, "feature_stats", core.Always, b.featureStats},
		{StageTokenize, "tokenize", core.Always, b.tokenize},
		{StageLMTrain, "lm_train", func(c *config.Pipeline) bool { return !c.Recipe.SkipLM }, b.lmTrain},
		{StageASRTrain, "asr_train", core.Always, b.asrTrain},
		{StageDecode, "decode", core.Always, b.decode},
		{StageScore, "score", func(c *config.Pipeline) bool { return !c.Recipe.SkipScoring }, b.score},
		{StagePack, "pack", core.Always, b.pack},
	}

	for _, s := range stages {
		if err := registry.Register(s.index, s.name, s.when, s.run); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// stageDir is the output subtree a stage owns: <expdir>/<name>_<tag>. No
// stage may write outside its own subtree.
func (b *builder) stageDir(name string) string {
	return filepath.Join(b.cfg.ExpDir, name+"_"+b.tag)
}

func (b *builder) logPath(name string, shardID int) string {
	return filepath.Join(b.stageDir(name), "log", fmt.Sprintf("%s.%d.log", name, shardID))
}

// expand substitutes placeholders of the form {name} in the command path
// and args.
func expand(cmd config.CommandConfig, repl map[string]string) []string {
	pairs := make([]string, 0, 2*len(repl))
	for k, v := range repl {
		pairs = append(pairs, "{"+k+"}", v)
	}
	replacer := strings.NewReplacer(pairs...)

	argv := make([]string, 0, len(cmd.Args)+1)
	argv = append(argv, replacer.Replace(cmd.Path))
	for _, arg := range cmd.Args {
		argv = append(argv, replacer.Replace(arg))
	}
	return argv
}

// runDirect executes an unsharded stage as a single task. The stage's
// output directory exists before the tool starts, same as the shard dirs of
// a sharded stage.
func (b *builder) runDirect(ctx context.Context, name string, cmd config.CommandConfig, repl map[string]string, req submit.ResourceRequest) error {
	if cmd.Path == "" {
		return fmt.Errorf("%w: no command configured for stage %q", core.ErrConfiguration, name)
	}
	if err := os.MkdirAll(b.stageDir(name), 0o755); err != nil {
		return fmt.Errorf("creating stage output for %q: %w", name, err)
	}

	tasks := []runner.Task{{
		ShardID: 1,
		Argv:    expand(cmd, repl),
		LogPath: b.logPath(name, 1),
	}}
	_, err := b.run.RunAll(ctx, tasks, req)
	return err
}

// runSharded splits the key list into nj shards, writes one key slice file
// per shard, dispatches one task per shard, and aggregates the shard output
// directories into <stage dir>/merged.
func (b *builder) runSharded(ctx context.Context, name string, cmd config.CommandConfig, extra map[string]string, req submit.ResourceRequest, policies map[string]aggregate.Policy) error {
	if cmd.Path == "" {
		return fmt.Errorf("%w: no command configured for stage %q", core.ErrConfiguration, name)
	}

	keys, err := keylist.Read(b.cfg.Recipe.KeyFile)
	if err != nil {
		return fmt.Errorf("reading key file: %w", err)
	}

	dir := b.stageDir(name)
	plan, err := shard.Plan(keys, b.cfg.NJ, func(shardID int) string {
		return filepath.Join(dir, "shard."+strconv.Itoa(shardID))
	})
	if err != nil {
		return err
	}

	tasks := make([]runner.Task, 0, len(plan))
	shardDirs := make([]string, 0, len(plan))
	for _, st := range plan {
		if err := os.MkdirAll(st.OutputDir, 0o755); err != nil {
			return fmt.Errorf("creating shard output for shard %d: %w", st.ShardID, err)
		}
		// Key slices live next to the shard dirs, not inside them: they are
		// partition bookkeeping, not tool output, and must not be merged.
		keysFile := keylist.SliceFileName(filepath.Join(dir, "keys"), st.ShardID)
		if err := keylist.WriteSlice(keysFile, st.Keys); err != nil {
			return fmt.Errorf("writing key slice for shard %d: %w", st.ShardID, err)
		}

		repl := map[string]string{
			"shard":  strconv.Itoa(st.ShardID),
			"keys":   keysFile,
			"outdir": st.OutputDir,
		}
		for k, v := range extra {
			repl[k] = v
		}

		tasks = append(tasks, runner.Task{
			ShardID: st.ShardID,
			Argv:    expand(cmd, repl),
			LogPath: b.logPath(name, st.ShardID),
		})
		shardDirs = append(shardDirs, st.OutputDir)
	}

	if _, err := b.run.RunAll(ctx, tasks, req); err != nil {
		return err
	}

	return aggregate.Aggregate(shardDirs, filepath.Join(dir, "merged"), policies)
}

func (b *builder) defaultRequest() submit.ResourceRequest {
	return submit.ResourceRequest{
		CPUSlots: 1,
		Timeout:  b.cfg.TaskTimeout,
	}
}

func (b *builder) dataPrep(ctx context.Context, cfg *config.Pipeline) error {
	return b.runDirect(ctx, "data_prep", cfg.Recipe.DataPrep, map[string]string{
		"corpus":  cfg.Recipe.Corpus,
		"keyfile": cfg.Recipe.KeyFile,
		"outdir":  b.stageDir("data_prep"),
	}, b.defaultRequest())
}

func (b *builder) featureStats(ctx context.Context, cfg *config.Pipeline) error {
	return b.runSharded(ctx, "feature_stats", cfg.Recipe.FeatureExtractor, map[string]string{
		"datadir": b.stageDir("data_prep"),
	}, b.defaultRequest(), nil)
}

func (b *builder) tokenize(ctx context.Context, cfg *config.Pipeline) error {
	return b.runDirect(ctx, "tokenize", cfg.Recipe.Tokenizer, map[string]string{
		"corpus": cfg.Recipe.Corpus,
		"scheme": cfg.Recipe.TokenScheme,
		"vocab":  strconv.Itoa(cfg.Recipe.VocabSize),
		"outdir": b.stageDir("tokenize"),
	}, b.defaultRequest())
}

func (b *builder) lmTrain(ctx context.Context, cfg *config.Pipeline) error {
	req := b.defaultRequest()
	req.GPUCount = cfg.NGPU
	return b.runDirect(ctx, "lm_train", cfg.Recipe.LMTrainer, map[string]string{
		"tokendir": b.stageDir("tokenize"),
		"outdir":   b.stageDir("lm_train"),
	}, req)
}

func (b *builder) asrTrain(ctx context.Context, cfg *config.Pipeline) error {
	req := b.defaultRequest()
	req.GPUCount = cfg.NGPU

	cmd := cfg.Recipe.Trainer
	if cfg.Resume {
		// The trainer owns checkpoint resumption; the driver only forwards
		// the request.
		cmd.Args = append(append([]string(nil), cmd.Args...), "--resume")
	}

	return b.runDirect(ctx, "asr_train", cmd, map[string]string{
		"statsdir":     filepath.Join(b.stageDir("feature_stats"), "merged"),
		"tokendir":     b.stageDir("tokenize"),
		"train_config": cfg.Recipe.TrainConfig,
		"ngpu":         strconv.Itoa(cfg.NGPU),
		"outdir":       b.stageDir("asr_train"),
	}, req)
}

func (b *builder) decode(ctx context.Context, cfg *config.Pipeline) error {
	req := b.defaultRequest()
	req.GPUCount = cfg.NGPU
	return b.runSharded(ctx, "decode", cfg.Recipe.Decoder, map[string]string{
		"modeldir": b.stageDir("asr_train"),
		"ngpu":     strconv.Itoa(cfg.NGPU),
	}, req, map[string]aggregate.Policy{
		"**/*.score": aggregate.PolicyMeanOfRecords,
	})
}

func (b *builder) score(ctx context.Context, cfg *config.Pipeline) error {
	return b.runDirect(ctx, "score", cfg.Recipe.Scorer, map[string]string{
		"ref":    cfg.Recipe.RefTrn,
		"hyp":    filepath.Join(b.stageDir("decode"), "merged", "hyp.trn"),
		"outdir": b.stageDir("score"),
	}, b.defaultRequest())
}

func (b *builder) pack(ctx context.Context, cfg *config.Pipeline) error {
	return b.runDirect(ctx, "pack", cfg.Recipe.Packer, map[string]string{
		"modeldir": b.stageDir("asr_train"),
		"tokendir": b.stageDir("tokenize"),
		"outdir":   b.stageDir("pack"),
	}, b.defaultRequest())
}
