package recipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpavic/stagehand/internal/pipeline/core"
	"github.com/mpavic/stagehand/internal/runner"
	"github.com/mpavic/stagehand/internal/shared/config"
	"github.com/mpavic/stagehand/internal/shared/logging"
	"github.com/mpavic/stagehand/internal/submit"
)

func testLogger() logging.Logger {
	return logging.New("error", "json")
}

func testConfig(t *testing.T) *config.Pipeline {
	t.Helper()

	keyFile := filepath.Join(t.TempDir(), "wav.scp")
	require.NoError(t, os.WriteFile(keyFile, []byte("utt-b\nutt-a\nutt-c\nutt-d\n"), 0o644))

	return &config.Pipeline{
		ExpDir:      t.TempDir(),
		Stage:       1,
		StopStage:   8,
		NJ:          2,
		MaxParallel: 2,
		Recipe: config.RecipeConfig{
			KeyFile: keyFile,
			Corpus:  "/data/corpus",
		},
	}
}

func buildTest(t *testing.T, cfg *config.Pipeline, tag string) (*core.Registry, *builder) {
	t.Helper()
	run := runner.New(submit.NewLocal(), cfg.MaxParallel, testLogger())
	registry, err := BuildRegistry(cfg, run, tag, testLogger())
	require.NoError(t, err)
	return registry, &builder{cfg: cfg, run: run, tag: tag, log: testLogger()}
}

func shell(script string) config.CommandConfig {
	return config.CommandConfig{Path: "/bin/sh", Args: []string{"-c", script}}
}

func TestBuildRegistry_StageList(t *testing.T) {
	cfg := testConfig(t)
	registry, _ := buildTest(t, cfg, "base")

	stages := registry.Stages()
	wantNames := []string{
		"data_prep", "feature_stats", "tokenize", "lm_train",
		"asr_train", "decode", "score", "pack",
	}
	require.Len(t, stages, len(wantNames))
	for i, s := range stages {
		require.Equal(t, i+1, s.Index)
		require.Equal(t, wantNames[i], s.Name)
	}
}

func TestBuildRegistry_Predicates(t *testing.T) {
	cfg := testConfig(t)
	registry, _ := buildTest(t, cfg, "base")

	byName := make(map[string]core.Stage)
	for _, s := range registry.Stages() {
		byName[s.Name] = s
	}

	require.True(t, byName["lm_train"].When(cfg))
	require.True(t, byName["score"].When(cfg))

	cfg.Recipe.SkipLM = true
	cfg.Recipe.SkipScoring = true
	require.False(t, byName["lm_train"].When(cfg))
	require.False(t, byName["score"].When(cfg))
	require.True(t, byName["asr_train"].When(cfg), "unconditional stages stay on")
}

func TestExpand_Placeholders(t *testing.T) {
	cmd := config.CommandConfig{
		Path: "/opt/tools/extract",
		Args: []string{"--keys", "{keys}", "--out", "{outdir}", "--shard", "{shard}", "--literal"},
	}
	argv := expand(cmd, map[string]string{
		"keys":   "/exp/keys.2.scp",
		"outdir": "/exp/shard.2",
		"shard":  "2",
	})
	require.Equal(t, []string{
		"/opt/tools/extract",
		"--keys", "/exp/keys.2.scp",
		"--out", "/exp/shard.2",
		"--shard", "2",
		"--literal",
	}, argv)
}

func TestExpand_SubstitutesInPath(t *testing.T) {
	cmd := config.CommandConfig{
		Path: "{outdir}/bin/tool",
		Args: []string{"--shard", "{shard}"},
	}
	argv := expand(cmd, map[string]string{
		"outdir": "/exp/tokenize_base",
		"shard":  "1",
	})
	require.Equal(t, []string{"/exp/tokenize_base/bin/tool", "--shard", "1"}, argv)
}

func TestFeatureStats_ShardsAndMerges(t *testing.T) {
	cfg := testConfig(t)
	cfg.Recipe.FeatureExtractor = shell("cat {keys} > {outdir}/shape.txt")
	_, b := buildTest(t, cfg, "base")

	require.NoError(t, b.featureStats(context.Background(), cfg))

	dir := filepath.Join(cfg.ExpDir, "feature_stats_base")

	// Two shard dirs, two key slices, and the merged result.
	for _, rel := range []string{"shard.1/shape.txt", "shard.2/shape.txt", "keys/keys.1.scp", "keys/keys.2.scp"} {
		_, err := os.Stat(filepath.Join(dir, rel))
		require.NoError(t, err, rel)
	}

	merged, err := os.ReadFile(filepath.Join(dir, "merged", "shape.txt"))
	require.NoError(t, err)
	require.Equal(t, "utt-a\nutt-b\nutt-c\nutt-d\n", string(merged),
		"keys sorted, shard 1 block before shard 2 block")
}

func TestDecode_AppliesMeanPolicyToScores(t *testing.T) {
	cfg := testConfig(t)
	cfg.Recipe.Decoder = shell(`echo "hyp ({shard})" > {outdir}/hyp.trn && echo "utt {shard}0.0" > {outdir}/wer.score`)
	_, b := buildTest(t, cfg, "base")

	require.NoError(t, b.decode(context.Background(), cfg))

	dir := filepath.Join(cfg.ExpDir, "decode_base", "merged")

	hyp, err := os.ReadFile(filepath.Join(dir, "hyp.trn"))
	require.NoError(t, err)
	require.Equal(t, "hyp (1)\nhyp (2)\n", string(hyp))

	// Shard scores 10.0 and 20.0 average to 15.
	score, err := os.ReadFile(filepath.Join(dir, "wer.score"))
	require.NoError(t, err)
	require.Equal(t, "15.000000\n", string(score))
}

func TestRunSharded_FailingShardFailsStage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Recipe.FeatureExtractor = shell(`if [ {shard} = 2 ]; then exit 9; fi`)
	_, b := buildTest(t, cfg, "base")

	err := b.featureStats(context.Background(), cfg)
	require.ErrorIs(t, err, core.ErrExternalTool)

	// The tool's exit code stays inspectable through the stage wrapping.
	var shardErr *runner.ShardError
	require.ErrorAs(t, err, &shardErr)
	require.Equal(t, 2, shardErr.ShardID)
	require.Equal(t, 9, shardErr.ExitCode)

	// No merged output after a failed stage.
	_, statErr := os.Stat(filepath.Join(cfg.ExpDir, "feature_stats_base", "merged"))
	require.True(t, os.IsNotExist(statErr))
}

func TestRunDirect_MissingCommandIsConfigurationError(t *testing.T) {
	cfg := testConfig(t)
	_, b := buildTest(t, cfg, "base")

	err := b.tokenize(context.Background(), cfg)
	require.ErrorIs(t, err, core.ErrConfiguration)
}

func TestAsrTrain_ForwardsResumeFlag(t *testing.T) {
	cfg := testConfig(t)
	cfg.Resume = true
	cfg.Recipe.Trainer = shell(`echo "$@" > {outdir}/argv.txt`)
	// The resume flag lands after the script args; capture it via "$@".
	cfg.Recipe.Trainer.Args = append(cfg.Recipe.Trainer.Args, "sh", "--out", "{outdir}")

	_, b := buildTest(t, cfg, "base")

	// runDirect creates the stage dir before the tool starts.
	require.NoError(t, b.asrTrain(context.Background(), cfg))

	data, err := os.ReadFile(filepath.Join(cfg.ExpDir, "asr_train_base", "argv.txt"))
	require.NoError(t, err)
	require.Contains(t, string(data), "--resume")
}

func TestPipeline_EndToEndThroughDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.StopStage = 2
	cfg.Recipe.DataPrep = shell("echo prepared > {outdir}/manifest.txt")
	cfg.Recipe.FeatureExtractor = shell("wc -l < {keys} > {outdir}/count.txt")

	run := runner.New(submit.NewLocal(), cfg.MaxParallel, testLogger())
	registry, err := BuildRegistry(cfg, run, "base", testLogger())
	require.NoError(t, err)

	driver := core.NewDriver(registry, cfg, "base", testLogger())
	require.NoError(t, driver.Run(context.Background()))
	require.Equal(t, core.StateCompleted, driver.State())

	for _, stage := range []string{"data_prep", "feature_stats"} {
		done, err := core.IsDone(cfg.ExpDir, stage, "base")
		require.NoError(t, err)
		require.True(t, done, stage)
	}

	_, err = os.Stat(filepath.Join(cfg.ExpDir, "data_prep_base", "manifest.txt"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.ExpDir, "feature_stats_base", "merged", "count.txt"))
	require.NoError(t, err)
}
