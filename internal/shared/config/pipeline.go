package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults for options that participate in the configuration tag. Keeping
// them as named constants lets Overrides compare against the same values
// Load seeds into viper.
const (
	DefaultStage       = 1
	DefaultStopStage   = 8
	DefaultNJ          = 32
	DefaultNGPU        = 0
	DefaultMaxParallel = 8
	DefaultTokenScheme = "bpe"
	DefaultVocabSize   = 5000
)

// Pipeline is the full pipeline configuration. It is populated once by Load
// and treated as read-only afterwards; stages communicate exclusively
// through the experiment directory, never by mutating this struct.
type Pipeline struct {
	ExpDir      string        `mapstructure:"expdir"`
	Stage       int           `mapstructure:"stage"`
	StopStage   int           `mapstructure:"stop_stage"`
	NJ          int           `mapstructure:"nj"`
	NGPU        int           `mapstructure:"ngpu"`
	MaxParallel int           `mapstructure:"max_parallel"`
	Resume      bool          `mapstructure:"resume"`
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
	AgentAddr   string        `mapstructure:"agent_addr"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Recipe      RecipeConfig  `mapstructure:"recipe"`
}

// RecipeConfig holds the domain-specific options forwarded to the external
// speech tools. The command blocks are opaque to the driver; it only does
// path and placeholder wiring around them.
type RecipeConfig struct {
	KeyFile     string `mapstructure:"key_file"`
	Corpus      string `mapstructure:"corpus"`
	RefTrn      string `mapstructure:"ref_trn"`
	TokenScheme string `mapstructure:"token_scheme"`
	VocabSize   int    `mapstructure:"vocab_size"`
	SkipLM      bool   `mapstructure:"skip_lm"`
	SkipScoring bool   `mapstructure:"skip_scoring"`
	TrainConfig string `mapstructure:"train_config"`

	DataPrep         CommandConfig `mapstructure:"data_prep"`
	FeatureExtractor CommandConfig `mapstructure:"feature_extractor"`
	Tokenizer        CommandConfig `mapstructure:"tokenizer"`
	LMTrainer        CommandConfig `mapstructure:"lm_trainer"`
	Trainer          CommandConfig `mapstructure:"trainer"`
	Decoder          CommandConfig `mapstructure:"decoder"`
	Scorer           CommandConfig `mapstructure:"scorer"`
	Packer           CommandConfig `mapstructure:"packer"`
}

// Load reads the pipeline configuration from the given path. If configPath
// is empty, it looks for stagehand.yaml in the config/ directory or the
// working directory. Environment variables with STAGEHAND_ prefix override
// config file values.
func Load(configPath string) (*Pipeline, error) {
	v := viper.New()

	v.SetDefault("stage", DefaultStage)
	v.SetDefault("stop_stage", DefaultStopStage)
	v.SetDefault("nj", DefaultNJ)
	v.SetDefault("ngpu", DefaultNGPU)
	v.SetDefault("max_parallel", DefaultMaxParallel)
	v.SetDefault("resume", false)
	v.SetDefault("task_timeout", time.Duration(0))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("recipe.token_scheme", DefaultTokenScheme)
	v.SetDefault("recipe.vocab_size", DefaultVocabSize)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("stagehand")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("STAGEHAND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Pipeline
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for missing or contradictory options.
// It must pass before any stage runs.
func (c *Pipeline) Validate() error {
	if c.ExpDir == "" {
		return fmt.Errorf("expdir is required")
	}
	if c.Stage < 1 {
		return fmt.Errorf("stage must be >= 1, got %d", c.Stage)
	}
	if c.StopStage < c.Stage {
		return fmt.Errorf("stop_stage %d is before stage %d", c.StopStage, c.Stage)
	}
	if c.NJ < 1 {
		return fmt.Errorf("nj must be >= 1, got %d", c.NJ)
	}
	if c.NGPU < 0 {
		return fmt.Errorf("ngpu must be >= 0, got %d", c.NGPU)
	}
	if c.MaxParallel < 1 {
		return fmt.Errorf("max_parallel must be >= 1, got %d", c.MaxParallel)
	}
	if c.TaskTimeout < 0 {
		return fmt.Errorf("task_timeout must not be negative, got %s", c.TaskTimeout)
	}
	if c.Recipe.KeyFile == "" {
		return fmt.Errorf("recipe.key_file is required")
	}
	return nil
}

// Overrides returns the set of output-affecting options that differ from
// their defaults, keyed by canonical option name. The configuration tag is
// derived from this map, so only options that change what a stage produces
// belong here; nj and max_parallel shape scheduling, not results, and are
// deliberately excluded.
func (c *Pipeline) Overrides() map[string]string {
	overrides := make(map[string]string)
	if c.NGPU != DefaultNGPU {
		overrides["ngpu"] = strconv.Itoa(c.NGPU)
	}
	if c.Recipe.TokenScheme != DefaultTokenScheme {
		overrides["tok"] = c.Recipe.TokenScheme
	}
	if c.Recipe.VocabSize != DefaultVocabSize {
		overrides["vocab"] = strconv.Itoa(c.Recipe.VocabSize)
	}
	if c.Recipe.SkipLM {
		overrides["nolm"] = "true"
	}
	if c.Recipe.TrainConfig != "" {
		base := filepath.Base(c.Recipe.TrainConfig)
		overrides["train"] = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return overrides
}
