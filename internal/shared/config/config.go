package config

// LoggingConfig contains logging-related configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CommandConfig describes one external collaborator: the program to run and
// the arguments forwarded to it verbatim. Arguments may contain placeholders
// such as {shard}, {keys} and {outdir}, substituted per invocation; the
// available set depends on the stage.
type CommandConfig struct {
	Path string   `mapstructure:"path"`
	Args []string `mapstructure:"args"`
}
