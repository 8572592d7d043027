package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DISCLOSE_SUMMARY_MAX_FAILED_ENTRIES.
const EnvPrefix = "DISCLOSE"

// Loader loads configuration from an optional file and the environment.
type Loader interface {
	Load(path string) (*Config, error)
}

type viperLoader struct {
	validator Validator
}

// NewLoader returns a Loader that validates what it loads with validator.
func NewLoader(validator Validator) Loader {
	return &viperLoader{validator: validator}
}

// Load reads the YAML file at path over the defaults, applies DISCLOSE_*
// environment overrides and validates the result. An empty path skips the
// file. List values given in the environment are comma-separated.
func (l *viperLoader) Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := l.validator.Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("summary.failure_statuses", d.Summary.FailureStatuses)
	v.SetDefault("summary.max_failed_entries", d.Summary.MaxFailedEntries)
	v.SetDefault("summary.max_failure_messages", d.Summary.MaxFailureMessages)
	v.SetDefault("summary.skip_malformed", d.Summary.SkipMalformed)
	v.SetDefault("extract.max_hint_keys", d.Extract.MaxHintKeys)
	v.SetDefault("truncate.max_chars", d.Truncate.MaxChars)
	v.SetDefault("truncate.head_fraction", d.Truncate.HeadFraction)
	v.SetDefault("submission.max_workflows", d.Submission.MaxWorkflows)
	v.SetDefault("logs.max_tasks", d.Logs.MaxTasks)
	v.SetDefault("size.warn_above", d.Size.WarnAbove)
	v.SetDefault("projection.include", d.Projection.Include)
	v.SetDefault("projection.exclude", d.Projection.Exclude)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.debug", d.Logging.Debug)
}
