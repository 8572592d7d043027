// Package config holds the settings of the disclose command: the caps and
// budgets passed to each disclosure operation and the logging setup.
package config

import "github.com/njchilds90/go-disclosure"

// Config is the top-level configuration.
type Config struct {
	Summary    SummaryConfig    `mapstructure:"summary"`
	Extract    ExtractConfig    `mapstructure:"extract"`
	Truncate   TruncateConfig   `mapstructure:"truncate"`
	Submission SubmissionConfig `mapstructure:"submission"`
	Logs       LogsConfig       `mapstructure:"logs"`
	Size       SizeConfig       `mapstructure:"size"`
	Projection ProjectionConfig `mapstructure:"projection"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SummaryConfig configures summary mode.
type SummaryConfig struct {
	FailureStatuses    []string `mapstructure:"failure_statuses" validate:"required,min=1,dive,required"`
	MaxFailedEntries   int      `mapstructure:"max_failed_entries" validate:"min=1,max=1000"`
	MaxFailureMessages int      `mapstructure:"max_failure_messages" validate:"min=0,max=100"`
	SkipMalformed      bool     `mapstructure:"skip_malformed"`
}

// ExtractConfig configures path evaluation.
type ExtractConfig struct {
	MaxHintKeys int `mapstructure:"max_hint_keys" validate:"min=1,max=1000"`
}

// TruncateConfig configures log truncation.
type TruncateConfig struct {
	MaxChars     int     `mapstructure:"max_chars" validate:"min=0"`
	HeadFraction float64 `mapstructure:"head_fraction" validate:"min=0,max=1"`
}

// SubmissionConfig configures submission mode.
type SubmissionConfig struct {
	MaxWorkflows int `mapstructure:"max_workflows" validate:"min=0"`
}

// LogsConfig configures logs mode.
type LogsConfig struct {
	MaxTasks int `mapstructure:"max_tasks" validate:"min=0"`
}

// SizeConfig configures size mode.
type SizeConfig struct {
	WarnAbove int `mapstructure:"warn_above" validate:"min=0"`
}

// ProjectionConfig lists the keys kept or dropped before a whole document
// is printed.
type ProjectionConfig struct {
	Include []string `mapstructure:"include" validate:"dive,required"`
	Exclude []string `mapstructure:"exclude" validate:"dive,required"`
}

// LoggingConfig configures the command's log output.
type LoggingConfig struct {
	Format string `mapstructure:"format" validate:"required,oneof=auto json text terminal"`
	Debug  bool   `mapstructure:"debug"`
}

// DefaultConfig returns a Config with the default caps and budgets.
func DefaultConfig() *Config {
	return &Config{
		Summary: SummaryConfig{
			FailureStatuses:    []string{"Failed"},
			MaxFailedEntries:   disclosure.DefaultMaxFailedEntries,
			MaxFailureMessages: disclosure.DefaultMaxFailureMessages,
		},
		Extract: ExtractConfig{
			MaxHintKeys: disclosure.DefaultMaxHintKeys,
		},
		Truncate: TruncateConfig{
			MaxChars:     10000,
			HeadFraction: disclosure.DefaultHeadFraction,
		},
		Submission: SubmissionConfig{
			MaxWorkflows: 10,
		},
		Size: SizeConfig{
			WarnAbove: disclosure.DefaultSizeWarning,
		},
		Projection: ProjectionConfig{
			Exclude: []string{"submittedFiles", "executionEvents"},
		},
		Logging: LoggingConfig{
			Format: "auto",
		},
	}
}

// SummaryOptions converts the summary settings into operation options.
func (c *Config) SummaryOptions() disclosure.SummaryOptions {
	return disclosure.SummaryOptions{
		FailureStatuses:    append([]string(nil), c.Summary.FailureStatuses...),
		MaxFailedEntries:   c.Summary.MaxFailedEntries,
		MaxFailureMessages: c.Summary.MaxFailureMessages,
		SkipMalformed:      c.Summary.SkipMalformed,
	}
}

// EvalOptions converts the extract settings into evaluation options.
func (c *Config) EvalOptions() []disclosure.Option {
	return []disclosure.Option{disclosure.WithMaxHintKeys(c.Extract.MaxHintKeys)}
}
