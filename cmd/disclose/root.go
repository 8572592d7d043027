package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"goa.design/clue/log"

	"github.com/njchilds90/go-disclosure/internal/config"
)

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// app carries what every subcommand needs once the root has run.
type app struct {
	streams
	cfg *config.Config

	configFile string
	debug      bool
	logFormat  string
}

// Execute runs the command line in args.
func Execute(ctx context.Context, args []string, s streams) error {
	root := newRootCmd(&app{streams: s})
	root.SetArgs(args)
	root.SetIn(s.in)
	root.SetOut(s.out)
	root.SetErr(s.err)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "disclose",
		Short: "Bounded views of workflow execution metadata and logs",
		Long: `disclose reads a workflow execution-metadata document (JSON or YAML) or a
raw log and prints a small, bounded view of it: a status summary, the values
at a few path expressions, a head+tail window of a log, and so on.

FILE may be "-" to read standard input.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "YAML config file (DISCLOSE_* environment variables also apply)")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logs")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: auto, json, text or terminal")

	root.AddCommand(
		newSummarizeCmd(a),
		newExtractCmd(a),
		newTruncateCmd(a),
		newLogsCmd(a),
		newSubmissionCmd(a),
		newOutputCmd(a),
		newSizeCmd(a),
		newShowCmd(a),
		newValidateCmd(a),
	)
	return root
}

// setup loads the configuration and attaches a logger to the command context.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewLoader(config.NewValidator()).Load(a.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
		if err := config.NewValidator().Validate(cfg); err != nil {
			return err
		}
	}
	if a.debug {
		cfg.Logging.Debug = true
	}
	a.cfg = cfg

	ctx := log.Context(cmd.Context(), log.WithFormat(logFormat(cfg.Logging.Format)), log.WithOutput(a.err))
	if cfg.Logging.Debug {
		ctx = log.Context(ctx, log.WithDebug())
	}
	ctx = log.With(ctx, log.KV{K: "request-id", V: uuid.NewString()}, log.KV{K: "cmd", V: cmd.Name()})
	cmd.SetContext(ctx)
	log.Debug(ctx, log.KV{K: "msg", V: "configuration loaded"}, log.KV{K: "config", V: a.configFile})
	return nil
}

func logFormat(name string) log.FormatFunc {
	switch name {
	case "json":
		return log.FormatJSON
	case "text":
		return log.FormatText
	case "terminal":
		return log.FormatTerminal
	default:
		if log.IsTerminal() {
			return log.FormatTerminal
		}
		return log.FormatJSON
	}
}

// print writes v to standard output as indented JSON.
func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
