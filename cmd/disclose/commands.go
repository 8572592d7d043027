package main

import (
	"github.com/spf13/cobra"
	"goa.design/clue/log"

	"github.com/njchilds90/go-disclosure"
)

// run decodes the document named by args[0] into req (for every mode but
// truncate), dispatches it and prints the mode's result.
func (a *app) run(cmd *cobra.Command, path string, req disclosure.Request) error {
	ctx := cmd.Context()
	if req.Mode == disclosure.ModeTruncate {
		data, err := a.readInput(path)
		if err != nil {
			return err
		}
		req.Text = string(data)
	} else {
		doc, err := a.readDocument(path)
		if err != nil {
			return err
		}
		req.Document = doc
	}
	log.Debug(ctx, log.KV{K: "msg", V: "running"}, log.KV{K: "mode", V: req.Mode.String()}, log.KV{K: "input", V: path})

	resp, err := disclosure.Run(req)
	if err != nil {
		log.Error(ctx, err, log.KV{K: "mode", V: req.Mode.String()})
		return err
	}
	return a.print(result(resp))
}

// result picks the payload of resp matching its mode.
func result(resp disclosure.Response) any {
	switch resp.Mode {
	case disclosure.ModeSummary:
		return resp.Summary
	case disclosure.ModeExtract:
		return resp.Extractions
	case disclosure.ModeTruncate:
		return resp.Truncation
	case disclosure.ModeLogs:
		return resp.Logs
	case disclosure.ModeSubmission:
		return resp.Submission
	case disclosure.ModeOutput:
		return resp.Output
	case disclosure.ModeSize:
		return resp.Size
	default:
		return resp
	}
}

func newSummarizeCmd(a *app) *cobra.Command {
	var (
		statuses      []string
		maxFailed     int
		maxMessages   int
		skipMalformed bool
	)
	cmd := &cobra.Command{
		Use:   "summarize FILE",
		Short: "Count shard records by status and list the first failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.SummaryOptions()
			if cmd.Flags().Changed("failure-status") {
				opts.FailureStatuses = statuses
			}
			if cmd.Flags().Changed("max-failed") {
				opts.MaxFailedEntries = maxFailed
			}
			if cmd.Flags().Changed("max-messages") {
				opts.MaxFailureMessages = maxMessages
			}
			if skipMalformed {
				opts.SkipMalformed = true
			}
			return a.run(cmd, args[0], disclosure.Request{Mode: disclosure.ModeSummary, Summary: opts})
		},
	}
	cmd.Flags().StringSliceVar(&statuses, "failure-status", nil, "Statuses reported as failures (default from config: Failed)")
	cmd.Flags().IntVar(&maxFailed, "max-failed", 0, "Maximum failure entries listed")
	cmd.Flags().IntVar(&maxMessages, "max-messages", 0, "Maximum failure messages per entry")
	cmd.Flags().BoolVar(&skipMalformed, "skip-malformed", false, "Count malformed shard records instead of failing")
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	var (
		exprs    []string
		maxHints int
	)
	cmd := &cobra.Command{
		Use:   "extract FILE -e EXPR [-e EXPR...]",
		Short: "Print the values at path expressions such as calls.*[0].runtimeAttributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.EvalOptions()
			if cmd.Flags().Changed("max-hint-keys") {
				opts = append(opts, disclosure.WithMaxHintKeys(maxHints))
			}
			return a.run(cmd, args[0], disclosure.Request{Mode: disclosure.ModeExtract, Expressions: exprs, Options: opts})
		},
	}
	cmd.Flags().StringArrayVarP(&exprs, "expr", "e", nil, "Path expression (repeatable)")
	cmd.Flags().IntVar(&maxHints, "max-hint-keys", 0, "Maximum keys listed when a field is not found")
	_ = cmd.MarkFlagRequired("expr")
	return cmd
}

func newTruncateCmd(a *app) *cobra.Command {
	var (
		maxChars int
		head     float64
	)
	cmd := &cobra.Command{
		Use:   "truncate FILE",
		Short: "Print the head and tail of a large log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := disclosure.Request{
				Mode:         disclosure.ModeTruncate,
				MaxChars:     a.cfg.Truncate.MaxChars,
				HeadFraction: a.cfg.Truncate.HeadFraction,
			}
			if cmd.Flags().Changed("max-chars") {
				req.MaxChars = maxChars
			}
			if cmd.Flags().Changed("head-fraction") {
				req.HeadFraction = head
			}
			return a.run(cmd, args[0], req)
		},
	}
	cmd.Flags().IntVar(&maxChars, "max-chars", 0, "Character budget including the omission marker")
	cmd.Flags().Float64Var(&head, "head-fraction", 0, "Share of the window given to the head, 0 to 1")
	return cmd
}

func newLogsCmd(a *app) *cobra.Command {
	var maxTasks int
	cmd := &cobra.Command{
		Use:   "logs FILE",
		Short: "List stderr/stdout locations of every call attempt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := disclosure.Request{Mode: disclosure.ModeLogs, MaxTasks: a.cfg.Logs.MaxTasks}
			if cmd.Flags().Changed("max-tasks") {
				req.MaxTasks = maxTasks
			}
			return a.run(cmd, args[0], req)
		},
	}
	cmd.Flags().IntVar(&maxTasks, "max-tasks", 0, "Maximum locations listed (0 lists all)")
	return cmd
}

func newSubmissionCmd(a *app) *cobra.Command {
	var maxWorkflows int
	cmd := &cobra.Command{
		Use:   "submission FILE",
		Short: "Count a submission's workflows by status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := disclosure.Request{Mode: disclosure.ModeSubmission, MaxWorkflows: a.cfg.Submission.MaxWorkflows}
			if cmd.Flags().Changed("max-workflows") {
				req.MaxWorkflows = maxWorkflows
			}
			return a.run(cmd, args[0], req)
		},
	}
	cmd.Flags().IntVar(&maxWorkflows, "max-workflows", 0, "Maximum workflows listed (0 lists all)")
	return cmd
}

func newOutputCmd(a *app) *cobra.Command {
	var (
		q     disclosure.OutputQuery
		shard int
	)
	cmd := &cobra.Command{
		Use:   "output FILE --task NAME [--shard N] [--name OUTPUT]",
		Short: "Print a task's outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("shard") {
				q.Shard = &shard
			}
			return a.run(cmd, args[0], disclosure.Request{Mode: disclosure.ModeOutput, Output: q, Options: a.cfg.EvalOptions()})
		},
	}
	cmd.Flags().StringVar(&q.Task, "task", "", "Task name as it appears under calls")
	cmd.Flags().IntVar(&shard, "shard", -1, "Shard index of the record (first record when omitted)")
	cmd.Flags().StringVar(&q.Output, "name", "", "Output name (all outputs when omitted)")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}

func newSizeCmd(a *app) *cobra.Command {
	var warnAbove int
	cmd := &cobra.Command{
		Use:   "size FILE",
		Short: "Estimate how many characters and tokens a document takes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := disclosure.Request{Mode: disclosure.ModeSize, WarnAbove: a.cfg.Size.WarnAbove}
			if cmd.Flags().Changed("warn-above") {
				req.WarnAbove = warnAbove
			}
			return a.run(cmd, args[0], req)
		},
	}
	cmd.Flags().IntVar(&warnAbove, "warn-above", 0, "Warn when the document exceeds this many characters (0 disables)")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var include, exclude []string
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print the whole document after dropping excluded keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := a.readDocument(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("include") {
				include = a.cfg.Projection.Include
			}
			if !cmd.Flags().Changed("exclude") {
				exclude = a.cfg.Projection.Exclude
			}
			doc = disclosure.Project(doc, include, exclude)

			size, err := disclosure.Measure(doc, a.cfg.Size.WarnAbove)
			if err != nil {
				return err
			}
			if size.Warning != "" {
				log.Print(ctx, log.KV{K: "msg", V: size.Warning}, log.KV{K: "chars", V: size.Chars})
			}
			return a.print(doc)
		},
	}
	cmd.Flags().StringSliceVar(&include, "include", nil, "Top-level keys to keep (all when empty)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Keys to drop at any depth")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check that a document has the shape of an execution document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(args[0])
			if err != nil {
				return err
			}
			if err := disclosure.ValidateExecutionDocument(doc); err != nil {
				return err
			}
			return a.print(map[string]bool{"valid": true})
		},
	}
}
