package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/riposte/internal/trace"
)

// TraceOptions holds flags for the trace commands.
type TraceOptions struct {
	*RootOptions
	DBPath string
}

// NewTraceCommand creates the trace command group.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded runs",
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "trace.db", "trace database path")

	cmd.AddCommand(newTraceListCommand(opts))
	cmd.AddCommand(newTraceShowCommand(opts))

	return cmd
}

func newTraceListCommand(opts *TraceOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List recorded runs, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceList(opts, cmd)
		},
	}
}

func newTraceShowCommand(opts *TraceOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <run-id>",
		Short:         "Dump one run's resolutions",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceShow(opts, cmd, args[0])
		},
	}
}

func runTraceList(opts *TraceOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	store, err := trace.Open(opts.DBPath)
	if err != nil {
		out.Error(err.Error())
		return WrapExitError(ExitCommandError, "open trace db", err)
	}
	defer store.Close()

	infos, err := store.ListRuns(cmd.Context())
	if err != nil {
		out.Error(err.Error())
		return WrapExitError(ExitCommandError, "list runs", err)
	}

	if opts.Format == "json" {
		return out.Success(infos)
	}
	if len(infos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  ticks=%d resolutions=%d  %s\n",
			info.ID, info.CreatedAt.Format("2006-01-02 15:04:05"), info.Ticks, info.Resolutions, info.Note)
	}
	return nil
}

// traceShowResult pairs the run header with its resolutions for JSON output.
type traceShowResult struct {
	RunID       string             `json:"run_id"`
	CreatedAt   string             `json:"created_at"`
	Ticks       int                `json:"ticks"`
	Resolutions []trace.Resolution `json:"resolutions"`
}

func runTraceShow(opts *TraceOptions, cmd *cobra.Command, runID string) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	store, err := trace.Open(opts.DBPath)
	if err != nil {
		out.Error(err.Error())
		return WrapExitError(ExitCommandError, "open trace db", err)
	}
	defer store.Close()

	run, err := store.LoadRun(cmd.Context(), runID)
	if err != nil {
		out.Error(err.Error())
		return WrapExitError(ExitCommandError, "load run", err)
	}

	if opts.Format == "json" {
		return out.Success(traceShowResult{
			RunID:       run.ID,
			CreatedAt:   run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Ticks:       len(run.Ticks),
			Resolutions: run.Resolutions,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s (%s): %d ticks\n",
		run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), len(run.Ticks))
	for _, res := range run.Resolutions {
		fmt.Fprintf(cmd.OutOrStdout(), "  frame %d: %d -> %d (%s)\n",
			res.Frame, res.Input, res.Resolved, res.Source)
	}
	return nil
}
