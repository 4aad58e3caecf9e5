package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/riposte/internal/config"
	"github.com/roach88/riposte/internal/rules"
	"github.com/roach88/riposte/internal/trace"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	DBPath  string
	Profile string
}

// ReplayResult is the machine-readable replay outcome.
type ReplayResult struct {
	RunID         string           `json:"run_id"`
	Ticks         int              `json:"ticks"`
	Checked       int              `json:"checked"`
	Skipped       int              `json:"skipped"`
	Deterministic bool             `json:"deterministic"`
	Mismatches    []trace.Mismatch `json:"mismatches,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Replay a recorded run and verify determinism",
		Long: `Feed a recorded run through a fresh engine and compare every recorded
resolution against the re-resolved answer.

Exit codes:
  0 - Replay matched the record
  1 - Mismatches found
  2 - Command error (run not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "trace.db", "trace database path")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "enablement profile the run was recorded with")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command, runID string) error {
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

	profile := config.Default()
	if opts.Profile != "" {
		if profile, err = config.Load(opts.Profile); err != nil {
			out.Error(err.Error())
			return WrapExitError(ExitCommandError, "load profile", err)
		}
	}

	out.VerboseLog("replaying run %s: %d ticks, %d resolutions", run.ID, len(run.Ticks), len(run.Resolutions))

	report, err := trace.Replay(run, rules.BuiltinRegistry(), profile)
	if err != nil {
		out.Error(err.Error())
		return WrapExitError(ExitCommandError, "replay run", err)
	}

	result := ReplayResult{
		RunID:         report.RunID,
		Ticks:         report.Ticks,
		Checked:       report.Checked,
		Skipped:       report.Skipped,
		Deterministic: report.Deterministic(),
		Mismatches:    report.Mismatches,
	}

	if opts.Format == "json" {
		if err := out.Success(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d ticks, %d resolutions checked, %d skipped\n",
			report.RunID, report.Ticks, report.Checked, report.Skipped)
		for _, m := range report.Mismatches {
			fmt.Fprintf(cmd.OutOrStdout(), "  frame %d: input %d recorded %d, replayed %d (recorded from %s)\n",
				m.Frame, m.Input, m.Recorded, m.Replayed, m.RecordedFrom)
		}
		if result.Deterministic {
			fmt.Fprintln(cmd.OutOrStdout(), "deterministic")
		}
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, fmt.Sprintf("%d mismatches", len(report.Mismatches)))
	}
	return nil
}
