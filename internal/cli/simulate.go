package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/riposte/internal/harness"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
}

// SimulateResult is the machine-readable simulation outcome.
type SimulateResult struct {
	Scenario string          `json:"scenario"`
	Events   []harness.Event `json:"events"`
	Failures []string        `json:"failures,omitempty"`
	Passed   bool            `json:"passed"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Run a scenario through the engine",
		Long: `Run a scripted scenario against a fresh engine with the builtin rule
registry and print every resolution, suggestion, and target selection.

Scenarios may embed expectations; unmet expectations fail the run.

Exit codes:
  0 - Scenario ran, all expectations met
  1 - Expectations failed
  2 - Command error (scenario unreadable, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, cmd, args[0])
		},
	}

	return cmd
}

func runSimulate(opts *SimulateOptions, cmd *cobra.Command, path string) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	sc, err := harness.LoadScenario(path)
	if err != nil {
		out.Error(err.Error())
		return WrapExitError(ExitCommandError, "load scenario", err)
	}

	result, err := harness.Run(sc)
	if err != nil {
		out.Error(err.Error())
		return WrapExitError(ExitCommandError, "run scenario", err)
	}

	simResult := SimulateResult{
		Scenario: result.Scenario,
		Events:   result.Events,
		Failures: result.Failures,
		Passed:   len(result.Failures) == 0,
	}

	if opts.Format == "json" {
		if err := out.Success(simResult); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "scenario: %s\n", result.Scenario)
		for _, ev := range result.Events {
			switch ev.Type {
			case "resolve":
				fmt.Fprintf(cmd.OutOrStdout(), "  frame %d: resolve %d -> %d (%s)\n", ev.Frame, ev.Input, ev.Resolved, ev.Source)
			case "aux":
				fmt.Fprintf(cmd.OutOrStdout(), "  frame %d: aux %v\n", ev.Frame, ev.Suggestions)
			case "target":
				fmt.Fprintf(cmd.OutOrStdout(), "  frame %d: target(%d) -> %d\n", ev.Frame, ev.Ability, ev.Entity)
			}
		}
		for _, failure := range result.Failures {
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL: %s\n", failure)
		}
	}

	if !simResult.Passed {
		return NewExitError(ExitFailure, fmt.Sprintf("%d expectations failed", len(result.Failures)))
	}
	return nil
}
