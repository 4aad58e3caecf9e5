package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/riposte/internal/config"
	"github.com/roach88/riposte/internal/rules"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Strict bool
}

// ValidateResult is the machine-readable validation outcome.
type ValidateResult struct {
	Path     string   `json:"path"`
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <profile.yaml>",
		Short: "Validate an enablement profile",
		Long: `Validate a rule enablement profile against the embedded schema and the
builtin rule registry.

Schema violations are errors. Rule labels that no registered rule carries
are warnings, because profiles may be shared across registry versions;
--strict promotes them to errors.

Exit codes:
  0 - Profile is valid
  1 - Validation failed
  2 - Command error (file not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "treat unknown rule labels as errors")

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command, path string) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	profile, err := config.Load(path)
	if err != nil {
		out.Error(err.Error())
		if config.IsSchemaError(err) {
			return NewExitError(ExitFailure, "profile failed schema validation")
		}
		return WrapExitError(ExitCommandError, "load profile", err)
	}

	warnings := unknownLabels(profile, rules.BuiltinRegistry())
	result := ValidateResult{Path: path, Valid: true, Warnings: warnings}

	if len(warnings) > 0 && opts.Strict {
		result.Valid = false
		if opts.Format == "json" {
			out.Success(result)
		} else {
			for _, w := range warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "unknown label: %s\n", w)
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d unknown rule labels", len(warnings)))
	}

	if opts.Format == "json" {
		return out.Success(result)
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.OutOrStdout(), "warning: unknown label: %s\n", w)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", path)
	return nil
}

// unknownLabels lists profile rule labels no registered rule carries.
func unknownLabels(profile *config.Profile, registry *rules.Registry) []string {
	var unknown []string
	for _, job := range registry.Jobs() {
		known := make(map[string]bool)
		for _, label := range registry.Labels(job) {
			known[label] = true
		}
		for _, label := range profile.Labels(job) {
			if !known[label] {
				unknown = append(unknown, fmt.Sprintf("job %d: %s", job, label))
			}
		}
	}
	// Labels for jobs the registry has never heard of.
	for _, job := range profile.Jobs() {
		if len(registry.Labels(job)) == 0 {
			for _, label := range profile.Labels(job) {
				unknown = append(unknown, fmt.Sprintf("job %d: %s", job, label))
			}
		}
	}
	return unknown
}
