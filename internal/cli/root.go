// Package cli implements the riposte command-line tool: offline
// validation, simulation, and trace inspection around the resolution
// engine. Nothing here runs on the engine's hot path.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds the global flags every subcommand sees.
type RootOptions struct {
	Verbose bool
	Format  string // "text" or "json"
}

// NewRootCommand builds the riposte command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "riposte",
		Short: "Riposte - real-time action resolution engine",
		Long:  "Offline tooling for the riposte resolution engine: validate profiles, simulate scenarios, and inspect or replay recorded traces.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.Format {
			case "text", "json":
				return nil
			default:
				return fmt.Errorf("invalid format %q: want text or json", opts.Format)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(
		NewValidateCommand(opts),
		NewSimulateCommand(opts),
		NewReplayCommand(opts),
		NewTraceCommand(opts),
	)

	return cmd
}
