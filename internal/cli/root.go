// Package cli implements the rosterdesk command line: the HTTP server, one-off
// questions from the terminal, tool listing and database migration.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

// Execute runs the CLI
func Execute() error {
	return NewRootCommand(NewRealDependencies()).ExecuteContext(context.Background())
}

// NewRootCommand creates the root command with all subcommands
func NewRootCommand(deps *Dependencies) *cobra.Command {
	var showVersion bool
	var configPath string

	cmd := &cobra.Command{
		Use:   "rosterdesk",
		Short: "rosterdesk - conversational scheduling assistant for hospital rosters",
		Long: `rosterdesk - conversational scheduling assistant for hospital rosters

rosterdesk answers staff and scheduler questions about shifts, availability
and leave by running an assistant that calls scheduling tools on your roster.

Examples:
  rosterdesk serve --port 3001
  rosterdesk ask "Who can cover the ICU night shift next monday?" --role scheduler
  rosterdesk tools --format yaml
  rosterdesk migrate --seed`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "rosterdesk version "+version)
				return err
			}
			return cmd.Help()
		},
	}

	cmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (default $ROSTERDESK_CONFIG)")

	cmd.AddCommand(
		newServeCommand(deps, &configPath),
		newAskCommand(deps, &configPath),
		newToolsCommand(deps, &configPath),
		newMigrateCommand(deps, &configPath),
		newConfigCommand(deps, &configPath),
	)

	return cmd
}
