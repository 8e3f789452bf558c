package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Backland-Labs/rosterdesk/internal/config"
	"github.com/Backland-Labs/rosterdesk/internal/store/postgres"
)

type migrateFlags struct {
	schemaPath string
	seed       bool
}

// newMigrateCommand creates the migrate subcommand
func newMigrateCommand(deps *Dependencies, configPath *string) *cobra.Command {
	flags := &migrateFlags{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the Postgres schema and optionally load a roster",
		Long: `Create the Postgres schema used by the postgres store.

With --seed the configured seed file (or the bundled demo roster) is loaded.
Existing rows are left untouched, so the command is safe to run repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(deps, *configPath)
			if err != nil {
				return err
			}
			return runMigrate(cmd.Context(), deps, cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.schemaPath, "schema", "", "Apply this SQL file instead of the bundled schema")
	cmd.Flags().BoolVar(&flags.seed, "seed", false, "Load the seed roster after migrating")

	return cmd
}

func runMigrate(ctx context.Context, deps *Dependencies, cfg *config.Config, flags *migrateFlags) error {
	if cfg.Store.Driver != config.StorePostgres {
		return fmt.Errorf("migrate requires the postgres store: set ROSTERDESK_STORE=postgres")
	}

	store, err := postgres.Open(ctx, cfg.Store.DatabaseURL, int32(cfg.Store.MaxConns))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx, flags.schemaPath); err != nil {
		return err
	}
	deps.Printer.Success("Schema applied")

	if !flags.seed {
		return nil
	}
	fixtures, err := loadFixtures(cfg)
	if err != nil {
		return err
	}
	if err := store.Seed(ctx, fixtures); err != nil {
		return err
	}
	deps.Printer.Success("Loaded %d staff and %d shifts", len(fixtures.Staff), len(fixtures.Shifts))
	return nil
}
