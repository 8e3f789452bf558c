package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Backland-Labs/rosterdesk/internal/store/memory"
)

// newToolsCommand creates the tools subcommand
func newToolsCommand(deps *Dependencies, configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the scheduling tools exposed to the assistant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(deps, *configPath)
			if err != nil {
				return err
			}

			// definitions do not depend on roster data
			registry, err := newRegistry(memory.New(memory.Fixtures{}), cfg)
			if err != nil {
				return err
			}
			defs := registry.Definitions()

			out := deps.Printer.Out()
			switch format {
			case "table":
				for _, d := range defs {
					deps.Printer.Tool(d.Name, d.Description)
				}
				return nil
			case "json":
				data, err := json.MarshalIndent(defs, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode tools: %w", err)
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(defs); err != nil {
					return fmt.Errorf("failed to encode tools: %w", err)
				}
				return enc.Close()
			default:
				return fmt.Errorf("unsupported format %q: use table, json or yaml", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or yaml")

	return cmd
}

// newConfigCommand creates the config subcommand
func newConfigCommand(deps *Dependencies, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(deps, *configPath)
			if err != nil {
				return err
			}
			return cfg.WriteYAML(deps.Printer.Out())
		},
	}
}
