package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect reltag configuration",
		Long: `Inspect reltag configuration.

Configuration is merged from defaults, the user config
(~/.config/reltag/config.yml), the project config (.reltag.yml or
.reltag.json in the repository), an explicit --config file, RELTAG_*
environment variables and finally command-line flags.`,
	}
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Example: `  # Effective configuration for the current repository
  reltag config show

  # With a prefix override applied
  reltag config show --prefix release-`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().String(flagPrefix, "", "Tag name prefix override")
	cmd.Flags().String(flagBackend, "", "Git backend override: gogit or git")
	return cmd
}
