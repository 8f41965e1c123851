package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/sidestatus/internal/config"
	"github.com/danieljhkim/sidestatus/internal/fsops"
)

var configInitForce bool

// configCmd is the parent command for the config file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the sidestatus config file",
	Long: `Manage ~/.sidestatus/config.yaml.

Values are resolved in order: built-in defaults, the config file, the
SIDE_API_BASE_URL environment variable, then command-line flags.
SIDESTATUS_ROOT moves the config directory.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := config.DefaultPaths()
		if err != nil {
			return fmt.Errorf("failed to get config paths: %w", err)
		}

		fs := fsops.NewRealFS()
		exists, err := fs.Exists(paths.Config)
		if err != nil {
			return err
		}
		if exists && !configInitForce {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", paths.Config)
		}

		if err := fs.MkdirAll(paths.Root, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", paths.Root, err)
		}
		if err := config.Save(fs, paths.Config, config.Default()); err != nil {
			return err
		}

		PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Wrote %s", paths.Config))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
