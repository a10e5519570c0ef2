package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configSetBackendCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Shows or changes the local configuration.",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Prints the current configuration.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.ShowConfig()
	},
}

var configSetCmd = &cobra.Command{
	Use:     "set <section.key=value>",
	Short:   "Sets one configuration value.",
	Example: "  sitescrape config set cli.request_timeout=30\n  sitescrape config set dev_backend.plugins=google_maps,indiamart",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.SetConfig(args[0]); err != nil {
			return fmt.Errorf("failed to set config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration updated successfully")
		return nil
	},
}

var configSetBackendCmd = &cobra.Command{
	Use:   "set-backend <url>",
	Short: "Sets the backend base URL. Trailing slashes are dropped.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.SetBackend(cmd.Context(), args[0])
	},
}
