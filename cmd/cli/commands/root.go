package commands

import (
	"context"
	"fmt"
	"os"

	"sitescrape-go/pkg/cli"
	"sitescrape-go/pkg/cli/logger"
	"sitescrape-go/pkg/config"

	"github.com/spf13/cobra"
)

var (
	configPath string
	app        *cli.App
)

var rootCmd = &cobra.Command{
	Use:   "sitescrape",
	Short: "sitescrape runs site scrapes against a scrape backend.",
	Long: "sitescrape picks a site plugin, runs a query against the scrape backend\n" +
		"and hands back the generated CSV. Without a subcommand it opens the TUI.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := store.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := logger.Init(logger.Options{File: cfg.Log.File, Level: cfg.Log.Level}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		app = cli.NewApp(store, cfg)
		app.SetOutput(cmd.OutOrStdout())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.CloseLog()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default ~/.config/sitescrape/config.toml)")
}

func openStore() (*config.Store, error) {
	if configPath != "" {
		return config.NewStore(configPath), nil
	}
	return config.DefaultStore()
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
