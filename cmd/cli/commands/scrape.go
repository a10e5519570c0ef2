package commands

import (
	"sitescrape-go/pkg/cli"

	"github.com/spf13/cobra"
)

var scrapeOpts cli.ScrapeOptions

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeOpts.Site, "site", "s", "", "Site plugin to run")
	scrapeCmd.Flags().StringVarP(&scrapeOpts.Query, "query", "q", "", "Search query")
	scrapeCmd.Flags().StringVarP(&scrapeOpts.Limit, "limit", "n", "", "Maximum number of rows (optional)")
	scrapeCmd.Flags().BoolVarP(&scrapeOpts.Download, "download", "d", false, "Save the generated CSV to the download directory")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape --site <site> --query <query> [--limit <n>] [--download]",
	Short: "Runs one scrape without the TUI.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunScrape(cmd.Context(), scrapeOpts)
	},
}
