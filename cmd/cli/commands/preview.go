package commands

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(previewCmd, logsCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Prints the first rows of a generated CSV.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Preview(cmd.Context(), args[0])
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Prints and clears the backend's buffered debug log.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Logs(cmd.Context())
	},
}
