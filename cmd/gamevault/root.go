package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(app *appContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gamevault",
		Short:         "Game library metadata manager",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&app.configPath, "config", "c", "", "Configuration file path")
	flags.BoolVar(&app.jsonOut, "json", false, "Output in JSON format")
	flags.BoolVarP(&app.quiet, "quiet", "q", false, "Suppress non-error output")

	rootCmd.AddCommand(
		newScanCommand(app),
		newListCommand(app),
		newStatsCommand(app),
		newEnrichCommand(app),
		newRematchCommand(app),
		newEditCommand(app),
		newExportCommand(app),
		newImportCommand(app),
		newServeCommand(app),
	)

	return rootCmd
}
