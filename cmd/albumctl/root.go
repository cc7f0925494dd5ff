package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "albumctl",
		Short:         "Build photo albums from image files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.initLogging("production")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&ctx.localeTag, "locale", "", "Language of dates and labels (BCP 47, e.g. fr-FR)")

	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newShareCommand(ctx))

	return rootCmd
}
