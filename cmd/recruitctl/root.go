package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var plainFlag bool

	ctx := newCommandContext(&plainFlag)

	rootCmd := &cobra.Command{
		Use:           "recruitctl",
		Short:         "Administrative CLI for the recruitment service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd == cmd.Root() {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&plainFlag, "plain", false, "Disable table borders even on a terminal")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newCreateAdminCommand(ctx))
	rootCmd.AddCommand(newSetPasswordCommand(ctx))
	rootCmd.AddCommand(newStagesCommand(ctx))

	return rootCmd
}
