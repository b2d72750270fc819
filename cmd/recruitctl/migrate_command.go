package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/recruitment-service/internal/persistence"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database(cmd.Context())
			if err != nil {
				return err
			}
			if dir == "" {
				dir = ctx.config.Postgres.MigrationsDir
			}
			if err := persistence.RunMigrations(cmd.Context(), db.PoolHandle(), dir, ctx.logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrations in %s applied\n", dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Migrations directory (defaults to POSTGRES_MIGRATIONS_DIR)")
	return cmd
}
