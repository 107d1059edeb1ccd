package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ihuusa2/ihu-usa-sub002/internal/infra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	for _, sub := range []struct {
		name  string
		short string
		cmd   infra.MigrationCommand
	}{
		{"up", "Apply all pending migrations", infra.MigrateUp},
		{"down", "Roll back the latest migration", infra.MigrateDown},
		{"status", "Print the migration status", infra.MigrateStatus},
		{"reset", "Roll back every migration", infra.MigrateReset},
	} {
		sub := sub
		cmd.AddCommand(&cobra.Command{
			Use:   sub.name,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				url, err := databaseURL(cmd)
				if err != nil {
					return err
				}
				ctx, cancel := commandContext(cmd)
				defer cancel()
				if err := infra.RunMigrations(ctx, url, sub.cmd); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok\n", sub.name)
				return nil
			},
		})
	}
	return cmd
}
