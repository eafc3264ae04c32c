package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GTDGit/catalog_api/internal/database"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back schema migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, true)
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, false)
		},
	})
	return migrateCmd
}

func runMigrate(cmd *cobra.Command, up bool) error {
	return withApp(func(a *app) error {
		if err := database.Migrate(a.db.DB, a.cfg.DB.MigrationsPath, up); err != nil {
			return err
		}
		version, dirty, err := database.MigrationVersion(a.db.DB, a.cfg.DB.MigrationsPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", version, dirty)
		return nil
	})
}
