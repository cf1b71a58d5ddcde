package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/internal/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		Long: `Applies every migration file in --dir that is not yet recorded in
schema_migrations. SQLite databases are auto-migrated from the models instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.cfg.MigrationsDir
			}

			if a.cfg.DBDriver == "sqlite" {
				db, err := database.New(a.cfg, a.log)
				if err != nil {
					return err
				}
				if err := database.RunMigrations(cmd.Context(), db, dir, a.log); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "sqlite schema is up to date")
				return nil
			}

			db, err := sql.Open("postgres", a.cfg.DSN())
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			applied, err := database.ApplySQLMigrations(cmd.Context(), db, dir, a.log)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (defaults to MIGRATIONS_DIR)")
	return cmd
}
