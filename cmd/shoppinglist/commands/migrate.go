package commands

import (
	"database/sql"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dukerupert/shoppinglist/internal/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long: `Manage the database schema.

Subcommands:
  up      - Apply pending migrations
  down    - Roll back the latest migration
  status  - Show migration status`,
	}
	cmd.AddCommand(newMigrateUpCmd(a), newMigrateDownCmd(a), newMigrateStatusCmd(a))
	return cmd
}

// rawConn opens the database without applying migrations, so migrate
// subcommands control the schema themselves.
func (a *app) rawConn(cmd *cobra.Command) (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := database.Open(cmd.Context(), a.dbDriver, a.cfg.DB.URL, append(a.openOptions(), database.WithoutMigrations())...)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

func newMigrateUpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.rawConn(cmd)
			if err != nil {
				return err
			}
			applied, err := database.Migrate(cmd.Context(), db, a.dbDriver)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				printSuccess(a.out, "schema is up to date")
				return nil
			}
			for _, v := range applied {
				a.logger.Info("migration applied", "component", "migrate", "version", v)
			}
			printSuccess(a.out, "applied %d migration(s)", len(applied))
			return nil
		},
	}
}

func newMigrateDownCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.rawConn(cmd)
			if err != nil {
				return err
			}
			v, err := database.Rollback(cmd.Context(), db, a.dbDriver)
			if err != nil {
				return err
			}
			if v == 0 {
				printWarning(a.out, "no migrations to roll back")
				return nil
			}
			a.logger.Info("migration rolled back", "component", "migrate", "version", v)
			printSuccess(a.out, "rolled back migration %d", v)
			return nil
		},
	}
}

func newMigrateStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.rawConn(cmd)
			if err != nil {
				return err
			}
			states, err := database.MigrationStatus(cmd.Context(), db, a.dbDriver)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(a.out, states)
			}
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tSTATE\tFILE")
			for _, s := range states {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, state, s.Path)
			}
			return tw.Flush()
		},
	}
}
