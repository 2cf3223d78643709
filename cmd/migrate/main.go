package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"bookshelf/internal/platform/config"
	"bookshelf/internal/platform/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags source

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply and inspect database migrations",
		Long:         "Runs goose migrations. Without --dir the migrations compiled into the binary are used.",
		SilenceUsage: true,
	}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		config.LoadEnvFiles()
		flags = flags.resolve()
	}
	root.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "Postgres DSN (defaults to $DB_DSN)")
	root.PersistentFlags().StringVar(&flags.dir, "dir", "", "Migrations directory (defaults to $MIGRATIONS_DIR, then the embedded set)")

	run := func(action string, fn func(db *sql.DB, dir string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			pool, err := postgres.Open(cmd.Context(), flags.dsn)
			if err != nil {
				return err
			}
			defer pool.Close()

			db := stdlib.OpenDBFromPool(pool)
			defer db.Close()

			fsys, dir := flags.files()
			goose.SetBaseFS(fsys)
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}
			if err := fn(db, dir); err != nil {
				return fmt.Errorf("%s: %w", action, err)
			}
			return nil
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: run("run migrations", func(db *sql.DB, dir string) error {
				if err := goose.Up(db, dir); err != nil {
					return err
				}
				fmt.Println("Migrations applied successfully")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			Args:  cobra.NoArgs,
			RunE: run("roll back migration", func(db *sql.DB, dir string) error {
				if err := goose.Down(db, dir); err != nil {
					return err
				}
				fmt.Println("Migration rolled back successfully")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: run("migration status", func(db *sql.DB, dir string) error {
				return goose.Status(db, dir)
			}),
		},
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create a new SQL migration file in --dir",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if flags.embedded() {
					return errors.New("create needs --dir or MIGRATIONS_DIR, e.g. --dir db/migrations")
				}
				if err := goose.Create(nil, flags.dir, args[0], "sql"); err != nil {
					return fmt.Errorf("create migration: %w", err)
				}
				fmt.Printf("Migration created: %s\n", args[0])
				return nil
			},
		},
	)
	return root
}
