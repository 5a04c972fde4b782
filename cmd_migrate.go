package main

import (
	"context"
	"fmt"

	"allnotes_server_go/data"

	"github.com/spf13/cobra"
)

func newMigrateCommand(flags *cliFlags) *cobra.Command {
	var createDatabase bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and columns, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), flags, createDatabase)
		},
	}
	cmd.Flags().BoolVar(&createDatabase, "create-database", false, "Create the MySQL database if it does not exist")
	return cmd
}

func runMigrate(ctx context.Context, flags *cliFlags, createDatabase bool) error {
	cfg, log, err := flags.loadWithLogger()
	if err != nil {
		return err
	}

	if createDatabase && cfg.Database.Driver == data.DriverMySQL {
		if err := data.CreateMySQLDatabase(ctx, cfg.ServerDSN(), cfg.Database.Name); err != nil {
			return err
		}
		log.Info("database ensured", "name", cfg.Database.Name)
	}

	db, err := data.Open(ctx, databaseOptions(cfg), log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := data.NewSynchronizer(db, log).SyncAll(ctx); err != nil {
		return fmt.Errorf("schema sync: %w", err)
	}
	log.Info("schema is up to date", "driver", cfg.Database.Driver)
	return nil
}
