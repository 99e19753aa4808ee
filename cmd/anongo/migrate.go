package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aura650/anon-go-bot/bot"
	corecmd "github.com/aura650/anon-go-bot/core/cmd"
	"github.com/aura650/anon-go-bot/core/database"
	"github.com/aura650/anon-go-bot/core/logger"
	"github.com/aura650/anon-go-bot/core/profilestore"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	Long: `Connect to the configured database and apply pending migrations
from database.migrations_dir. Only meaningful for the sql store backend.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	path := corecmd.ResolveConfigPath(flagConfig, "", defaultConfigPath)
	cfg, err := bot.Load(path)
	if err != nil {
		return err
	}
	if cfg.Store.Backend != profilestore.BackendSQL {
		return errors.New("migrate: store.backend is not sql, nothing to migrate")
	}
	if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
		return err
	}
	defer func() { _ = logger.Shutdown() }()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := database.RunMigrations(db, cfg.Database)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(report.Applied) == 0 {
		fmt.Fprintf(out, "Database is up to date (version %d).\n", report.ToVersion)
		return nil
	}
	fmt.Fprintf(out, "Migrated %d -> %d:\n", report.FromVersion, report.ToVersion)
	for _, name := range report.Applied {
		fmt.Fprintf(out, "  %s\n", name)
	}
	return nil
}
