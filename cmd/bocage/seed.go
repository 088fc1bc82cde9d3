package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mbellec/bocage/internal/cli"
	"github.com/mbellec/bocage/internal/config"
	"github.com/mbellec/bocage/internal/seed"
	"github.com/mbellec/bocage/internal/storage"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <dump.sql>",
		Short: "Load demo data into the local database",
		Long: `Load prospects and demo interactions from a legacy SQL dump into the
local SQLite database. Prospects that already exist are skipped, so the
command is safe to re-run.`,
		Args: cobra.ExactArgs(1),
		RunE: runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	settings, err := config.Load()
	if err != nil {
		return err
	}
	if settings.Backend != config.BackendSQLite {
		return fmt.Errorf("seeding requires the sqlite backend, configured backend is %q", settings.Backend)
	}

	raw, err := os.ReadFile(args[0]) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	data, err := seed.Parse(string(raw))
	if err != nil {
		return fmt.Errorf("failed to parse seed dump: %w", err)
	}

	store, err := storage.NewSQLiteStorage(settings.DatabasePath, settings.Limits)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	loader := seed.NewLoader(store, cmd.OutOrStdout())
	if err := loader.Load(ctx, data); err != nil {
		return err
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf(
		"Seeded %d prospects and %d interactions", len(data.Prospects), len(data.Interactions))))
	return nil
}
