package cli

import (
	"context"
	"fmt"

	"guild_war_stats/internal/app"
	"guild_war_stats/internal/storage"
	"guild_war_stats/internal/store"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the guild-war-stats command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "guild-war-stats",
		Short: "Track and analyze guild battle statistics",
		Long: `Track a guild's daily battle submissions and analyze them week by week.

Records live in local storage (a JSON file by default, sqlite optionally);
statistics are recomputed from the full record set after every change.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newAddCommand(),
		newUpdateCommand(),
		newDeleteCommand(),
		newListCommand(),
		newClearCommand(),
		newStatsCommand(),
		newChartCommand(),
		newExportCommand(),
		newImportCommand(),
	)

	return root
}

// runWithStore loads config, opens the configured backend, loads the store,
// and hands it to fn. The backend is closed when fn returns.
func runWithStore(fn func(ctx context.Context, s *store.GuildWarStore) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig()
		if err != nil {
			return err
		}

		st, closeStorage, err := openStorage(cfg)
		if err != nil {
			return err
		}
		defer closeStorage()

		s := store.NewGuildWarStore(st, cfg)
		if err := s.Load(cmd.Context()); err != nil {
			return err
		}

		return fn(cmd.Context(), s)
	}
}

func openStorage(cfg *app.Config) (storage.Storage, func() error, error) {
	switch cfg.StorageBackend {
	case app.BackendSQLite:
		st, err := storage.NewSQLiteStorage(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case app.BackendFile:
		st, err := storage.NewFileStorage(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return st, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}
