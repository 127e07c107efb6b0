package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/martha/internal/config"
	"github.com/MikeSquared-Agency/martha/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := setupLogging(cfg.Log)

		applied, err := store.Migrate(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", "count", applied)
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
		return nil
	},
}
