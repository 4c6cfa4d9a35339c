package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"credex/internal/platform/config"
	"credex/internal/platform/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, pool *database.Pool) error {
			return database.Migrate(ctx, pool.DB())
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, pool *database.Pool) error {
			return database.MigrateDown(ctx, pool.DB())
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, pool *database.Pool) error {
			version, err := database.MigrationVersion(ctx, pool.DB())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

// withDatabase opens a pool from the tooling configuration for the duration of fn.
func withDatabase(ctx context.Context, fn func(context.Context, *database.Pool) error) error {
	cfg, err := config.LoadTooling()
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel, cfg.Environment)

	pool, err := database.New(ctx, cfg.Database.PoolConfig())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := pool.Close(); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}()
	return fn(ctx, pool)
}
