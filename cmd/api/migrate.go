package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"waypoint/api/db"
	"waypoint/api/internal/config"
	"waypoint/api/internal/store"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	Long: `Apply every pending migration to DATABASE_URL.

With --down, run the down migrations in reverse order instead. Migrations are
embedded in the binary unless WAYPOINT_MIGRATIONS_DIR points elsewhere.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		defer setupLogging(cfg).Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		database, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer database.Close()

		migrations, err := migrationsFS(cfg)
		if err != nil {
			return err
		}
		if migrateDown {
			if err := store.RollbackMigrations(ctx, database, migrations); err != nil {
				return fmt.Errorf("rollback failed: %w", err)
			}
			log.Printf("migrations rolled back")
			return nil
		}
		if err := store.ApplyMigrations(ctx, database, migrations); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		log.Printf("migrations applied")
		return nil
	},
}

// migrationsFS returns the embedded migrations unless a directory override is
// configured.
func migrationsFS(cfg config.Config) (fs.FS, error) {
	if cfg.MigrationsDir != "" {
		return os.DirFS(cfg.MigrationsDir), nil
	}
	migrations, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("embedded migrations: %w", err)
	}
	return migrations, nil
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "roll back all migrations")
	rootCmd.AddCommand(migrateCmd)
}
