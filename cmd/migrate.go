package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/amirphl/affiliate-rhonat/config"
	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/amirphl/affiliate-rhonat/migrations"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var migrateDryRun bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded SQL migrations",
	Long: `Connects to the PostgreSQL database named by DATA_SERVICE_URL (a DSN; the
service role key is used as the password when the DSN has none) and applies
every embedded migration not yet recorded in schema_migrations.

Examples:
  affiliate migrate
  affiliate migrate --dry-run`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "list the migrations without connecting")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if migrateDryRun {
		names, err := migrations.Names()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}

	if cfg.DataService.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate needs DATA_SERVICE_DRIVER=postgres, got %q", cfg.DataService.Driver)
	}
	if cfg.DataService.URL == "" {
		return fmt.Errorf("missing DATA_SERVICE_URL configuration")
	}

	db, err := sql.Open("postgres", cfg.DataService.PostgresDSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	applied, err := migrations.Apply(ctx, db)
	if err != nil {
		return err
	}

	logging.Info().Strs("applied", applied).Msg("Migrations completed")
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
	return nil
}
