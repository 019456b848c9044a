// Package cmd holds the command line entry points of the affiliate service
package cmd

import (
	"fmt"
	"os"

	"github.com/amirphl/affiliate-rhonat/config"
	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/spf13/cobra"
)

// cfg is loaded once before any subcommand runs
var cfg *config.AppConfig

// RootCmd runs the HTTP server when no subcommand is given
var RootCmd = &cobra.Command{
	Use:   "affiliate",
	Short: "Affiliate click and sale attribution service",
	Long: `Tracks affiliate link clicks, redirects visitors to the product landing page
and attributes later sales to the link through the aff_link_id cookie.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		logging.Init(loggingConfig(cfg.Logging))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Close()
	},
	RunE: runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loggingConfig(c config.LoggingConfig) logging.Config {
	return logging.Config{
		Level:      c.Level,
		Format:     c.Format,
		Output:     c.Output,
		Caller:     c.EnableCaller,
		Timestamp:  true,
		FilePath:   c.FilePath,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}
}
