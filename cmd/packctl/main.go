// packctl is the operator tool for a pack tracker database: bulk imports,
// change log ID migration, statistics reports and manual value snapshots.
// It works on the SQLite file directly, so stop the server before writing.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/codyseavey/packtracker/internal/config"
	"github.com/codyseavey/packtracker/internal/database"
	"github.com/codyseavey/packtracker/internal/logging"
	"github.com/codyseavey/packtracker/internal/store"
)

var (
	dbFlag  string
	cfg     *config.Config
	rootCmd = &cobra.Command{
		Use:          "packctl",
		Short:        "Maintenance CLI for the pack tracker database",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.New(); err != nil {
				return err
			}
			if dbFlag != "" {
				cfg.DBPath = dbFlag
			}
			logging.Setup(cfg.LogLevel, cfg.LogFormat, "packctl")
			return nil
		},
	}
)

// openStore opens the configured database. The caller closes the returned func.
func openStore() (*gorm.DB, *store.GormStore, func(), error) {
	db, err := database.Open(cfg.DBPath, cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close database")
			}
		}
	}
	return db, store.New(db), closeFn, nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Path to SQLite database (default $PACKTRACKER_DB_PATH)")

	rootCmd.AddCommand(newImportCmd(), newMigrateLogsCmd(), newStatsCmd(), newSnapshotCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
