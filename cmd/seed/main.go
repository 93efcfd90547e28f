package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"productiondb/db"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	envPrefix         = "PRODUCTIONDB"
	dbPathKey         = "db"
	defaultDBPath     = "production.db"
	defaultMaxBackups = 5
	backupFileExt     = ".bak"
)

func main() {
	var doBackup bool
	var maxBackups int

	zl, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	logger := zl.Sugar()
	defer func() { _ = logger.Sync() }()

	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the production database schema and load the reference data",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := viper.GetString(dbPathKey)
			if doBackup {
				if _, err := backupExisting(cmd.Context(), dbPath, maxBackups, time.Now(), logger); err != nil {
					return fmt.Errorf("failed to create DB backup: %w", err)
				}
			}
			return run(cmd.Context(), dbPath, logger)
		},
	}

	rootCmd.Flags().String(dbPathKey, defaultDBPath, "Path to SQLite database file")
	rootCmd.Flags().BoolVar(&doBackup, "backup", true, "Whether to create a backup of the database if it exists")
	rootCmd.Flags().IntVar(&maxBackups, "max-backups", defaultMaxBackups, "Maximum number of backups to retain")

	if err := viper.BindPFlag(dbPathKey, rootCmd.Flags().Lookup(dbPathKey)); err != nil {
		logger.Fatalf("binding flag %s: %v", dbPathKey, err)
	}
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // PRODUCTIONDB_DB overrides the default path

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Fatalf("command failed: %v", err)
	}
}

func run(ctx context.Context, dbPath string, logger *zap.SugaredLogger) (err error) {
	seeder, err := db.Initialize(ctx, dbPath, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := seeder.Finalize(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return seeder.Seed(ctx)
}
