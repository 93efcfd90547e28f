package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"productiondb/db"
	"productiondb/forecast"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	envPrefix     = "PRODUCTIONDB"
	dbPathKey     = "db"
	defaultDBPath = "production.db"
)

func main() {
	var productID uint
	var csvPath string

	zl, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	logger := zl.Sugar()
	defer func() { _ = logger.Sync() }()

	rootCmd := &cobra.Command{
		Use:   "forecast",
		Short: "Predict demand for a product and the raw materials it needs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), viper.GetString(dbPathKey), productID, csvPath, cmd.OutOrStdout(), logger)
		},
	}

	rootCmd.Flags().String(dbPathKey, defaultDBPath, "Path to SQLite database file")
	rootCmd.Flags().UintVar(&productID, "product", 0, "Product ID to forecast")
	rootCmd.Flags().StringVar(&csvPath, "csv", "", "Also write the forecast to this CSV file")
	if err := rootCmd.MarkFlagRequired("product"); err != nil {
		logger.Fatalf("marking flag product required: %v", err)
	}

	if err := viper.BindPFlag(dbPathKey, rootCmd.Flags().Lookup(dbPathKey)); err != nil {
		logger.Fatalf("binding flag %s: %v", dbPathKey, err)
	}
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Fatalf("command failed: %v", err)
	}
}

func run(ctx context.Context, dbPath string, productID uint, csvPath string, out io.Writer, logger *zap.SugaredLogger) error {
	conn, err := db.OpenExistingSQLite(dbPath, logger)
	if err != nil {
		return err
	}
	defer func() {
		sqlDB, err := conn.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			logger.Warnf("failed to close database %s: %v", dbPath, err)
		}
	}()

	report, err := forecast.NewForecaster(db.NewSQLStore(conn, logger), logger).ForProduct(ctx, productID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Predicted Demand: %s\n", report.PredictedDemand)
	fmt.Fprintln(out, "Required Materials:")
	for _, m := range report.Materials {
		fmt.Fprintf(out, "  %-15s %s\n", m.RawMaterial, m.Quantity)
	}

	if csvPath == "" {
		return nil
	}
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", csvPath, err)
	}
	if err := forecast.WriteCSV(f, report); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", csvPath, err)
	}
	logger.Infof("forecast written to %s", csvPath)
	return nil
}
