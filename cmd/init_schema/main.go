package main

import (
	"context"
	"log"

	"productiondb/db"

	"go.uber.org/zap"
)

func main() {
	// Creates the schema only, for tools that load their own data
	dbPath := "production.db"

	zl, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	logger := zl.Sugar()
	defer func() { _ = logger.Sync() }()

	seeder, err := db.Initialize(context.Background(), dbPath, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	if err := seeder.Finalize(); err != nil {
		logger.Fatalf("Failed to close database: %v", err)
	}

	logger.Infof("Database schema initialized at %s. No seed data loaded.", dbPath)
}
