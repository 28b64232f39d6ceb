package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/foodshare/backend/config"
	"github.com/foodshare/backend/internal/database"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "directory containing SQL migration files")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Verify connectivity over a plain connection before touching schema.
	sqlDB, err := database.NewSQL(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	_ = sqlDB.Close()

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("failed to open gorm connection", zap.Error(err))
	}

	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("migrations applied", zap.String("dir", *migrationsDir))
}
