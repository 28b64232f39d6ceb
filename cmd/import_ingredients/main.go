package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/foodshare/backend/config"
	"github.com/foodshare/backend/internal/database"
	"github.com/foodshare/backend/internal/service"
)

// Loads the ingredient catalog from a name,unit CSV. Meant to run once at
// deployment time; existing (name, unit) rows are left untouched.
func main() {
	path := flag.String("file", "data/ingredients.csv", "path to the ingredients CSV")
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

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	f, err := os.Open(*path)
	if err != nil {
		logger.Fatal("failed to open CSV file", zap.String("path", *path), zap.Error(err))
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2

	var rows [][2]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Fatal("failed to parse CSV", zap.Error(err))
		}
		rows = append(rows, [2]string{record[0], record[1]})
	}

	catalog := service.NewCatalogService(db)
	imported, err := catalog.ImportIngredients(context.Background(), rows)
	if err != nil {
		logger.Fatal("import failed", zap.Int("imported", imported), zap.Error(err))
	}
	logger.Info("ingredients imported", zap.Int("count", imported))
}
