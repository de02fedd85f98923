package main

import (
	"context"
	"os"

	"github.com/actinova/admin-backend/internal/config"
	mongorepo "github.com/actinova/admin-backend/internal/repositories/mongodb"
	"github.com/actinova/admin-backend/internal/utils"
	mongodb "github.com/actinova/admin-backend/pkg/mongodb"
	"go.uber.org/zap"
)

// import_users loads learners from a name,email,phone,plan CSV file.
//
//	go run ./cmd/scripts/import_users users.csv
func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if len(os.Args) < 2 {
		logger.Fatal("CSV file path is required as a command line argument")
	}
	csvFilePath := os.Args[1]

	cfg, err := config.Load(".")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()
	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	file, err := os.Open(csvFilePath)
	if err != nil {
		logger.Fatal("Failed to open CSV file", zap.String("path", csvFilePath), zap.Error(err))
	}
	defer file.Close()

	users := mongorepo.NewUserRepository(client.Database(cfg.MongoDB.Database))
	result, err := utils.NewCSVImporter(users, logger).ImportUsers(ctx, file)
	if err != nil {
		logger.Error("Import aborted", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Users imported",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
}
