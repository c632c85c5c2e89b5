package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"geodata-upload-backend/internal/config"
	"geodata-upload-backend/internal/logger"
	"geodata-upload-backend/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.InitLogger(cfg)

	fixture := flag.String("file", cfg.FixtureFile, "path to the social media posts fixture (JSON array)")
	flag.Parse()

	if err := run(cfg, *fixture); err != nil {
		logger.Error("Population failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, fixture string) error {
	logger.Info("Attempting to connect to MongoDB...")
	client, err := config.NewMongoClient(cfg)
	if err != nil {
		return err
	}
	defer config.DisconnectMongoDB(client)

	if err := config.PingMongoDB(client, cfg.MongoTimeout); err != nil {
		return fmt.Errorf("please ensure your MongoDB server is running: %w", err)
	}
	logger.Info("Successfully connected to MongoDB", "database", cfg.DBName)

	loader := services.NewFixtureLoader(client.Database(cfg.DBName), cfg.PostsCollection, cfg.MongoTimeout, nil)
	result, err := loader.Populate(context.Background(), fixture)
	if err != nil {
		return err
	}

	if result.Skipped {
		fmt.Printf("Database already contains %d posts. Skipping population.\n", result.Existing)
		return nil
	}
	fmt.Printf("Inserted %d posts into %s.%s\n", result.Inserted, cfg.DBName, cfg.PostsCollection)
	return nil
}
