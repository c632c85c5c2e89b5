package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoClient creates the process-wide client. mongo.Connect does not dial, so a bad
// URI fails here but an unreachable server only shows up in PingMongoDB.
func NewMongoClient(cfg *Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(cfg.MongoTimeout)

	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	return client, nil
}

// PingMongoDB verifies the server is reachable.
func PingMongoDB(client *mongo.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes used for listing uploads and posts by time.
func EnsureIndexes(client *mongo.Client, cfg *Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoTimeout)
	defer cancel()

	db := client.Database(cfg.DBName)
	byTime := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	}

	if _, err := db.Collection(cfg.UploadsCollection).Indexes().CreateMany(ctx, byTime); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", cfg.UploadsCollection, err)
	}
	if _, err := db.Collection(cfg.PostsCollection).Indexes().CreateMany(ctx, byTime); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", cfg.PostsCollection, err)
	}
	return nil
}

// DisconnectMongoDB closes the client, waiting at most ten seconds.
func DisconnectMongoDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
