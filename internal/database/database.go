package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/config"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB opens the MongoDB client, verifies it with a ping and makes
// sure the indexes the habit queries rely on exist.
func ConnectDB(cfg *config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.DBName)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	logger.Log.WithField("database", cfg.DBName).Info("Connected to MongoDB")
	return db, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		"habits": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "start_date", Value: 1}, {Key: "end_date", Value: 1}}},
			{Keys: bson.D{{Key: "start_date", Value: 1}, {Key: "end_date", Value: 1}}},
		},
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"claimed_rewards": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "reward_id", Value: 1}}},
			{Keys: bson.D{{Key: "redemption_code", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"notifications": {
			{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
		"activities": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}
	return nil
}
