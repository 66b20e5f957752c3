package repository

import (
	"context"
	"fmt"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityRepository stores the activity feed in the "activities" collection.
type ActivityRepository struct {
	collection *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{collection: db.Collection("activities")}
}

func (r *ActivityRepository) CreateActivity(ctx context.Context, activity *models.Activity) error {
	result, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		logger.Log.WithError(err).WithField("type", activity.Type).Error("Failed to insert activity")
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		activity.ID = id
	}
	return nil
}

// GetUserActivities returns at most limit activities of the user, newest first.
func (r *ActivityRepository) GetUserActivities(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Activity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}
	defer cursor.Close(ctx)

	activities := []models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return activities, nil
}
