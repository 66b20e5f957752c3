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

type ClaimedRewardRepository struct {
	collection *mongo.Collection
}

func NewClaimedRewardRepository(db *mongo.Database) *ClaimedRewardRepository {
	return &ClaimedRewardRepository{
		collection: db.Collection("claimed_rewards"),
	}
}

// CreateClaimedReward stores a redemption record.
func (r *ClaimedRewardRepository) CreateClaimedReward(ctx context.Context, claim *models.ClaimedReward) (*models.ClaimedReward, error) {
	result, err := r.collection.InsertOne(ctx, claim)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert claimed reward")
		return nil, fmt.Errorf("failed to insert claimed reward: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		claim.ID = id
	}
	return claim, nil
}

// FindClaimedReward returns the user's claim of rewardID, if any.
func (r *ClaimedRewardRepository) FindClaimedReward(ctx context.Context, userID primitive.ObjectID, rewardID string) (*models.ClaimedReward, error) {
	var claim models.ClaimedReward
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "reward_id": rewardID}).Decode(&claim)
	if err != nil {
		return nil, translate(err)
	}
	return &claim, nil
}

// GetClaimedRewards lists the user's claims, most recent first.
func (r *ClaimedRewardRepository) GetClaimedRewards(ctx context.Context, userID primitive.ObjectID) ([]models.ClaimedReward, error) {
	opts := options.Find().SetSort(bson.D{{Key: "claimed_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch claimed rewards: %w", err)
	}
	defer cursor.Close(ctx)

	claims := []models.ClaimedReward{}
	if err := cursor.All(ctx, &claims); err != nil {
		return nil, fmt.Errorf("failed to decode claimed rewards: %w", err)
	}
	return claims, nil
}
