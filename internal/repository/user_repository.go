package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository handles database operations related to users.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID to ObjectID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	user.ID = insertedID

	logger.Log.WithField("userID", user.ID.Hex()).Info("User inserted successfully")
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"email": email,
			"error": err,
		}).Debug("Failed to find user by email")
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Warn("Failed to find user by ID")
		return nil, translate(err)
	}
	return &user, nil
}

// GetUsersByIDs fetches the users for a list of ObjectIDs. Unknown IDs are
// silently absent from the result.
func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// UpdateUser persists the user's points, streak and last point date.
func (r *UserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	set := bson.M{
		"points":     user.Points,
		"streak":     user.Streak,
		"updated_at": user.UpdatedAt,
	}
	if user.LastPointDate != nil {
		set["last_point_date"] = *user.LastPointDate
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": set})
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"userID": user.ID.Hex(),
			"error":  err,
		}).Error("Failed to update user")
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	logger.Log.WithField("userID", user.ID.Hex()).Debug("User updated successfully")
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	update := bson.M{"$set": bson.M{
		"hashed_password": hashedPassword,
		"updated_at":      time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		logger.Log.WithError(err).WithField("userID", id.Hex()).Error("Failed to update password")
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	logger.Log.WithField("userID", id.Hex()).Info("Password updated")
	return nil
}
