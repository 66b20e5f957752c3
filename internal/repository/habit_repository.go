package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HabitFilter narrows habit queries. Zero fields are ignored.
type HabitFilter struct {
	UserID   primitive.ObjectID
	ActiveAt time.Time
}

// BSON builds the MongoDB filter document. ActiveAt selects habits whose
// window [start_date, end_date] contains that instant.
func (f HabitFilter) BSON() bson.M {
	filter := bson.M{}
	if !f.UserID.IsZero() {
		filter["user_id"] = f.UserID
	}
	if !f.ActiveAt.IsZero() {
		filter["start_date"] = bson.M{"$lte": f.ActiveAt}
		filter["end_date"] = bson.M{"$gte": f.ActiveAt}
	}
	return filter
}

// HabitRepository struct handles database operations related to habits
type HabitRepository struct {
	collection *mongo.Collection
}

// NewHabitRepository creates a new instance of HabitRepository
func NewHabitRepository(db *mongo.Database) *HabitRepository {
	return &HabitRepository{
		collection: db.Collection("habits"),
	}
}

// CreateHabit creates a new habit in the database
func (r *HabitRepository) CreateHabit(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	habit.CreatedAt = time.Now()
	habit.UpdatedAt = habit.CreatedAt

	result, err := r.collection.InsertOne(ctx, habit)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert habit")
		return nil, fmt.Errorf("failed to insert habit: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	habit.ID = insertedID

	logger.Log.WithField("habit_id", habit.ID.Hex()).Info("Habit created successfully")
	return habit, nil
}

// GetHabitByID fetches a habit by its ID
func (r *HabitRepository) GetHabitByID(ctx context.Context, id primitive.ObjectID) (*models.Habit, error) {
	var habit models.Habit

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&habit)
	if err != nil {
		logger.Log.WithError(err).WithField("habit_id", id.Hex()).Warn("Failed to find habit by ID")
		return nil, translate(err)
	}
	return &habit, nil
}

// FindHabits returns the habits matching filter, newest first.
func (r *HabitRepository) FindHabits(ctx context.Context, filter HabitFilter) ([]models.Habit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter.BSON(), opts)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch habits")
		return nil, fmt.Errorf("failed to fetch habits: %w", err)
	}
	defer cursor.Close(ctx)

	habits := []models.Habit{}
	for cursor.Next(ctx) {
		var habit models.Habit
		if err := cursor.Decode(&habit); err != nil {
			logger.Log.WithError(err).Error("Failed to decode habit")
			return nil, fmt.Errorf("failed to decode habit: %w", err)
		}
		habits = append(habits, habit)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("habit cursor failed: %w", err)
	}

	logger.Log.WithField("count", len(habits)).Debug("Habits fetched")
	return habits, nil
}

// habitUpdate sets the fields owned by the habit endpoints. The scheduler's
// notification flags are written only by UpdateNotificationState.
func habitUpdate(habit *models.Habit) bson.M {
	return bson.M{"$set": bson.M{
		"name":            habit.Name,
		"description":     habit.Description,
		"category":        habit.Category,
		"start_date":      habit.StartDate,
		"end_date":        habit.EndDate,
		"completed_dates": habit.CompletedDates,
		"streak":          habit.Streak,
		"missed_days":     habit.MissedDays,
		"reminder_time":   habit.ReminderTime,
		"updated_at":      habit.UpdatedAt,
	}}
}

// UpdateHabit replaces the mutable fields of a habit.
func (r *HabitRepository) UpdateHabit(ctx context.Context, habit *models.Habit) error {
	habit.UpdatedAt = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": habit.ID}, habitUpdate(habit))
	if err != nil {
		logger.Log.WithError(err).WithField("habit_id", habit.ID.Hex()).Error("Failed to update habit")
		return fmt.Errorf("failed to update habit: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	logger.Log.WithField("habit_id", habit.ID.Hex()).Debug("Habit updated")
	return nil
}

// streakResetFilter matches the habit only while it still holds a streak
// and has no completion at or after doneSince.
func streakResetFilter(id primitive.ObjectID, doneSince time.Time) bson.M {
	return bson.M{
		"_id":             id,
		"streak":          bson.M{"$gt": 0},
		"completed_dates": bson.M{"$not": bson.M{"$gte": doneSince}},
	}
}

// ResetStreak zeroes the streak of a habit not completed since doneSince.
// It reports false when a completion or reset got there first.
func (r *HabitRepository) ResetStreak(ctx context.Context, id primitive.ObjectID, doneSince time.Time) (bool, error) {
	update := bson.M{"$set": bson.M{"streak": 0, "updated_at": time.Now()}}

	result, err := r.collection.UpdateOne(ctx, streakResetFilter(id, doneSince), update)
	if err != nil {
		logger.Log.WithError(err).WithField("habit_id", id.Hex()).Error("Failed to reset habit streak")
		return false, fmt.Errorf("failed to reset streak: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

// UpdateNotificationState writes only the scheduler's per-day flags so a
// concurrent completion of the same habit is not overwritten.
func (r *HabitRepository) UpdateNotificationState(ctx context.Context, id primitive.ObjectID, state models.NotificationState) error {
	update := bson.M{"$set": bson.M{
		"reminder_sent_today":    state.ReminderSentToday,
		"missed_email_sent":      state.MissedEmailSent,
		"last_missed_email_date": state.LastMissedEmailDate,
		"last_flag_reset_date":   state.LastFlagResetDate,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		logger.Log.WithError(err).WithField("habit_id", id.Hex()).Error("Failed to update habit notification state")
		return fmt.Errorf("failed to update notification state: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteHabit deletes a habit from the database by its ID
func (r *HabitRepository) DeleteHabit(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("habit_id", id.Hex()).Error("Failed to delete habit")
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	logger.Log.WithField("habit_id", id.Hex()).Info("Habit deleted successfully")
	return nil
}
