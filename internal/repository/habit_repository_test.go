package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestHabitFilterBSON(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter HabitFilter
		want   bson.M
	}{
		{"empty", HabitFilter{}, bson.M{}},
		{"owner only", HabitFilter{UserID: userID}, bson.M{"user_id": userID}},
		{
			"active only",
			HabitFilter{ActiveAt: now},
			bson.M{
				"start_date": bson.M{"$lte": now},
				"end_date":   bson.M{"$gte": now},
			},
		},
		{
			"owner and active",
			HabitFilter{UserID: userID, ActiveAt: now},
			bson.M{
				"user_id":    userID,
				"start_date": bson.M{"$lte": now},
				"end_date":   bson.M{"$gte": now},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.BSON())
		})
	}
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(mongo.ErrNoDocuments), ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("lookup: %w", mongo.ErrNoDocuments)), ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}

func TestHabitUpdateLeavesNotificationFlags(t *testing.T) {
	h := &models.Habit{
		ID:     primitive.NewObjectID(),
		Name:   "Read",
		Streak: 2,
		Notifications: models.NotificationState{
			ReminderSentToday: true,
			MissedEmailSent:   true,
		},
	}

	set, ok := habitUpdate(h)["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "Read", set["name"])
	assert.Equal(t, 2, set["streak"])
	for _, field := range []string{"reminder_sent_today", "missed_email_sent", "last_missed_email_date", "last_flag_reset_date", "_id", "user_id", "created_at"} {
		assert.NotContains(t, set, field)
	}
}

func TestStreakResetFilter(t *testing.T) {
	id := primitive.NewObjectID()
	since := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, bson.M{
		"_id":             id,
		"streak":          bson.M{"$gt": 0},
		"completed_dates": bson.M{"$not": bson.M{"$gte": since}},
	}, streakResetFilter(id, since))
}
