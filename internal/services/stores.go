package services

import (
	"context"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HabitStore is the persistence the habit logic needs. It is implemented
// by repository.HabitRepository.
type HabitStore interface {
	CreateHabit(ctx context.Context, habit *models.Habit) (*models.Habit, error)
	GetHabitByID(ctx context.Context, id primitive.ObjectID) (*models.Habit, error)
	FindHabits(ctx context.Context, filter repository.HabitFilter) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, habit *models.Habit) error
	ResetStreak(ctx context.Context, id primitive.ObjectID, doneSince time.Time) (bool, error)
	UpdateNotificationState(ctx context.Context, id primitive.ObjectID, state models.NotificationState) error
	DeleteHabit(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error
}

type ClaimedRewardStore interface {
	CreateClaimedReward(ctx context.Context, claim *models.ClaimedReward) (*models.ClaimedReward, error)
	FindClaimedReward(ctx context.Context, userID primitive.ObjectID, rewardID string) (*models.ClaimedReward, error)
	GetClaimedRewards(ctx context.Context, userID primitive.ObjectID) ([]models.ClaimedReward, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, id primitive.ObjectID) error
	DeleteNotification(ctx context.Context, userID, id primitive.ObjectID) error
	DeleteExpiredNotifications(ctx context.Context) error
}

type ActivityStore interface {
	CreateActivity(ctx context.Context, activity *models.Activity) error
	GetUserActivities(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Activity, error)
}

var (
	_ HabitStore         = (*repository.HabitRepository)(nil)
	_ UserStore          = (*repository.UserRepository)(nil)
	_ ClaimedRewardStore = (*repository.ClaimedRewardRepository)(nil)
	_ NotificationStore  = (*repository.NotificationRepository)(nil)
	_ ActivityStore      = (*repository.ActivityRepository)(nil)
)
