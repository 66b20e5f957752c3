package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/repository"
	"github.com/Dias221467/Habit_Tracker/internal/streak"
	"github.com/Dias221467/Habit_Tracker/pkg/dayutil"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SettlementResult is the outcome of a daily points settlement.
type SettlementResult struct {
	Points         int                    `json:"points"`
	Streak         int                    `json:"streak"`
	ClaimedRewards []models.ClaimedReward `json:"claimedRewards"`
	Message        string                 `json:"message"`
	AllCompleted   bool                   `json:"allCompleted"`
	CompletedCount int                    `json:"completedCount"`
	TotalHabits    int                    `json:"totalHabits"`
}

// ClaimResult is returned after a reward has been redeemed.
type ClaimResult struct {
	Message       string               `json:"message"`
	NewPoints     int                  `json:"newPoints"`
	ClaimedReward models.ClaimedReward `json:"claimedReward"`
}

// RewardService settles daily points and redeems rewards.
type RewardService struct {
	habits              HabitStore
	users               UserStore
	claims              ClaimedRewardStore
	ActivityService     *ActivityService
	NotificationService *NotificationService
	Now                 Clock

	// userLocks serialises settlements and claims of the same user so
	// concurrent requests cannot award a second point for the same day.
	userLocks keyedMutex
}

func NewRewardService(habits HabitStore, users UserStore, claims ClaimedRewardStore, activityService *ActivityService, notificationService *NotificationService) *RewardService {
	return &RewardService{
		habits:              habits,
		users:               users,
		claims:              claims,
		ActivityService:     activityService,
		NotificationService: notificationService,
		Now:                 time.Now,
	}
}

// Catalog returns the rewards points can be spent on.
func (s *RewardService) Catalog() []models.Reward {
	return models.RewardCatalog
}

// SettleDailyPoints awards one point when every active habit of the user
// is completed today, at most once per calendar day, and recomputes the
// user's all-habits streak. It is safe to call any number of times.
func (s *RewardService) SettleDailyPoints(ctx context.Context, userID primitive.ObjectID) (*SettlementResult, error) {
	unlock := s.userLocks.Lock(userID.Hex())
	defer unlock()

	now := s.Now()

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	claimed, err := s.claims.GetClaimedRewards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch claimed rewards: %w", err)
	}

	habits, err := s.habits.FindHabits(ctx, repository.HabitFilter{UserID: userID, ActiveAt: now})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active habits: %w", err)
	}

	if len(habits) == 0 {
		return &SettlementResult{
			Points:         user.Points,
			Streak:         user.Streak,
			ClaimedRewards: claimed,
			Message:        "No active habits for today",
		}, nil
	}

	completed := 0
	for i := range habits {
		if streak.DoneOn(&habits[i], now) {
			completed++
		}
	}
	allCompleted := completed == len(habits)
	alreadyPaid := user.LastPointDate != nil && dayutil.SameDay(*user.LastPointDate, now)

	// Without a full day yet the last known streak is kept.
	current := user.Streak
	if allCompleted {
		current = streak.AllCompletedStreak(habits, now, streak.MaxBackwardDays)
	}

	result := &SettlementResult{
		ClaimedRewards: claimed,
		CompletedCount: completed,
		TotalHabits:    len(habits),
	}

	if allCompleted && !alreadyPaid {
		today := dayutil.StartOfDay(now)
		user.Points++
		user.Streak = current
		user.LastPointDate = &today

		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update points/streak: %w", err)
		}

		logger.Log.WithFields(logrus.Fields{
			"user_id": userID.Hex(),
			"points":  user.Points,
			"streak":  user.Streak,
		}).Info("Daily point awarded")
		s.notify(ctx, userID, fmt.Sprintf("All habits completed! Your streak is %d day(s).", user.Streak))

		result.Points = user.Points
		result.Streak = user.Streak
		result.AllCompleted = true
		result.Message = "Great job! All habits completed! +1 point awarded."
		return result, nil
	}

	user.Streak = current
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update points/streak: %w", err)
	}

	result.Points = user.Points
	result.Streak = user.Streak
	if alreadyPaid {
		result.Message = "Points already awarded for today"
	} else {
		result.Message = fmt.Sprintf("Complete all habits to earn points! (%d/%d completed)", completed, len(habits))
	}
	return result, nil
}

// ClaimReward spends the user's points on a catalog reward. Each reward
// can be claimed once per user.
func (s *RewardService) ClaimReward(ctx context.Context, userID primitive.ObjectID, rewardID string) (*ClaimResult, error) {
	reward, ok := models.FindReward(rewardID)
	if !ok {
		return nil, fmt.Errorf("reward %w", ErrNotFound)
	}

	unlock := s.userLocks.Lock(userID.Hex())
	defer unlock()

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	if user.Points < reward.PointsRequired {
		return nil, fmt.Errorf("%w: you need %d points but have %d", ErrInsufficientPoints, reward.PointsRequired, user.Points)
	}

	existing, err := s.claims.FindClaimedReward(ctx, userID, reward.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check claimed rewards: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyClaimed
	}

	user.Points -= reward.PointsRequired
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to deduct points: %w", err)
	}

	claim, err := s.claims.CreateClaimedReward(ctx, &models.ClaimedReward{
		UserID:         userID,
		RewardID:       reward.ID,
		RewardTitle:    reward.Title,
		PointsSpent:    reward.PointsRequired,
		RedemptionCode: RedemptionCode(reward.Title),
		Status:         "pending",
		ClaimedAt:      s.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record claimed reward: %w", err)
	}

	if s.ActivityService != nil {
		_ = s.ActivityService.LogActivity(ctx, userID, models.ActivityRewardClaimed, claim.ID, fmt.Sprintf("Claimed reward: %s", reward.Title))
	}

	return &ClaimResult{
		Message:       fmt.Sprintf("Successfully claimed %s!", reward.Title),
		NewPoints:     user.Points,
		ClaimedReward: *claim,
	}, nil
}

// GetClaimedRewards lists the user's redeemed rewards.
func (s *RewardService) GetClaimedRewards(ctx context.Context, userID primitive.ObjectID) ([]models.ClaimedReward, error) {
	return s.claims.GetClaimedRewards(ctx, userID)
}

// RedemptionCode builds a code such as "PRE-3F9A1C2B" from the reward title.
func RedemptionCode(title string) string {
	prefix := strings.ToUpper(strings.Join(strings.Fields(title), ""))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return prefix + "-" + suffix
}

func (s *RewardService) notify(ctx context.Context, userID primitive.ObjectID, message string) {
	if s.NotificationService == nil {
		return
	}
	if err := s.NotificationService.CreateNotification(ctx, userID, models.NotificationPointsAwarded, "+1 point", message, nil); err != nil {
		logger.Log.WithError(err).Warn("Failed to record points notification")
	}
}
