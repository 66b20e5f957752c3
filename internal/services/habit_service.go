package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/repository"
	"github.com/Dias221467/Habit_Tracker/internal/streak"
	"github.com/Dias221467/Habit_Tracker/pkg/dayutil"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateHabitInput carries the user supplied fields of a new habit.
type CreateHabitInput struct {
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	StartDate    *dayutil.Date `json:"start_date"`
	EndDate      *dayutil.Date `json:"end_date"`
	ReminderTime string        `json:"reminder_time"`
}

// MarkDoneResult is returned after a completion is recorded.
type MarkDoneResult struct {
	Habit              models.HabitView `json:"habit"`
	AllHabitsCompleted bool             `json:"allHabitsCompleted"`
	CompletedCount     int              `json:"completedCount"`
	TotalHabits        int              `json:"totalHabits"`
	Message            string           `json:"message"`
}

// HabitService encapsulates the business logic for habits.
type HabitService struct {
	repo            HabitStore
	ActivityService *ActivityService
	Now             Clock

	locks keyedMutex
}

// NewHabitService creates a new instance of HabitService.
func NewHabitService(repo HabitStore, activityService *ActivityService) *HabitService {
	return &HabitService{
		repo:            repo,
		ActivityService: activityService,
		Now:             time.Now,
	}
}

// CreateHabit validates the input, applies the defaults and stores the habit.
func (s *HabitService) CreateHabit(ctx context.Context, userID primitive.ObjectID, in CreateHabitInput) (*models.Habit, error) {
	now := s.Now()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		logger.Log.Warn("Habit name is empty during creation")
		return nil, fmt.Errorf("%w: habit name is required", ErrValidation)
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return nil, fmt.Errorf("%w: habit name must not contain control characters", ErrValidation)
	}

	start := now
	if in.StartDate != nil && !in.StartDate.IsZero() {
		start = in.StartDate.Time
	}
	end := dayutil.AddDays(now, models.DefaultHabitDays)
	if in.EndDate != nil && !in.EndDate.IsZero() {
		end = in.EndDate.Time
	}
	if dayutil.Before(end, start) {
		return nil, fmt.Errorf("%w: end date must not be before start date", ErrValidation)
	}

	reminder := in.ReminderTime
	if reminder == "" {
		reminder = models.DefaultReminderTime
	}
	if _, _, err := models.ParseReminderTime(reminder); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	habit := &models.Habit{
		UserID:         userID,
		Name:           name,
		Description:    in.Description,
		Category:       category,
		StartDate:      dayutil.StartOfDay(start),
		EndDate:        dayutil.EndOfDay(end),
		CompletedDates: []time.Time{},
		ReminderTime:   reminder,
	}

	created, err := s.repo.CreateHabit(ctx, habit)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create habit")
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	s.logActivity(ctx, userID, models.ActivityHabitCreated, created.ID, fmt.Sprintf("Created habit: %s", created.Name))
	return created, nil
}

// GetHabits lists the user's habits. Streaks of habits that were done
// neither today nor yesterday are reset and persisted before returning.
func (s *HabitService) GetHabits(ctx context.Context, userID primitive.ObjectID) ([]models.HabitView, error) {
	now := s.Now()

	habits, err := s.repo.FindHabits(ctx, repository.HabitFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habits: %w", err)
	}

	views := make([]models.HabitView, 0, len(habits))
	for _, h := range habits {
		reconciled, changed := streak.Reconcile(h, now)
		if changed {
			applied, err := s.repo.ResetStreak(ctx, h.ID, dayutil.StartOfDay(dayutil.Yesterday(now)))
			if err != nil {
				return nil, fmt.Errorf("failed to reset streak: %w", err)
			}
			if applied {
				logger.Log.WithField("habit_id", h.ID.Hex()).Info("Streak reset after a missed day")
			} else {
				// A completion landed after the read.
				current, err := s.repo.GetHabitByID(ctx, h.ID)
				if err != nil {
					return nil, fmt.Errorf("failed to reload habit: %w", err)
				}
				reconciled, _ = streak.Reconcile(*current, now)
			}
		}
		views = append(views, view(reconciled, now))
	}
	return views, nil
}

// MarkHabitDone records today's completion of a habit.
func (s *HabitService) MarkHabitDone(ctx context.Context, userID primitive.ObjectID, habitID string) (*MarkDoneResult, error) {
	id, err := parseID(habitID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(id.Hex())
	defer unlock()

	habit, err := s.ownedHabit(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	if !streak.IsActive(habit, now) {
		return nil, ErrOutsideWindow
	}
	if streak.DoneOn(habit, now) {
		return nil, ErrAlreadyDone
	}

	// The streak must be evaluated before today is recorded.
	habit.Streak = streak.StreakOnMarkDone(habit, now)
	habit.CompletedDates = append(habit.CompletedDates, now)
	habit.MissedDays = streak.MissedDaysInclusive(habit, now)

	if err := s.repo.UpdateHabit(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to mark habit: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"habit_id": habit.ID.Hex(),
		"streak":   habit.Streak,
	}).Info("Habit marked done")
	s.logActivity(ctx, userID, models.ActivityHabitCompleted, habit.ID, fmt.Sprintf("Completed habit: %s", habit.Name))

	active, err := s.ActiveHabits(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	completed := 0
	for i := range active {
		if streak.DoneOn(&active[i], now) {
			completed++
		}
	}

	result := &MarkDoneResult{
		Habit:              view(*habit, now),
		AllHabitsCompleted: completed == len(active),
		CompletedCount:     completed,
		TotalHabits:        len(active),
		Message:            "Great! Keep going!",
	}
	if result.AllHabitsCompleted {
		result.Message = "All habits completed for today! Check your rewards!"
	}
	return result, nil
}

// ResetHabit clears the completion history and streak of a habit.
func (s *HabitService) ResetHabit(ctx context.Context, userID primitive.ObjectID, habitID string) (*models.Habit, error) {
	id, err := parseID(habitID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(id.Hex())
	defer unlock()

	habit, err := s.ownedHabit(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	habit.Streak = 0
	habit.CompletedDates = []time.Time{}

	if err := s.repo.UpdateHabit(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to reset habit: %w", err)
	}

	s.logActivity(ctx, userID, models.ActivityHabitReset, habit.ID, fmt.Sprintf("Reset habit: %s", habit.Name))
	return habit, nil
}

// DeleteHabit removes a habit owned by userID.
func (s *HabitService) DeleteHabit(ctx context.Context, userID primitive.ObjectID, habitID string) error {
	id, err := parseID(habitID)
	if err != nil {
		return err
	}

	habit, err := s.ownedHabit(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteHabit(ctx, id); err != nil {
		return notFound(err, "habit")
	}

	s.logActivity(ctx, userID, models.ActivityHabitDeleted, habit.ID, fmt.Sprintf("Deleted habit: %s", habit.Name))
	return nil
}

// GetMissedDays counts the days before today on which the habit was not
// completed.
func (s *HabitService) GetMissedDays(ctx context.Context, userID primitive.ObjectID, habitID string) (int, error) {
	id, err := parseID(habitID)
	if err != nil {
		return 0, err
	}

	habit, err := s.ownedHabit(ctx, userID, id)
	if err != nil {
		return 0, err
	}
	return streak.MissedDaysExclusive(habit, s.Now()), nil
}

// ActiveHabits returns the user's habits whose window contains now.
func (s *HabitService) ActiveHabits(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]models.Habit, error) {
	habits, err := s.repo.FindHabits(ctx, repository.HabitFilter{UserID: userID, ActiveAt: now})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active habits: %w", err)
	}
	return habits, nil
}

func (s *HabitService) ownedHabit(ctx context.Context, userID, id primitive.ObjectID) (*models.Habit, error) {
	habit, err := s.repo.GetHabitByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "habit")
	}
	if habit.UserID != userID {
		logger.Log.WithFields(logrus.Fields{
			"user_id":  userID.Hex(),
			"habit_id": id.Hex(),
		}).Warn("Forbidden: user tried to access another user's habit")
		return nil, ErrForbidden
	}
	return habit, nil
}

func (s *HabitService) logActivity(ctx context.Context, userID primitive.ObjectID, kind string, target primitive.ObjectID, message string) {
	if s.ActivityService == nil {
		return
	}
	_ = s.ActivityService.LogActivity(ctx, userID, kind, target, message)
}

func view(h models.Habit, now time.Time) models.HabitView {
	return models.HabitView{Habit: h, DoneToday: streak.DoneOn(&h, now)}
}

func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid ID %q", ErrValidation, hex)
	}
	return id, nil
}
