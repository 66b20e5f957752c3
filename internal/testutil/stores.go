// Package testutil provides in-memory stores and helpers for tests of the
// service, job and handler packages.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HabitStore keeps habits in memory. Values are copied on the way in and
// out so callers cannot mutate stored state without saving it.
type HabitStore struct {
	mu     sync.Mutex
	habits map[primitive.ObjectID]models.Habit
	order  []primitive.ObjectID

	// FindErr, when set, is returned by FindHabits.
	FindErr error
	// StateErr maps habit IDs to errors returned by UpdateNotificationState.
	StateErr map[primitive.ObjectID]error

	Updates      int
	StateUpdates int
	StreakResets int
}

func NewHabitStore(habits ...models.Habit) *HabitStore {
	s := &HabitStore{
		habits:   map[primitive.ObjectID]models.Habit{},
		StateErr: map[primitive.ObjectID]error{},
	}
	for _, h := range habits {
		s.Put(h)
	}
	return s
}

// Put stores h as is, assigning an ID when it has none.
func (s *HabitStore) Put(h models.Habit) models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID.IsZero() {
		h.ID = primitive.NewObjectID()
	}
	if _, ok := s.habits[h.ID]; !ok {
		s.order = append(s.order, h.ID)
	}
	s.habits[h.ID] = copyHabit(h)
	return h
}

// Get returns the stored copy of a habit.
func (s *HabitStore) Get(id primitive.ObjectID) models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyHabit(s.habits[id])
}

func (s *HabitStore) CreateHabit(_ context.Context, habit *models.Habit) (*models.Habit, error) {
	habit.CreatedAt = time.Now()
	habit.UpdatedAt = habit.CreatedAt
	*habit = s.Put(*habit)
	return habit, nil
}

func (s *HabitStore) GetHabitByID(_ context.Context, id primitive.ObjectID) (*models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.habits[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := copyHabit(h)
	return &c, nil
}

func (s *HabitStore) FindHabits(_ context.Context, filter repository.HabitFilter) ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}

	result := []models.Habit{}
	for _, id := range s.order {
		h, ok := s.habits[id]
		if !ok {
			continue
		}
		if !filter.UserID.IsZero() && h.UserID != filter.UserID {
			continue
		}
		if !filter.ActiveAt.IsZero() && (h.StartDate.After(filter.ActiveAt) || h.EndDate.Before(filter.ActiveAt)) {
			continue
		}
		result = append(result, copyHabit(h))
	}
	return result, nil
}

func (s *HabitStore) UpdateHabit(_ context.Context, habit *models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[habit.ID]; !ok {
		return repository.ErrNotFound
	}
	habit.UpdatedAt = time.Now()
	updated := copyHabit(*habit)
	updated.Notifications = s.habits[habit.ID].Notifications
	s.habits[habit.ID] = updated
	s.Updates++
	return nil
}

func (s *HabitStore) ResetStreak(_ context.Context, id primitive.ObjectID, doneSince time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.habits[id]
	if !ok || h.Streak <= 0 {
		return false, nil
	}
	for _, d := range h.CompletedDates {
		if !d.Before(doneSince) {
			return false, nil
		}
	}
	h.Streak = 0
	h.UpdatedAt = time.Now()
	s.habits[id] = h
	s.StreakResets++
	return true, nil
}

func (s *HabitStore) UpdateNotificationState(_ context.Context, id primitive.ObjectID, state models.NotificationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.StateErr[id]; err != nil {
		return err
	}
	h, ok := s.habits[id]
	if !ok {
		return repository.ErrNotFound
	}
	h.Notifications = state
	s.habits[id] = h
	s.StateUpdates++
	return nil
}

func (s *HabitStore) DeleteHabit(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.habits, id)
	return nil
}

func copyHabit(h models.Habit) models.Habit {
	if h.CompletedDates != nil {
		h.CompletedDates = append([]time.Time{}, h.CompletedDates...)
	}
	return h
}

// UserStore keeps users in memory.
type UserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User

	Updates int
}

func NewUserStore(users ...models.User) *UserStore {
	s := &UserStore{users: map[primitive.ObjectID]models.User{}}
	for _, u := range users {
		s.Put(u)
	}
	return s
}

func (s *UserStore) Put(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users[u.ID] = u
	return u
}

func (s *UserStore) Get(id primitive.ObjectID) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *UserStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	*user = s.Put(*user)
	return user, nil
}

func (s *UserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			c := u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *UserStore) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Points = user.Points
	stored.Streak = user.Streak
	if user.LastPointDate != nil {
		d := *user.LastPointDate
		stored.LastPointDate = &d
	}
	stored.UpdatedAt = time.Now()
	s.users[user.ID] = stored
	s.Updates++
	return nil
}

func (s *UserStore) UpdatePassword(_ context.Context, id primitive.ObjectID, hashedPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.HashedPassword = hashedPassword
	stored.UpdatedAt = time.Now()
	s.users[id] = stored
	return nil
}

// ClaimedRewardStore keeps claimed rewards in memory.
type ClaimedRewardStore struct {
	mu     sync.Mutex
	claims []models.ClaimedReward
}

func NewClaimedRewardStore() *ClaimedRewardStore {
	return &ClaimedRewardStore{}
}

func (s *ClaimedRewardStore) CreateClaimedReward(_ context.Context, claim *models.ClaimedReward) (*models.ClaimedReward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claim.ID = primitive.NewObjectID()
	s.claims = append(s.claims, *claim)
	return claim, nil
}

func (s *ClaimedRewardStore) FindClaimedReward(_ context.Context, userID primitive.ObjectID, rewardID string) (*models.ClaimedReward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.claims {
		if c.UserID == userID && c.RewardID == rewardID {
			found := c
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *ClaimedRewardStore) GetClaimedRewards(_ context.Context, userID primitive.ObjectID) ([]models.ClaimedReward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []models.ClaimedReward{}
	for _, c := range s.claims {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ClaimedAt.After(result[j].ClaimedAt) })
	return result, nil
}

// NotificationStore keeps notifications in memory.
type NotificationStore struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

// All returns every stored notification in insertion order.
func (s *NotificationStore) All() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification{}, s.notifications...)
}

func (s *NotificationStore) CreateNotification(_ context.Context, notif *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notif.ID = primitive.NewObjectID()
	notif.CreatedAt = time.Now()
	notif.ExpiresAt = notif.CreatedAt.Add(7 * 24 * time.Hour)
	s.notifications = append(s.notifications, *notif)
	return nil
}

func (s *NotificationStore) GetUserNotifications(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []models.Notification{}
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].UserID == userID {
			result = append(result, s.notifications[i])
		}
	}
	return result, nil
}

func (s *NotificationStore) MarkAsRead(_ context.Context, userID, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].UserID == userID {
			s.notifications[i].Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *NotificationStore) DeleteNotification(_ context.Context, userID, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].UserID == userID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *NotificationStore) DeleteExpiredNotifications(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	s.notifications = kept
	return nil
}

// ActivityStore keeps activities in memory.
type ActivityStore struct {
	mu         sync.Mutex
	activities []models.Activity
}

func NewActivityStore() *ActivityStore {
	return &ActivityStore{}
}

func (s *ActivityStore) CreateActivity(_ context.Context, activity *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	activity.ID = primitive.NewObjectID()
	s.activities = append(s.activities, *activity)
	return nil
}

func (s *ActivityStore) GetUserActivities(_ context.Context, userID primitive.ObjectID, limit int) ([]models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []models.Activity{}
	for i := len(s.activities) - 1; i >= 0 && len(result) < limit; i-- {
		if s.activities[i].UserID == userID {
			result = append(result, s.activities[i])
		}
	}
	return result, nil
}
