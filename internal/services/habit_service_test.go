package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/testutil"
	"github.com/Dias221467/Habit_Tracker/pkg/dayutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// day0 is the first day of every test habit window.
var day0 = time.Date(2025, 6, 2, 0, 0, 0, 0, dayutil.Location)

func onDay(n, hour int) time.Time {
	return dayutil.AddDays(day0, n).Add(time.Duration(hour) * time.Hour)
}

func newWeekHabit(userID primitive.ObjectID, name string, completed ...int) models.Habit {
	h := models.Habit{
		UserID:         userID,
		Name:           name,
		Category:       models.DefaultCategory,
		StartDate:      dayutil.StartOfDay(day0),
		EndDate:        dayutil.EndOfDay(dayutil.AddDays(day0, 6)),
		ReminderTime:   models.DefaultReminderTime,
		CompletedDates: []time.Time{},
	}
	for _, n := range completed {
		h.CompletedDates = append(h.CompletedDates, onDay(n, 8))
	}
	return h
}

type habitFixture struct {
	svc        *HabitService
	habits     *testutil.HabitStore
	activities *testutil.ActivityStore
	clock      *testutil.FakeClock
	userID     primitive.ObjectID
}

func newHabitFixture(now time.Time) *habitFixture {
	f := &habitFixture{
		habits:     testutil.NewHabitStore(),
		activities: testutil.NewActivityStore(),
		clock:      testutil.NewFakeClock(now),
		userID:     primitive.NewObjectID(),
	}
	f.svc = NewHabitService(f.habits, NewActivityService(f.activities))
	f.svc.Now = f.clock.Now
	return f
}

func TestCreateHabitAppliesDefaults(t *testing.T) {
	f := newHabitFixture(onDay(0, 10))

	h, err := f.svc.CreateHabit(context.Background(), f.userID, CreateHabitInput{Name: "  Read  "})
	require.NoError(t, err)

	assert.Equal(t, "Read", h.Name)
	assert.Equal(t, models.DefaultCategory, h.Category)
	assert.Equal(t, models.DefaultReminderTime, h.ReminderTime)
	assert.Equal(t, 0, h.Streak)
	assert.Empty(t, h.CompletedDates)
	assert.Equal(t, models.NotificationState{}, h.Notifications)
	assert.Equal(t, dayutil.StartOfDay(onDay(0, 0)), h.StartDate)
	assert.Equal(t, dayutil.EndOfDay(onDay(7, 0)), h.EndDate)

	activities, _ := f.activities.GetUserActivities(context.Background(), f.userID, 10)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityHabitCreated, activities[0].Type)
}

func TestCreateHabitValidation(t *testing.T) {
	f := newHabitFixture(onDay(0, 10))
	start := dayutil.Date{Time: onDay(3, 0)}
	end := dayutil.Date{Time: onDay(1, 0)}

	tests := []struct {
		name  string
		input CreateHabitInput
	}{
		{"missing name", CreateHabitInput{Name: " "}},
		{"end before start", CreateHabitInput{Name: "Run", StartDate: &start, EndDate: &end}},
		{"bad reminder time", CreateHabitInput{Name: "Run", ReminderTime: "7 o'clock"}},
		{"name with CRLF", CreateHabitInput{Name: "Read\r\nBcc: victim@evil.test"}},
		{"name with tab", CreateHabitInput{Name: "Read\tdaily"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateHabit(context.Background(), f.userID, tt.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestMarkHabitDoneTwiceSameDayIsRejected(t *testing.T) {
	f := newHabitFixture(onDay(0, 9))
	h := f.habits.Put(newWeekHabit(f.userID, "Read"))

	res, err := f.svc.MarkHabitDone(context.Background(), f.userID, h.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Habit.Streak)
	assert.True(t, res.Habit.DoneToday)

	before := f.habits.Get(h.ID)
	updates := f.habits.Updates

	f.clock.Set(onDay(0, 21))
	_, err = f.svc.MarkHabitDone(context.Background(), f.userID, h.ID.Hex())
	assert.ErrorIs(t, err, ErrAlreadyDone)

	assert.Equal(t, before, f.habits.Get(h.ID), "no state change")
	assert.Equal(t, updates, f.habits.Updates)
}

func TestMarkHabitDoneOutsideWindow(t *testing.T) {
	f := newHabitFixture(onDay(7, 9))
	h := f.habits.Put(newWeekHabit(f.userID, "Read"))

	_, err := f.svc.MarkHabitDone(context.Background(), f.userID, h.ID.Hex())
	assert.ErrorIs(t, err, ErrOutsideWindow)

	f.clock.Set(onDay(-1, 23))
	_, err = f.svc.MarkHabitDone(context.Background(), f.userID, h.ID.Hex())
	assert.ErrorIs(t, err, ErrOutsideWindow)
	assert.Equal(t, 0, f.habits.Updates)
}

func TestMarkHabitDoneOtherUsersHabit(t *testing.T) {
	f := newHabitFixture(onDay(0, 9))
	h := f.habits.Put(newWeekHabit(primitive.NewObjectID(), "Read"))

	_, err := f.svc.MarkHabitDone(context.Background(), f.userID, h.ID.Hex())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 0, f.habits.Updates)
}

func TestMarkHabitDoneUnknownOrInvalidID(t *testing.T) {
	f := newHabitFixture(onDay(0, 9))

	_, err := f.svc.MarkHabitDone(context.Background(), f.userID, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.MarkHabitDone(context.Background(), f.userID, "nope")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSkippedDayScenario(t *testing.T) {
	// Completed D0, D1 and D3; D2 skipped.
	f := newHabitFixture(onDay(0, 9))
	h := f.habits.Put(newWeekHabit(f.userID, "Read"))
	ctx := context.Background()

	for _, d := range []int{0, 1} {
		f.clock.Set(onDay(d, 9))
		_, err := f.svc.MarkHabitDone(ctx, f.userID, h.ID.Hex())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, f.habits.Get(h.ID).Streak)

	f.clock.Set(onDay(3, 7))
	views, err := f.svc.GetHabits(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 0, views[0].Streak, "gap at D2 resets the streak on read")
	assert.Equal(t, 0, f.habits.Get(h.ID).Streak, "reset is persisted")

	f.clock.Set(onDay(3, 9))
	res, err := f.svc.MarkHabitDone(ctx, f.userID, h.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Habit.Streak)
	assert.Equal(t, 1, res.Habit.MissedDays)

	missed, err := f.svc.GetMissedDays(ctx, f.userID, h.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, missed)
}

func TestMarkHabitDoneContinuesStreak(t *testing.T) {
	f := newHabitFixture(onDay(2, 9))
	habit := newWeekHabit(f.userID, "Read", 0, 1)
	habit.Streak = 2
	h := f.habits.Put(habit)

	res, err := f.svc.MarkHabitDone(context.Background(), f.userID, h.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Habit.Streak)
	assert.Equal(t, 0, res.Habit.MissedDays)
}

func TestMarkHabitDoneReportsAggregate(t *testing.T) {
	f := newHabitFixture(onDay(1, 9))
	read := f.habits.Put(newWeekHabit(f.userID, "Read"))
	run := f.habits.Put(newWeekHabit(f.userID, "Run"))
	f.habits.Put(newWeekHabit(primitive.NewObjectID(), "Someone else's"))
	ctx := context.Background()

	res, err := f.svc.MarkHabitDone(ctx, f.userID, read.ID.Hex())
	require.NoError(t, err)
	assert.False(t, res.AllHabitsCompleted)
	assert.Equal(t, 1, res.CompletedCount)
	assert.Equal(t, 2, res.TotalHabits)

	res, err = f.svc.MarkHabitDone(ctx, f.userID, run.ID.Hex())
	require.NoError(t, err)
	assert.True(t, res.AllHabitsCompleted)
	assert.Equal(t, 2, res.CompletedCount)
}

func TestGetHabitsPersistsOnlyChangedHabits(t *testing.T) {
	f := newHabitFixture(onDay(3, 12))
	fresh := newWeekHabit(f.userID, "Fresh", 2)
	fresh.Streak = 1
	stale := newWeekHabit(f.userID, "Stale", 0)
	stale.Streak = 1
	f.habits.Put(fresh)
	staleStored := f.habits.Put(stale)
	f.habits.Put(newWeekHabit(f.userID, "Never done"))

	views, err := f.svc.GetHabits(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, 1, f.habits.StreakResets)
	assert.Equal(t, 0, f.habits.Updates)
	assert.Equal(t, 0, f.habits.Get(staleStored.ID).Streak)
	for _, v := range views {
		if v.Name == "Fresh" {
			assert.Equal(t, 1, v.Streak)
			assert.False(t, v.DoneToday)
		}
	}
}

func TestResetHabit(t *testing.T) {
	f := newHabitFixture(onDay(2, 12))
	habit := newWeekHabit(f.userID, "Read", 0, 1, 2)
	habit.Streak = 3
	h := f.habits.Put(habit)

	reset, err := f.svc.ResetHabit(context.Background(), f.userID, h.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 0, reset.Streak)
	assert.Empty(t, f.habits.Get(h.ID).CompletedDates)

	_, err = f.svc.ResetHabit(context.Background(), primitive.NewObjectID(), h.ID.Hex())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteHabit(t *testing.T) {
	f := newHabitFixture(onDay(0, 12))
	h := f.habits.Put(newWeekHabit(f.userID, "Read"))
	ctx := context.Background()

	err := f.svc.DeleteHabit(ctx, primitive.NewObjectID(), h.ID.Hex())
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.svc.DeleteHabit(ctx, f.userID, h.ID.Hex()))

	_, err = f.habits.GetHabitByID(ctx, h.ID)
	assert.Error(t, err)

	err = f.svc.DeleteHabit(ctx, f.userID, h.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentMarkDoneRecordsOneCompletion(t *testing.T) {
	f := newHabitFixture(onDay(1, 9))
	h := f.habits.Put(newWeekHabit(f.userID, "Read"))

	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			_, err := f.svc.MarkHabitDone(context.Background(), f.userID, h.ID.Hex())
			errs <- err
		}()
	}

	ok := 0
	for i := 0; i < 20; i++ {
		if err := <-errs; err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyDone)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Len(t, f.habits.Get(h.ID).CompletedDates, 1)
}

// hookedHabitStore runs a callback between the service's read and its
// write so concurrent requests can be interleaved deterministically.
type hookedHabitStore struct {
	*testutil.HabitStore
	beforeReset  func()
	afterGetByID func()
}

func (s *hookedHabitStore) ResetStreak(ctx context.Context, id primitive.ObjectID, doneSince time.Time) (bool, error) {
	if s.beforeReset != nil {
		hook := s.beforeReset
		s.beforeReset = nil
		hook()
	}
	return s.HabitStore.ResetStreak(ctx, id, doneSince)
}

func (s *hookedHabitStore) GetHabitByID(ctx context.Context, id primitive.ObjectID) (*models.Habit, error) {
	h, err := s.HabitStore.GetHabitByID(ctx, id)
	if s.afterGetByID != nil {
		hook := s.afterGetByID
		s.afterGetByID = nil
		hook()
	}
	return h, err
}

func TestStreakDecayDoesNotEraseConcurrentCompletion(t *testing.T) {
	f := newHabitFixture(onDay(3, 12))
	store := &hookedHabitStore{HabitStore: f.habits}
	f.svc = NewHabitService(store, NewActivityService(f.activities))
	f.svc.Now = f.clock.Now

	habit := newWeekHabit(f.userID, "Read", 0, 1)
	habit.Streak = 2
	h := f.habits.Put(habit)
	ctx := context.Background()

	store.beforeReset = func() {
		_, err := f.svc.MarkHabitDone(ctx, f.userID, h.ID.Hex())
		require.NoError(t, err)
	}

	views, err := f.svc.GetHabits(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].DoneToday)
	assert.Equal(t, 1, views[0].Streak)

	stored := f.habits.Get(h.ID)
	assert.Len(t, stored.CompletedDates, 3)
	assert.Equal(t, 1, stored.Streak)
	assert.Equal(t, 0, f.habits.StreakResets)
}

func TestHabitWriteKeepsSchedulerFlags(t *testing.T) {
	f := newHabitFixture(onDay(1, 9))
	store := &hookedHabitStore{HabitStore: f.habits}
	f.svc = NewHabitService(store, NewActivityService(f.activities))
	f.svc.Now = f.clock.Now

	h := f.habits.Put(newWeekHabit(f.userID, "Read", 0))
	ctx := context.Background()
	sent := models.NotificationState{
		ReminderSentToday:   true,
		MissedEmailSent:     true,
		LastMissedEmailDate: dayutil.DayKey(onDay(0, 0)),
		LastFlagResetDate:   dayutil.DayKey(onDay(1, 0)),
	}

	store.afterGetByID = func() {
		require.NoError(t, f.habits.UpdateNotificationState(ctx, h.ID, sent))
	}

	_, err := f.svc.MarkHabitDone(ctx, f.userID, h.ID.Hex())
	require.NoError(t, err)

	stored := f.habits.Get(h.ID)
	assert.Len(t, stored.CompletedDates, 2)
	assert.Equal(t, sent, stored.Notifications)
}
