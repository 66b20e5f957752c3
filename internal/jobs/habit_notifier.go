package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/repository"
	"github.com/Dias221467/Habit_Tracker/internal/services"
	"github.com/Dias221467/Habit_Tracker/internal/streak"
	"github.com/Dias221467/Habit_Tracker/pkg/dayutil"
	"github.com/Dias221467/Habit_Tracker/pkg/email"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const defaultEmailTimeout = 30 * time.Second

// TickReport summarises one pass over the active habits.
type TickReport struct {
	Habits        int
	RemindersSent int
	MissedSent    int
	FlagResets    int
	Failures      int
}

// HabitNotifier sends the daily reminder and missed-streak emails of
// active habits and re-arms their flags at day rollover.
type HabitNotifier struct {
	Habits              services.HabitStore
	Users               services.UserStore
	Sender              email.Sender
	NotificationService *services.NotificationService

	// EmailTimeout bounds every single send.
	EmailTimeout time.Duration
	// Workers is the number of habits processed concurrently. Values
	// below 1 mean sequential.
	Workers int
}

// NewHabitNotifier creates a new instance of HabitNotifier
func NewHabitNotifier(habits services.HabitStore, users services.UserStore, sender email.Sender, notifService *services.NotificationService) *HabitNotifier {
	return &HabitNotifier{
		Habits:              habits,
		Users:               users,
		Sender:              sender,
		NotificationService: notifService,
		EmailTimeout:        defaultEmailTimeout,
		Workers:             1,
	}
}

type tickCounters struct {
	reminders, missed, resets, failures atomic.Int64
}

// OnTick runs one scheduler pass at now. Errors are logged and never
// returned; the next tick retries whatever did not go through.
func (n *HabitNotifier) OnTick(ctx context.Context, now time.Time) TickReport {
	now = now.In(dayutil.Location)

	habits, err := n.Habits.FindHabits(ctx, repository.HabitFilter{ActiveAt: now})
	if err != nil {
		logger.Log.WithError(err).Error("Scheduler failed to fetch active habits")
		return TickReport{Failures: 1}
	}
	if len(habits) == 0 {
		return TickReport{}
	}

	owners, err := n.owners(ctx, habits)
	if err != nil {
		logger.Log.WithError(err).Error("Scheduler failed to fetch habit owners")
		return TickReport{Habits: len(habits), Failures: 1}
	}

	var counters tickCounters
	workers := n.Workers
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range habits {
		habit := habits[i]
		owner, ok := owners[habit.UserID]
		if !ok || owner.Email == "" {
			logger.Log.WithFields(logrus.Fields{
				"habit_id": habit.ID.Hex(),
				"user_id":  habit.UserID.Hex(),
			}).Warn("Skipping habit without a reachable owner")
			continue
		}
		g.Go(func() error {
			n.processHabit(ctx, now, &habit, owner, &counters)
			return nil
		})
	}
	_ = g.Wait()

	report := TickReport{
		Habits:        len(habits),
		RemindersSent: int(counters.reminders.Load()),
		MissedSent:    int(counters.missed.Load()),
		FlagResets:    int(counters.resets.Load()),
		Failures:      int(counters.failures.Load()),
	}
	if report.RemindersSent+report.MissedSent+report.FlagResets+report.Failures > 0 {
		logger.Log.WithFields(logrus.Fields{
			"habits":    report.Habits,
			"reminders": report.RemindersSent,
			"missed":    report.MissedSent,
			"resets":    report.FlagResets,
			"failures":  report.Failures,
		}).Info("Scheduler tick completed")
	}
	return report
}

func (n *HabitNotifier) owners(ctx context.Context, habits []models.Habit) (map[primitive.ObjectID]models.User, error) {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, h := range habits {
		if !seen[h.UserID] {
			seen[h.UserID] = true
			ids = append(ids, h.UserID)
		}
	}

	users, err := n.Users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	owners := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		owners[u.ID] = u
	}
	return owners, nil
}

// processHabit evaluates the three checks of one habit against the flags
// it had when the tick started.
func (n *HabitNotifier) processHabit(ctx context.Context, now time.Time, habit *models.Habit, owner models.User, c *tickCounters) {
	log := logger.Log.WithFields(logrus.Fields{
		"habit_id": habit.ID.Hex(),
		"user_id":  habit.UserID.Hex(),
	})
	loaded := habit.Notifications
	state := loaded

	due, err := loaded.ReminderDue(now, habit.ReminderTime)
	if err != nil {
		log.WithError(err).Warn("Habit has an invalid reminder time")
	}
	if due {
		subject, body := reminderMessage(habit, owner)
		if n.send(ctx, owner.Email, subject, body, log) {
			state.MarkReminderSent()
			if n.persist(ctx, habit.ID, state, log) {
				c.reminders.Add(1)
				n.record(ctx, habit, models.NotificationHabitReminder, subject, body)
			} else {
				c.failures.Add(1)
			}
		} else {
			c.failures.Add(1)
		}
	}

	yesterday := dayutil.Yesterday(now)
	yesterdayKey := dayutil.DayKey(yesterday)
	if loaded.MissedDue(streak.DoneOn(habit, yesterday), yesterdayKey) {
		subject, body := missedMessage(habit, owner)
		if n.send(ctx, owner.Email, subject, body, log) {
			state.MarkMissedSent(yesterdayKey)
			if n.persist(ctx, habit.ID, state, log) {
				c.missed.Add(1)
				n.record(ctx, habit, models.NotificationHabitMissed, subject, body)
			} else {
				c.failures.Add(1)
			}
		} else {
			c.failures.Add(1)
		}
	}

	todayKey := dayutil.DayKey(now)
	if loaded.NeedsReset(todayKey) {
		state.Reset(todayKey)
		if n.persist(ctx, habit.ID, state, log) {
			c.resets.Add(1)
		} else {
			c.failures.Add(1)
		}
	}
}

func (n *HabitNotifier) send(ctx context.Context, to, subject, body string, log *logrus.Entry) bool {
	timeout := n.EmailTimeout
	if timeout <= 0 {
		timeout = defaultEmailTimeout
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := n.Sender.Send(sendCtx, to, subject, body); err != nil {
		log.WithError(err).WithField("subject", subject).Error("Failed to send habit email")
		return false
	}
	log.WithField("subject", subject).Info("Habit email sent")
	return true
}

func (n *HabitNotifier) persist(ctx context.Context, id primitive.ObjectID, state models.NotificationState, log *logrus.Entry) bool {
	if err := n.Habits.UpdateNotificationState(ctx, id, state); err != nil {
		log.WithError(err).Error("Failed to persist notification flags")
		return false
	}
	return true
}

func (n *HabitNotifier) record(ctx context.Context, habit *models.Habit, kind, title, message string) {
	if n.NotificationService == nil {
		return
	}
	id := habit.ID
	if err := n.NotificationService.CreateNotification(ctx, habit.UserID, kind, title, message, &id); err != nil {
		logger.Log.WithError(err).Warn("Failed to record notification")
	}
}

func reminderMessage(habit *models.Habit, owner models.User) (subject, body string) {
	subject = fmt.Sprintf("Reminder: %s", habit.Name)
	body = fmt.Sprintf("Hi %s,\n\nThis is your daily reminder to complete your habit \"%s\".\n", owner.Name, habit.Name)
	if habit.Description != "" {
		body += fmt.Sprintf("\n%s\n", habit.Description)
	}
	body += fmt.Sprintf("\nCurrent streak: %d day(s). Keep it going!\n", habit.Streak)
	return subject, body
}

func missedMessage(habit *models.Habit, owner models.User) (subject, body string) {
	subject = fmt.Sprintf("You missed %s yesterday", habit.Name)
	body = fmt.Sprintf("Hi %s,\n\nYou did not complete \"%s\" yesterday, so your streak has been broken.\n"+
		"Mark it done today to start a new one.\n", owner.Name, habit.Name)
	return subject, body
}
