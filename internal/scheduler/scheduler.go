package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/jobs"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DefaultSpec fires the habit tick at the start of every minute.
const DefaultSpec = "* * * * *"

// Ticker is a job run on every scheduler tick.
type Ticker interface {
	OnTick(ctx context.Context, now time.Time) jobs.TickReport
}

// Cleaner removes expired in-app notifications.
type Cleaner interface {
	DeleteExpiredNotifications(ctx context.Context) error
}

// Start registers the habit tick under spec and, when cleaner is not nil,
// a daily purge of expired notifications. The returned cron is already
// running; callers Stop it on shutdown.
func Start(ctx context.Context, ticker Ticker, cleaner Cleaner, spec string) (*cron.Cron, error) {
	if spec == "" {
		spec = DefaultSpec
	}

	log := cronLogger{}
	c := cron.New(
		cron.WithLogger(log),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)

	if _, err := c.AddFunc(spec, func() {
		ticker.OnTick(ctx, time.Now())
	}); err != nil {
		return nil, fmt.Errorf("invalid scheduler spec %q: %w", spec, err)
	}

	if cleaner != nil {
		if _, err := c.AddFunc("@daily", func() {
			if err := cleaner.DeleteExpiredNotifications(ctx); err != nil {
				logger.Log.WithError(err).Error("DeleteExpiredNotifications failed")
			}
		}); err != nil {
			return nil, fmt.Errorf("failed to schedule notification cleanup: %w", err)
		}
	}

	c.Start()
	logger.Log.WithField("spec", spec).Info("Habit scheduler started")
	return c, nil
}
