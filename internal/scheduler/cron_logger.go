package scheduler

import (
	"fmt"

	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// cronLogger sends cron's own messages to the application logger. Routine
// cron chatter goes out at debug level.
type cronLogger struct{}

var _ cron.Logger = cronLogger{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Log.WithFields(cronFields(keysAndValues)).Debug("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Log.WithError(err).WithFields(cronFields(keysAndValues)).Error("cron: " + msg)
}

func cronFields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 < len(keysAndValues) {
			fields[key] = keysAndValues[i+1]
		} else {
			fields[key] = nil
		}
	}
	return fields
}
