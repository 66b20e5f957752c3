package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. It falls back to the logrus
// standard logger until InitLogger is called.
var Log = logrus.StandardLogger()

func InitLogger(level string) {
	Log = logrus.New()

	// Output to stdout instead of the default stderr
	Log.Out = os.Stdout

	// Set JSON formatter for structured logging
	Log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
}
