package config

import (
	"os"
	"strconv"
	"time"

	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the habit tracker server.
type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	JWTSecret   string
	TokenExpiry time.Duration
	FrontendURL string
	LogLevel    string

	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPPassword string
	EmailTimeout time.Duration

	// SchedulerSpec is the cron expression driving the habit notifier.
	SchedulerSpec    string
	SchedulerWorkers int
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Log.Info("No .env file found, using environment variables")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("MONGO_DB", "habit_tracker"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		TokenExpiry: getDuration("TOKEN_EXPIRY", 72*time.Hour),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPSender:   os.Getenv("SMTP_SENDER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailTimeout: getDuration("EMAIL_TIMEOUT", 30*time.Second),

		SchedulerSpec:    getEnv("SCHEDULER_SPEC", "* * * * *"),
		SchedulerWorkers: getInt("SCHEDULER_WORKERS", 1),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Invalid duration in environment, using default")
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		logger.Log.WithField("key", key).Warn("Invalid integer in environment, using default")
		return fallback
	}
	return n
}
