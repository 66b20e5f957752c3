package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/config"
	"github.com/Dias221467/Habit_Tracker/internal/database"
	"github.com/Dias221467/Habit_Tracker/internal/handlers"
	"github.com/Dias221467/Habit_Tracker/internal/jobs"
	"github.com/Dias221467/Habit_Tracker/internal/repository"
	"github.com/Dias221467/Habit_Tracker/internal/scheduler"
	"github.com/Dias221467/Habit_Tracker/internal/services"
	"github.com/Dias221467/Habit_Tracker/pkg/email"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/Dias221467/Habit_Tracker/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.Log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	claimedRewardRepo := repository.NewClaimedRewardRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// --- Services ---
	activityService := services.NewActivityService(activityRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	userService := services.NewUserService(userRepo)
	habitService := services.NewHabitService(habitRepo, activityService)
	rewardService := services.NewRewardService(habitRepo, userRepo, claimedRewardRepo, activityService, notificationService)

	// --- Scheduler ---
	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.SMTPSender,
		Password: cfg.SMTPPassword,
	})
	notifier := jobs.NewHabitNotifier(habitRepo, userRepo, sender, notificationService)
	notifier.EmailTimeout = cfg.EmailTimeout
	notifier.Workers = cfg.SchedulerWorkers

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cronJobs, err := scheduler.Start(ctx, notifier, notificationService, cfg.SchedulerSpec)
	if err != nil {
		logger.Log.Fatalf("Scheduler error: %v", err)
	}

	// --- Handlers ---
	router := mux.NewRouter()
	handlers.RegisterRoutes(router, handlers.Handlers{
		User:         handlers.NewUserHandler(userService, cfg),
		Habit:        handlers.NewHabitHandler(habitService),
		Reward:       handlers.NewRewardHandler(rewardService),
		Notification: handlers.NewNotificationHandler(notificationService),
		Activity:     handlers.NewActivityHandler(activityService),
	}, cfg.JWTSecret)

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("port", cfg.Port).Info("Server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down")

	// Wait for a running tick to finish before closing the database.
	<-cronJobs.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("HTTP server shutdown failed")
	}
	if err := db.Client().Disconnect(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("MongoDB disconnect failed")
	}
}
