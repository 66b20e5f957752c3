package handlers

import (
	"github.com/Dias221467/Habit_Tracker/pkg/middleware"
	"github.com/gorilla/mux"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
type Handlers struct {
	User         *UserHandler
	Habit        *HabitHandler
	Reward       *RewardHandler
	Notification *NotificationHandler
	Activity     *ActivityHandler
}

// RegisterRoutes mounts the API on router. Everything except registration
// and login requires a bearer token signed with jwtSecret.
func RegisterRoutes(router *mux.Router, h Handlers, jwtSecret string) {
	auth := middleware.AuthMiddleware(jwtSecret)

	// Register User routes
	router.HandleFunc("/users/register", h.User.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", h.User.LoginUserHandler).Methods("POST")

	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(auth)
	protectedUserRoutes.HandleFunc("/me", h.User.GetMeHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/change-password", h.User.ChangePasswordHandler).Methods("PUT")

	protectedHabitRoutes := router.PathPrefix("/habits").Subrouter()
	protectedHabitRoutes.Use(auth)
	protectedHabitRoutes.HandleFunc("", h.Habit.CreateHabitHandler).Methods("POST")
	protectedHabitRoutes.HandleFunc("", h.Habit.GetHabitsHandler).Methods("GET")
	protectedHabitRoutes.HandleFunc("/{id}/complete", h.Habit.MarkHabitDoneHandler).Methods("PUT")
	protectedHabitRoutes.HandleFunc("/{id}/reset", h.Habit.ResetHabitHandler).Methods("PUT")
	protectedHabitRoutes.HandleFunc("/{id}/missed", h.Habit.GetMissedDaysHandler).Methods("GET")
	protectedHabitRoutes.HandleFunc("/{id}", h.Habit.DeleteHabitHandler).Methods("DELETE")

	protectedRewardRoutes := router.PathPrefix("/rewards").Subrouter()
	protectedRewardRoutes.Use(auth)
	protectedRewardRoutes.HandleFunc("", h.Reward.GetRewardsHandler).Methods("GET")
	protectedRewardRoutes.HandleFunc("/update-points", h.Reward.UpdatePointsHandler).Methods("GET")
	protectedRewardRoutes.HandleFunc("/claim", h.Reward.ClaimRewardHandler).Methods("POST")
	protectedRewardRoutes.HandleFunc("/claimed", h.Reward.GetClaimedRewardsHandler).Methods("GET")

	protectedNotificationRoutes := router.PathPrefix("/notifications").Subrouter()
	protectedNotificationRoutes.Use(auth)
	protectedNotificationRoutes.HandleFunc("", h.Notification.GetUserNotificationsHandler).Methods("GET")
	protectedNotificationRoutes.HandleFunc("/{id}/read", h.Notification.MarkAsReadHandler).Methods("POST")
	protectedNotificationRoutes.HandleFunc("/{id}", h.Notification.DeleteNotificationHandler).Methods("DELETE")

	protectedActivityRoutes := router.PathPrefix("/activities").Subrouter()
	protectedActivityRoutes.Use(auth)
	protectedActivityRoutes.HandleFunc("", h.Activity.GetActivitiesHandler).Methods("GET")
}
