package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService keeps the in-app log of notifications sent to users.
type NotificationService struct {
	repo NotificationStore
}

func NewNotificationService(repo NotificationStore) *NotificationService {
	return &NotificationService{repo: repo}
}

// CreateNotification logs a new notification for a user
func (s *NotificationService) CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) error {
	notif := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Read:     false,
		TargetID: targetID,
	}
	return s.repo.CreateNotification(ctx, notif)
}

// GetUserNotifications returns all notifications for a user
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.GetUserNotifications(ctx, userID)
}

// MarkNotificationAsRead sets the "read" status of one of the user's notifications
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, userID, notifID primitive.ObjectID) error {
	return notFound(s.repo.MarkAsRead(ctx, userID, notifID), "notification")
}

// DeleteNotification deletes one of the user's notifications
func (s *NotificationService) DeleteNotification(ctx context.Context, userID, notifID primitive.ObjectID) error {
	return notFound(s.repo.DeleteNotification(ctx, userID, notifID), "notification")
}

func (s *NotificationService) DeleteExpiredNotifications(ctx context.Context) error {
	return s.repo.DeleteExpiredNotifications(ctx)
}

// notFound maps a repository miss to ErrNotFound and leaves other errors as they are.
func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}
