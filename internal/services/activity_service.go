package services

import (
	"context"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// ActivityService keeps the per-user feed of habit and reward events.
type ActivityService struct {
	repo ActivityStore
	Now  Clock
}

func NewActivityService(repo ActivityStore) *ActivityService {
	return &ActivityService{repo: repo, Now: time.Now}
}

// LogActivity appends an event of kind (one of the models.Activity*
// constants) to the user's feed.
func (s *ActivityService) LogActivity(ctx context.Context, userID primitive.ObjectID, kind string, targetID primitive.ObjectID, message string) error {
	activity := &models.Activity{
		UserID:    userID,
		Type:      kind,
		TargetID:  targetID,
		Message:   message,
		Timestamp: s.Now(),
	}

	if err := s.repo.CreateActivity(ctx, activity); err != nil {
		logger.Log.WithError(err).WithField("kind", kind).Error("Failed to log activity")
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": userID.Hex(),
		"kind":    kind,
	}).Debug("Activity logged")
	return nil
}

// GetRecentActivities returns the newest events first. A non-positive
// limit selects the default page size; larger ones are capped.
func (s *ActivityService) GetRecentActivities(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Activity, error) {
	switch {
	case limit <= 0:
		limit = defaultActivityLimit
	case limit > maxActivityLimit:
		limit = maxActivityLimit
	}
	return s.repo.GetUserActivities(ctx, userID, limit)
}
