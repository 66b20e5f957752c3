package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ActivityHabitCreated   = "habit_created"
	ActivityHabitCompleted = "habit_completed"
	ActivityHabitReset     = "habit_reset"
	ActivityHabitDeleted   = "habit_deleted"
	ActivityRewardClaimed  = "reward_claimed"
)

type Activity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type      string             `bson:"type" json:"type"`           // e.g. "habit_completed", "reward_claimed"
	TargetID  primitive.ObjectID `bson:"target_id" json:"target_id"` // the ID of the habit or claimed reward
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Message   string             `bson:"message" json:"message"`
}
