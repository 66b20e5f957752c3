package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultCategory     = "General"
	DefaultReminderTime = "07:00"
	DefaultHabitDays    = 7
)

// Habit is a recurring personal habit owned by a single user.
type Habit struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Category       string             `bson:"category" json:"category"`
	StartDate      time.Time          `bson:"start_date" json:"start_date"`
	EndDate        time.Time          `bson:"end_date" json:"end_date"`
	CompletedDates []time.Time        `bson:"completed_dates" json:"completed_dates"`
	Streak         int                `bson:"streak" json:"streak"`
	MissedDays     int                `bson:"missed_days" json:"missed_days"`
	ReminderTime   string             `bson:"reminder_time" json:"reminder_time"` // HH:MM

	Notifications NotificationState `bson:",inline" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HabitView is the JSON shape returned to clients.
type HabitView struct {
	Habit
	DoneToday bool `json:"done_today"`
}
