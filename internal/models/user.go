package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account of the habit tracker.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	Points         int                `bson:"points" json:"points"`
	Streak         int                `bson:"streak" json:"streak"`
	LastPointDate  *time.Time         `bson:"last_point_date,omitempty" json:"last_point_date,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

type PublicUser struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Email  string             `json:"email"`
	Points int                `json:"points"`
	Streak int                `json:"streak"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Points: u.Points, Streak: u.Streak}
}
