package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reward is an entry of the static reward catalog.
type Reward struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	PointsRequired int    `json:"points_required"`
}

// RewardCatalog is the fixed list of rewards points can be spent on.
var RewardCatalog = []Reward{
	{ID: "reward1", Title: "Premium Coffee", PointsRequired: 5},
	{ID: "reward2", Title: "Movie Ticket", PointsRequired: 10},
	{ID: "reward3", Title: "Gym Day Pass", PointsRequired: 8},
	{ID: "reward4", Title: "Book Voucher", PointsRequired: 15},
	{ID: "reward5", Title: "Spotify Premium", PointsRequired: 20},
	{ID: "reward6", Title: "Pizza Meal", PointsRequired: 12},
	{ID: "reward7", Title: "Yoga Class", PointsRequired: 7},
	{ID: "reward8", Title: "Amazon Gift Card", PointsRequired: 25},
}

// FindReward looks a reward up in the catalog.
func FindReward(id string) (Reward, bool) {
	for _, r := range RewardCatalog {
		if r.ID == id {
			return r, true
		}
	}
	return Reward{}, false
}

// ClaimedReward records a point-spend event. It is never modified.
type ClaimedReward struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	RewardID       string             `bson:"reward_id" json:"reward_id"`
	RewardTitle    string             `bson:"reward_title" json:"reward_title"`
	PointsSpent    int                `bson:"points_spent" json:"points_spent"`
	RedemptionCode string             `bson:"redemption_code" json:"redemption_code"`
	Status         string             `bson:"status" json:"status"` // "pending", "redeemed", "expired"
	ClaimedAt      time.Time          `bson:"claimed_at" json:"claimed_at"`
}
