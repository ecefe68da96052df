package entities

import (
	"time"
)

// Review represents a user review of a listing
type Review struct {
	ID        string    `json:"_id" db:"id" bson:"_id"`
	ListingID string    `json:"property" db:"listing_id" bson:"property"`
	UserID    string    `json:"user" db:"user_id" bson:"user"`
	Rating    int       `json:"rating" db:"rating" bson:"rating"` // 1-5
	Comment   string    `json:"comment" db:"comment" bson:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
}
