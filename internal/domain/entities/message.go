package entities

import (
	"time"
)

// Message is a direct message between two users, optionally about a listing
type Message struct {
	ID          string    `json:"_id" db:"id" bson:"_id"`
	SenderID    string    `json:"sender" db:"sender_id" bson:"sender"`
	RecipientID string    `json:"recipient" db:"recipient_id" bson:"recipient"`
	ListingID   string    `json:"property,omitempty" db:"listing_id" bson:"property,omitempty"`
	Body        string    `json:"content" db:"body" bson:"content"`
	Read        bool      `json:"read" db:"read" bson:"read"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
}
