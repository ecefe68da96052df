package entities

import (
	"time"

	"github.com/google/uuid"
)

// WishlistAction is what happened to a wishlist entry
type WishlistAction string

const (
	WishlistActionAdded   WishlistAction = "added"
	WishlistActionRemoved WishlistAction = "removed"
)

// WishlistEvent is published after a committed wishlist change
type WishlistEvent struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	ListingID string         `json:"listing_id"`
	Action    WishlistAction `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewWishlistEvent creates a new wishlist event
func NewWishlistEvent(userID, listingID string, action WishlistAction) *WishlistEvent {
	return &WishlistEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		ListingID: listingID,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
}
