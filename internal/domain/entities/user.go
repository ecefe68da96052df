package entities

import (
	"time"
)

// User represents an account holder
type User struct {
	ID        string    `json:"_id" db:"id" bson:"_id"`
	Name      string    `json:"name" db:"name" bson:"name"`
	Email     string    `json:"email" db:"email" bson:"email"`
	Wishlist  []string  `json:"wishlist" db:"-" bson:"wishlist"`
	Version   int64     `json:"-" db:"version" bson:"version"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// WishlistIndex returns the position of listingID in the wishlist, or -1
func (u *User) WishlistIndex(listingID string) int {
	for i, id := range u.Wishlist {
		if id == listingID {
			return i
		}
	}
	return -1
}

// InWishlist reports whether listingID is saved
func (u *User) InWishlist(listingID string) bool {
	return u.WishlistIndex(listingID) >= 0
}
