package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// Store keeps every collection in process memory. It backs STORE_DRIVER=memory
// and tests. Records are copied on the way in and out so callers never share
// state with the store.
type Store struct {
	mu       sync.RWMutex
	listings map[string]*entities.Listing
	order    []string
	users    map[string]*entities.User
	bookings map[string]*entities.Booking
	reviews  map[string]*entities.Review
	messages map[string]*entities.Message
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		listings: make(map[string]*entities.Listing),
		users:    make(map[string]*entities.User),
		bookings: make(map[string]*entities.Booking),
		reviews:  make(map[string]*entities.Review),
		messages: make(map[string]*entities.Message),
	}
}

func cloneListing(l *entities.Listing) *entities.Listing {
	if l == nil {
		return nil
	}
	c := *l
	if l.Capacity != nil {
		capacity := *l.Capacity
		c.Capacity = &capacity
	}
	if l.AverageRating != nil {
		v := *l.AverageRating
		c.AverageRating = &v
	}
	if l.Rating != nil {
		v := *l.Rating
		c.Rating = &v
	}
	if l.Amenities != nil {
		c.Amenities = maps.Clone(l.Amenities)
	}
	c.Images = slices.Clone(l.Images)
	return &c
}

func cloneUser(u *entities.User) *entities.User {
	c := *u
	c.Wishlist = slices.Clone(u.Wishlist)
	if c.Wishlist == nil {
		c.Wishlist = []string{}
	}
	return &c
}

func newestFirst[T any](items []T, created func(T) int64) {
	slices.SortStableFunc(items, func(a, b T) int {
		ca, cb := created(a), created(b)
		switch {
		case ca > cb:
			return -1
		case ca < cb:
			return 1
		}
		return 0
	})
}
