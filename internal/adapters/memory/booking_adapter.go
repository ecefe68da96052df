package memory

import (
	"context"
	"fmt"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// BookingAdapter implements BookingRepository on a Store
type BookingAdapter struct {
	store *Store
}

// NewBookingAdapter creates a new in-memory booking adapter
func NewBookingAdapter(store *Store) *BookingAdapter {
	return &BookingAdapter{store: store}
}

var _ repositories.BookingRepository = (*BookingAdapter)(nil)

// Create creates a new booking
func (a *BookingAdapter) Create(ctx context.Context, booking *entities.Booking) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	c := *booking
	a.store.bookings[booking.ID] = &c
	return nil
}

// GetByID retrieves a booking by ID
func (a *BookingAdapter) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	b, ok := a.store.bookings[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking %s not found", id))
	}
	c := *b
	return &c, nil
}

// ListByUser retrieves bookings made by a user
func (a *BookingAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Booking, error) {
	return a.list(func(b *entities.Booking) bool { return b.UserID == userID }), nil
}

// ListByListing retrieves bookings for a listing
func (a *BookingAdapter) ListByListing(ctx context.Context, listingID string) ([]*entities.Booking, error) {
	return a.list(func(b *entities.Booking) bool { return b.ListingID == listingID }), nil
}

// UpdateStatus sets the status of a booking
func (a *BookingAdapter) UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	b, ok := a.store.bookings[id]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking %s not found", id))
	}
	b.Status = status
	return nil
}

func (a *BookingAdapter) list(keep func(*entities.Booking) bool) []*entities.Booking {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	out := make([]*entities.Booking, 0)
	for _, b := range a.store.bookings {
		if keep(b) {
			c := *b
			out = append(out, &c)
		}
	}
	newestFirst(out, func(b *entities.Booking) int64 { return b.CreatedAt.UnixNano() })
	return out
}
