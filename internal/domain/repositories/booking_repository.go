package repositories

import (
	"context"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// BookingRepository defines the interface for booking operations
type BookingRepository interface {
	// Create creates a new booking
	Create(ctx context.Context, booking *entities.Booking) error

	// GetByID retrieves a booking by ID
	GetByID(ctx context.Context, id string) (*entities.Booking, error)

	// ListByUser retrieves bookings made by a user, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Booking, error)

	// ListByListing retrieves bookings for a listing, newest first
	ListByListing(ctx context.Context, listingID string) ([]*entities.Booking, error)

	// UpdateStatus sets the status of a booking
	UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) error
}
