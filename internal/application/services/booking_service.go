package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// BookingService handles reservations
type BookingService struct {
	repo     repositories.BookingRepository
	listings repositories.ListingRepository
}

// NewBookingService creates a new booking service
func NewBookingService(repo repositories.BookingRepository, listings repositories.ListingRepository) *BookingService {
	return &BookingService{
		repo:     repo,
		listings: listings,
	}
}

// BookingRequest is what a guest asks for
type BookingRequest struct {
	ListingID string
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
}

// Create books a listing for userID. The total is nights times the nightly price,
// and the booking starts out pending.
func (s *BookingService) Create(ctx context.Context, userID string, req BookingRequest) (*entities.Booking, error) {
	if req.ListingID == "" {
		return nil, apperrors.NewValidationError("property is required")
	}
	if req.Guests == 0 {
		req.Guests = 1
	}
	if req.Guests < 0 {
		return nil, apperrors.NewValidationError("guests must be positive")
	}

	booking := &entities.Booking{
		ID:        uuid.New().String(),
		ListingID: req.ListingID,
		UserID:    userID,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Guests:    req.Guests,
		Status:    entities.BookingStatusPending,
	}
	nights := booking.Nights()
	if nights < 1 {
		return nil, apperrors.NewValidationError("check-out must be at least one day after check-in")
	}

	listing, err := s.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, storageErr("failed to load listing", err)
	}
	if c := listing.Capacity; c != nil && c.Guests > 0 && req.Guests > c.Guests {
		return nil, apperrors.NewValidationError("too many guests for this property")
	}

	existing, err := s.repo.ListByListing(ctx, req.ListingID)
	if err != nil {
		return nil, storageErr("failed to load bookings", err)
	}
	for _, other := range existing {
		if other.Status != entities.BookingStatusCancelled && overlaps(booking, other) {
			return nil, apperrors.NewConflictError("property is already booked for these dates")
		}
	}

	now := time.Now().UTC()
	booking.TotalPrice = float64(nights) * listing.Price
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, storageErr("failed to create booking", err)
	}
	return booking, nil
}

// ListForUser returns the bookings made by userID
func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]*entities.Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr("failed to list bookings", err)
	}
	return bookings, nil
}

// ListForListing returns the bookings of a listing. Only its owner may see them.
func (s *BookingService) ListForListing(ctx context.Context, ownerID, listingID string) ([]*entities.Booking, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, storageErr("failed to load listing", err)
	}
	if listing.OwnerID != ownerID {
		return nil, apperrors.NewForbiddenError("only the owner can view bookings for this property")
	}
	bookings, err := s.repo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, storageErr("failed to list bookings", err)
	}
	return bookings, nil
}

// Cancel cancels a booking. Only the guest who made it may cancel; cancelling
// twice is a no-op.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID string) (*entities.Booking, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, apperrors.NewForbiddenError("not your booking")
	}
	return s.transition(ctx, booking, entities.BookingStatusCancelled)
}

// Confirm confirms a pending booking. Only the listing owner may confirm.
func (s *BookingService) Confirm(ctx context.Context, ownerID, bookingID string) (*entities.Booking, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	listing, err := s.listings.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, storageErr("failed to load listing", err)
	}
	if listing.OwnerID != ownerID {
		return nil, apperrors.NewForbiddenError("only the owner can confirm bookings")
	}
	if booking.Status == entities.BookingStatusCancelled {
		return nil, apperrors.NewConflictError("booking was cancelled")
	}
	return s.transition(ctx, booking, entities.BookingStatusConfirmed)
}

// CheckConfirmed reports whether userID holds a confirmed booking for listingID
func (s *BookingService) CheckConfirmed(ctx context.Context, userID, listingID string) (bool, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return false, storageErr("failed to list bookings", err)
	}
	for _, b := range bookings {
		if b.ListingID == listingID && b.Status == entities.BookingStatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (s *BookingService) load(ctx context.Context, id string) (*entities.Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("failed to load booking", err)
	}
	return booking, nil
}

func (s *BookingService) transition(ctx context.Context, booking *entities.Booking, status entities.BookingStatus) (*entities.Booking, error) {
	if booking.Status == status {
		return booking, nil
	}
	if err := s.repo.UpdateStatus(ctx, booking.ID, status); err != nil {
		return nil, storageErr("failed to update booking", err)
	}
	booking.Status = status
	booking.UpdatedAt = time.Now().UTC()
	return booking, nil
}

// overlaps treats stays as half-open day ranges, so a check-out day can be
// the next guest's check-in day.
func overlaps(a, b *entities.Booking) bool {
	return a.CheckIn.Before(b.CheckOut) && b.CheckIn.Before(a.CheckOut)
}
