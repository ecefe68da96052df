package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	"github.com/smartrentsystem/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

const bookingsTable = "bookings"

var bookingColumns = []any{
	"id", "listing_id", "user_id", "check_in", "check_out",
	"guests", "total_price", "status", "created_at", "updated_at",
}

// BookingAdapter implements the BookingRepository interface
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new booking
func (a *BookingAdapter) Create(ctx context.Context, booking *entities.Booking) error {
	query, args, err := a.db.Insert(bookingsTable).Rows(goqu.Record{
		"id":          booking.ID,
		"listing_id":  booking.ListingID,
		"user_id":     booking.UserID,
		"check_in":    booking.CheckIn,
		"check_out":   booking.CheckOut,
		"guests":      booking.Guests,
		"total_price": booking.TotalPrice,
		"status":      string(booking.Status),
		"created_at":  booking.CreatedAt,
		"updated_at":  booking.UpdatedAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewStorageError("failed to create booking", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (a *BookingAdapter) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	query, args, err := a.db.From(bookingsTable).Select(bookingColumns...).Where(goqu.Ex{"id": id}).Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	booking := &entities.Booking{}
	err = a.client.X().GetContext(ctx, booking, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to get booking", err)
	}
	return booking, nil
}

// ListByUser retrieves bookings made by a user, newest first
func (a *BookingAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Booking, error) {
	return a.list(ctx, goqu.Ex{"user_id": userID})
}

// ListByListing retrieves bookings for a listing, newest first
func (a *BookingAdapter) ListByListing(ctx context.Context, listingID string) ([]*entities.Booking, error) {
	return a.list(ctx, goqu.Ex{"listing_id": listingID})
}

func (a *BookingAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.Booking, error) {
	query, args, err := a.db.From(bookingsTable).
		Select(bookingColumns...).
		Where(where).
		Order(goqu.C("created_at").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	bookings := []*entities.Booking{}
	if err := a.client.X().SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, apperrors.NewStorageError("failed to list bookings", err)
	}
	return bookings, nil
}

// UpdateStatus sets the status of a booking
func (a *BookingAdapter) UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) error {
	query, args, err := a.db.Update(bookingsTable).Set(goqu.Record{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}).Where(goqu.Ex{"id": id}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewStorageError("failed to update booking", err)
	}
	return requireRow(result, fmt.Sprintf("booking with id %s not found", id))
}
