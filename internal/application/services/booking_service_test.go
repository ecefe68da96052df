package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartrentsystem/backend/internal/adapters/memory"
	"github.com/smartrentsystem/backend/internal/application/services"
	"github.com/smartrentsystem/backend/internal/domain/entities"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

func day(d int) time.Time {
	return time.Date(2026, 7, d, 14, 0, 0, 0, time.UTC)
}

func newBookingService(t *testing.T) (*services.BookingService, *memory.BookingAdapter) {
	t.Helper()
	store := memory.NewStore()
	listings := memory.NewListingAdapter(store)
	bookings := memory.NewBookingAdapter(store)
	require.NoError(t, listings.Create(context.Background(), &entities.Listing{
		ID:       "L1",
		Title:    "Cabin",
		Price:    80,
		OwnerID:  "host",
		Capacity: &entities.Capacity{Guests: 4},
	}))
	return services.NewBookingService(bookings, listings), bookings
}

func TestBookingService_Create(t *testing.T) {
	service, _ := newBookingService(t)

	b, err := service.Create(context.Background(), "guest", services.BookingRequest{
		ListingID: "L1", CheckIn: day(1), CheckOut: day(4), Guests: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, 240.0, b.TotalPrice)
	assert.Equal(t, entities.BookingStatusPending, b.Status)
	assert.Equal(t, "guest", b.UserID)
}

func TestBookingService_CreateRejects(t *testing.T) {
	service, _ := newBookingService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, "g", services.BookingRequest{ListingID: "L1", CheckIn: day(4), CheckOut: day(4)})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = service.Create(ctx, "g", services.BookingRequest{ListingID: "L1", CheckIn: day(1), CheckOut: day(2), Guests: 9})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = service.Create(ctx, "g", services.BookingRequest{ListingID: "nope", CheckIn: day(1), CheckOut: day(2)})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestBookingService_OverlapConflicts(t *testing.T) {
	service, _ := newBookingService(t)
	ctx := context.Background()

	first, err := service.Create(ctx, "a", services.BookingRequest{ListingID: "L1", CheckIn: day(1), CheckOut: day(5)})
	require.NoError(t, err)

	_, err = service.Create(ctx, "b", services.BookingRequest{ListingID: "L1", CheckIn: day(3), CheckOut: day(6)})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	// back-to-back stays are fine
	_, err = service.Create(ctx, "b", services.BookingRequest{ListingID: "L1", CheckIn: day(5), CheckOut: day(7)})
	assert.NoError(t, err)

	// a cancelled booking frees its dates
	_, err = service.Cancel(ctx, "a", first.ID)
	require.NoError(t, err)
	_, err = service.Create(ctx, "c", services.BookingRequest{ListingID: "L1", CheckIn: day(2), CheckOut: day(4)})
	assert.NoError(t, err)
}

func TestBookingService_CancelAndConfirm(t *testing.T) {
	service, _ := newBookingService(t)
	ctx := context.Background()

	b, err := service.Create(ctx, "guest", services.BookingRequest{ListingID: "L1", CheckIn: day(10), CheckOut: day(12)})
	require.NoError(t, err)

	_, err = service.Cancel(ctx, "someone-else", b.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))

	_, err = service.Confirm(ctx, "guest", b.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))

	confirmed, err := service.CheckConfirmed(ctx, "guest", "L1")
	require.NoError(t, err)
	assert.False(t, confirmed)

	got, err := service.Confirm(ctx, "host", b.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStatusConfirmed, got.Status)

	confirmed, err = service.CheckConfirmed(ctx, "guest", "L1")
	require.NoError(t, err)
	assert.True(t, confirmed)

	cancelled, err := service.Cancel(ctx, "guest", b.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStatusCancelled, cancelled.Status)

	_, err = service.Confirm(ctx, "host", b.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestBookingService_ListForListingOwnerOnly(t *testing.T) {
	service, _ := newBookingService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, "guest", services.BookingRequest{ListingID: "L1", CheckIn: day(1), CheckOut: day(3)})
	require.NoError(t, err)

	_, err = service.ListForListing(ctx, "guest", "L1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))

	bookings, err := service.ListForListing(ctx, "host", "L1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "guest", bookings[0].UserID)

	_, err = service.ListForListing(ctx, "host", "missing")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestBookingService_StorageErrorOnCreate(t *testing.T) {
	repo := new(MockBookingRepository)
	listings := new(MockListingRepository)
	service := services.NewBookingService(repo, listings)

	listings.On("GetByID", mock.Anything, "L1").Return(&entities.Listing{ID: "L1", Price: 10}, nil)
	repo.On("ListByListing", mock.Anything, "L1").Return([]*entities.Booking{}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := service.Create(context.Background(), "g", services.BookingRequest{ListingID: "L1", CheckIn: day(1), CheckOut: day(2)})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))
	repo.AssertExpectations(t)
}
