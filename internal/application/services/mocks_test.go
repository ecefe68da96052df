package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
)

// Mocks

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateWishlist(ctx context.Context, userID string, wishlist []string, expectedVersion int64) error {
	args := m.Called(ctx, userID, wishlist, expectedVersion)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *entities.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Listing), args.Error(1)
}

func (m *MockListingRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Listing, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Listing), args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *entities.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) SetAverageRating(ctx context.Context, id string, rating float64) error {
	args := m.Called(ctx, id, rating)
	return args.Error(0)
}

func (m *MockListingRepository) List(ctx context.Context, filter repositories.ListingFilter) ([]*entities.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Listing), args.Error(1)
}

func (m *MockListingRepository) Count(ctx context.Context, filter repositories.ListingFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

type MockListingSearchRepository struct {
	mock.Mock
}

func (m *MockListingSearchRepository) Search(ctx context.Context, filter repositories.ListingFilter) ([]*entities.Listing, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Listing), args.Int(1), args.Error(2)
}

func (m *MockListingSearchRepository) Index(ctx context.Context, listing *entities.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingSearchRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.WishlistEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.WishlistEvent, error) {
	args := m.Called(ctx, channel)
	return nil, args.Error(1)
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	return nil
}

func (m *MockEventBus) Close() error {
	return nil
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entities.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByListing(ctx context.Context, listingID string) ([]*entities.Booking, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
