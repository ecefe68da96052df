package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartrentsystem/backend/internal/adapters/lock"
	"github.com/smartrentsystem/backend/internal/adapters/memory"
	"github.com/smartrentsystem/backend/internal/application/services"
	"github.com/smartrentsystem/backend/internal/domain/entities"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

type wishlistFixture struct {
	service  *services.WishlistService
	users    *memory.UserAdapter
	listings *memory.ListingAdapter
}

func newWishlistFixture(t *testing.T, wishlist ...string) wishlistFixture {
	t.Helper()
	store := memory.NewStore()
	f := wishlistFixture{
		users:    memory.NewUserAdapter(store),
		listings: memory.NewListingAdapter(store),
	}
	f.service = services.NewWishlistService(f.users, f.listings, lock.NewLocalLocker(), nil)

	ctx := context.Background()
	require.NoError(t, f.users.Create(ctx, &entities.User{ID: "u1", Email: "u1@example.com", Wishlist: wishlist}))
	for _, id := range []string{"L1", "L2", "L3"} {
		require.NoError(t, f.listings.Create(ctx, &entities.Listing{ID: id, Title: id}))
	}
	return f
}

func TestWishlistService_Toggle(t *testing.T) {
	t.Run("adds then removes", func(t *testing.T) {
		f := newWishlistFixture(t)
		ctx := context.Background()

		got, err := f.service.Toggle(ctx, "u1", "L1")
		require.NoError(t, err)
		assert.Equal(t, []string{"L1"}, got)

		got, err = f.service.Toggle(ctx, "u1", "L1")
		require.NoError(t, err)
		assert.Equal(t, []string{}, got)
	})

	t.Run("double toggle restores membership", func(t *testing.T) {
		for _, start := range [][]string{{}, {"L1"}, {"L2", "L1", "L3"}} {
			f := newWishlistFixture(t, start...)
			ctx := context.Background()

			for _, id := range []string{"L1", "L2", "L9"} {
				_, err := f.service.Toggle(ctx, "u1", id)
				require.NoError(t, err)
				_, err = f.service.Toggle(ctx, "u1", id)
				require.NoError(t, err)
			}

			u, err := f.users.GetByID(ctx, "u1")
			require.NoError(t, err)
			assert.ElementsMatch(t, start, u.Wishlist)
		}
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		f := newWishlistFixture(t)
		_, err := f.service.Toggle(context.Background(), "ghost", "L1")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("empty listing id is rejected", func(t *testing.T) {
		f := newWishlistFixture(t)
		_, err := f.service.Toggle(context.Background(), "u1", "")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestWishlistService_AddRemoveAreIdempotent(t *testing.T) {
	f := newWishlistFixture(t)
	ctx := context.Background()

	_, err := f.service.Add(ctx, "u1", "L1")
	require.NoError(t, err)
	got, err := f.service.Add(ctx, "u1", "L1")
	require.NoError(t, err)
	assert.Equal(t, []string{"L1"}, got)

	_, err = f.service.Remove(ctx, "u1", "L1")
	require.NoError(t, err)
	got, err = f.service.Remove(ctx, "u1", "L1")
	require.NoError(t, err)
	assert.Equal(t, []string{}, got)
}

func TestWishlistService_ConcurrentTogglesSerialize(t *testing.T) {
	f := newWishlistFixture(t)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.service.Toggle(ctx, "u1", "L1"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected toggle error: %v", err)
	}

	// an even number of flips leaves the listing unsaved
	u, err := f.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, u.Wishlist)
	assert.Equal(t, int64(n), u.Version)
}

func TestWishlistService_ConcurrentAddsKeepEveryListing(t *testing.T) {
	f := newWishlistFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.service.Add(ctx, "u1", fmt.Sprintf("X%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	u, err := f.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, u.Wishlist, 20)
}

func TestWishlistService_List(t *testing.T) {
	f := newWishlistFixture(t, "L3", "deleted", "L1")

	got, err := f.service.List(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "L3", got[0].ID)
	assert.Equal(t, "L1", got[1].ID)
}

func TestWishlistService_ListEmpty(t *testing.T) {
	f := newWishlistFixture(t)

	got, err := f.service.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestWishlistService_StorageFailureIsNotCommitted(t *testing.T) {
	users := new(MockUserRepository)
	listings := new(MockListingRepository)
	service := services.NewWishlistService(users, listings, lock.NewLocalLocker(), nil)

	users.On("GetByID", mock.Anything, "u1").Return(&entities.User{ID: "u1", Wishlist: []string{}, Version: 3}, nil)
	users.On("UpdateWishlist", mock.Anything, "u1", []string{"L1"}, int64(3)).Return(errors.New("connection reset"))

	got, err := service.Toggle(context.Background(), "u1", "L1")

	assert.Nil(t, got)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))
	users.AssertExpectations(t)
}

func TestWishlistService_VersionConflictPassesThrough(t *testing.T) {
	users := new(MockUserRepository)
	service := services.NewWishlistService(users, new(MockListingRepository), lock.NewLocalLocker(), nil)

	users.On("GetByID", mock.Anything, "u1").Return(&entities.User{ID: "u1", Wishlist: []string{"L1"}, Version: 1}, nil)
	users.On("UpdateWishlist", mock.Anything, "u1", []string{}, int64(1)).Return(apperrors.NewConflictError("stale"))

	_, err := service.Toggle(context.Background(), "u1", "L1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	users.AssertNumberOfCalls(t, "UpdateWishlist", 1)
}

func TestWishlistService_PublishesEvents(t *testing.T) {
	store := memory.NewStore()
	users := memory.NewUserAdapter(store)
	bus := new(MockEventBus)
	service := services.NewWishlistService(users, memory.NewListingAdapter(store), lock.NewLocalLocker(), bus)
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &entities.User{ID: "u1"}))

	added := mock.MatchedBy(func(e *entities.WishlistEvent) bool {
		return e.UserID == "u1" && e.ListingID == "L1" && e.Action == entities.WishlistActionAdded
	})
	bus.On("Publish", mock.Anything, "wishlist:updates", added).Return(nil).Once()
	bus.On("Publish", mock.Anything, "user:u1:wishlist", added).Return(errors.New("redis down")).Once()

	got, err := service.Toggle(ctx, "u1", "L1")

	// a failed publish never fails the change
	require.NoError(t, err)
	assert.Equal(t, []string{"L1"}, got)
	bus.AssertExpectations(t)
}

func TestWishlistService_NoChangeDoesNotPublish(t *testing.T) {
	store := memory.NewStore()
	users := memory.NewUserAdapter(store)
	bus := new(MockEventBus)
	service := services.NewWishlistService(users, memory.NewListingAdapter(store), lock.NewLocalLocker(), bus)
	require.NoError(t, users.Create(context.Background(), &entities.User{ID: "u1"}))

	_, err := service.Remove(context.Background(), "u1", "L1")
	require.NoError(t, err)
	bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}
