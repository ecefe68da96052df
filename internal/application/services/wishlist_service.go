package services

import (
	"context"
	"fmt"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/providers"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	"github.com/smartrentsystem/backend/internal/infrastructure/observability"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// WishlistService manages the listings a user has saved.
//
// Every change is a read-modify-write of the user's wishlist. It runs while
// holding a per-user lock and is committed with a version check, so two
// concurrent changes for the same user cannot overwrite each other. A version
// mismatch is reported as a conflict and never retried here: retrying a toggle
// after an ambiguous failure could flip it twice.
type WishlistService struct {
	users    repositories.UserRepository
	listings repositories.ListingRepository
	locker   providers.Locker
	events   providers.EventBus
	metrics  *observability.Metrics
}

// NewWishlistService creates a new wishlist service. events may be nil.
func NewWishlistService(
	users repositories.UserRepository,
	listings repositories.ListingRepository,
	locker providers.Locker,
	events providers.EventBus,
) *WishlistService {
	return &WishlistService{
		users:    users,
		listings: listings,
		locker:   locker,
		events:   events,
	}
}

// SetMetrics enables counting committed wishlist changes
func (s *WishlistService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Toggle saves listingID if it is not in the user's wishlist and removes it
// otherwise. It returns the wishlist after the change.
func (s *WishlistService) Toggle(ctx context.Context, userID, listingID string) ([]string, error) {
	return s.mutate(ctx, userID, listingID, func(user *entities.User) ([]string, entities.WishlistAction) {
		if i := user.WishlistIndex(listingID); i >= 0 {
			return without(user.Wishlist, i), entities.WishlistActionRemoved
		}
		return with(user.Wishlist, listingID), entities.WishlistActionAdded
	})
}

// Add saves listingID. Adding a saved listing changes nothing.
func (s *WishlistService) Add(ctx context.Context, userID, listingID string) ([]string, error) {
	return s.mutate(ctx, userID, listingID, func(user *entities.User) ([]string, entities.WishlistAction) {
		if user.InWishlist(listingID) {
			return nil, ""
		}
		return with(user.Wishlist, listingID), entities.WishlistActionAdded
	})
}

// Remove drops listingID. Removing an unsaved listing changes nothing.
func (s *WishlistService) Remove(ctx context.Context, userID, listingID string) ([]string, error) {
	return s.mutate(ctx, userID, listingID, func(user *entities.User) ([]string, entities.WishlistAction) {
		i := user.WishlistIndex(listingID)
		if i < 0 {
			return nil, ""
		}
		return without(user.Wishlist, i), entities.WishlistActionRemoved
	})
}

// List returns the saved listings in wishlist order. IDs whose listing no
// longer exists are left out.
func (s *WishlistService) List(ctx context.Context, userID string) ([]*entities.Listing, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storageErr("failed to load user", err)
	}
	if len(user.Wishlist) == 0 {
		return []*entities.Listing{}, nil
	}

	found, err := s.listings.GetByIDs(ctx, user.Wishlist)
	if err != nil {
		return nil, storageErr("failed to load saved listings", err)
	}

	byID := make(map[string]*entities.Listing, len(found))
	for _, l := range found {
		if l != nil {
			byID[l.ID] = l
		}
	}

	out := make([]*entities.Listing, 0, len(user.Wishlist))
	for _, id := range user.Wishlist {
		if l, ok := byID[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// change computes the new wishlist. An empty action means nothing changes.
type change func(user *entities.User) ([]string, entities.WishlistAction)

func (s *WishlistService) mutate(ctx context.Context, userID, listingID string, apply change) ([]string, error) {
	if listingID == "" {
		return nil, apperrors.NewValidationError("listing id is required")
	}

	unlock, err := s.locker.Lock(ctx, "wishlist:"+userID)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to lock wishlist", err)
	}
	defer unlock()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storageErr("failed to load user", err)
	}

	updated, action := apply(user)
	if action == "" {
		return nonNil(user.Wishlist), nil
	}

	if err := s.users.UpdateWishlist(ctx, userID, updated, user.Version); err != nil {
		return nil, storageErr(fmt.Sprintf("failed to save wishlist of user %s", userID), err)
	}

	observability.RecordWishlistChange(ctx, s.metrics, string(action))
	s.publish(ctx, entities.NewWishlistEvent(userID, listingID, action))
	return updated, nil
}

func (s *WishlistService) publish(ctx context.Context, event *entities.WishlistEvent) {
	if s.events == nil {
		return
	}
	logger := observability.LoggerFromContext(ctx)
	for _, channel := range []string{providers.EventChannelWishlistUpdates, providers.GetUserChannel(event.UserID)} {
		if err := s.events.Publish(ctx, channel, event); err != nil {
			logger.Warn().Err(err).Str("channel", channel).Str("user_id", event.UserID).Msg("Failed to publish wishlist event")
		}
	}
}

func with(list []string, id string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	return append(out, id)
}

func without(list []string, i int) []string {
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
