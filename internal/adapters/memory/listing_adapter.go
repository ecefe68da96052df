package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// ListingAdapter implements ListingRepository on a Store
type ListingAdapter struct {
	store *Store
}

// NewListingAdapter creates a new in-memory listing adapter
func NewListingAdapter(store *Store) *ListingAdapter {
	return &ListingAdapter{store: store}
}

var _ repositories.ListingRepository = (*ListingAdapter)(nil)

// Create creates a new listing
func (a *ListingAdapter) Create(ctx context.Context, listing *entities.Listing) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	if _, exists := a.store.listings[listing.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("listing %s already exists", listing.ID))
	}
	a.store.listings[listing.ID] = cloneListing(listing)
	a.store.order = append(a.store.order, listing.ID)
	return nil
}

// GetByID retrieves a listing by ID
func (a *ListingAdapter) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	l, ok := a.store.listings[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("listing %s not found", id))
	}
	return cloneListing(l), nil
}

// GetByIDs retrieves the listings that exist among ids, in the order given
func (a *ListingAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Listing, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	out := make([]*entities.Listing, 0, len(ids))
	for _, id := range ids {
		if l, ok := a.store.listings[id]; ok {
			out = append(out, cloneListing(l))
		}
	}
	return out, nil
}

// Update updates a listing
func (a *ListingAdapter) Update(ctx context.Context, listing *entities.Listing) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	if _, ok := a.store.listings[listing.ID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("listing %s not found", listing.ID))
	}
	a.store.listings[listing.ID] = cloneListing(listing)
	return nil
}

// SetAverageRating writes only the average rating of a listing
func (a *ListingAdapter) SetAverageRating(ctx context.Context, id string, rating float64) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	l, ok := a.store.listings[id]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("listing %s not found", id))
	}
	l.AverageRating = &rating
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete deletes a listing
func (a *ListingAdapter) Delete(ctx context.Context, id string) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	if _, ok := a.store.listings[id]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("listing %s not found", id))
	}
	delete(a.store.listings, id)
	for i, oid := range a.store.order {
		if oid == id {
			a.store.order = append(a.store.order[:i], a.store.order[i+1:]...)
			break
		}
	}
	return nil
}

// List retrieves listings in insertion order
func (a *ListingAdapter) List(ctx context.Context, filter repositories.ListingFilter) ([]*entities.Listing, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	matched := a.matching(filter)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*entities.Listing{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	out := make([]*entities.Listing, len(matched))
	for i, l := range matched {
		out[i] = cloneListing(l)
	}
	return out, nil
}

// Count returns how many listings match the filter
func (a *ListingAdapter) Count(ctx context.Context, filter repositories.ListingFilter) (int, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()
	return len(a.matching(filter)), nil
}

func (a *ListingAdapter) matching(filter repositories.ListingFilter) []*entities.Listing {
	out := make([]*entities.Listing, 0, len(a.store.order))
	for _, id := range a.store.order {
		if l := a.store.listings[id]; filter.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}
