package memory

import (
	"context"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
)

// ReviewAdapter implements ReviewRepository on a Store
type ReviewAdapter struct {
	store *Store
}

// NewReviewAdapter creates a new in-memory review adapter
func NewReviewAdapter(store *Store) *ReviewAdapter {
	return &ReviewAdapter{store: store}
}

var _ repositories.ReviewRepository = (*ReviewAdapter)(nil)

// Create creates a new review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	c := *review
	a.store.reviews[review.ID] = &c
	return nil
}

// ListByListing retrieves reviews for a listing
func (a *ReviewAdapter) ListByListing(ctx context.Context, listingID string) ([]*entities.Review, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	out := make([]*entities.Review, 0)
	for _, r := range a.store.reviews {
		if r.ListingID == listingID {
			c := *r
			out = append(out, &c)
		}
	}
	newestFirst(out, func(r *entities.Review) int64 { return r.CreatedAt.UnixNano() })
	return out, nil
}
