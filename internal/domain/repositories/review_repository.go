package repositories

import (
	"context"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create creates a new review
	Create(ctx context.Context, review *entities.Review) error

	// ListByListing retrieves reviews for a listing, newest first
	ListByListing(ctx context.Context, listingID string) ([]*entities.Review, error)
}
