package repositories

import (
	"context"
	"strings"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// ListingRepository defines the interface for listing data operations
type ListingRepository interface {
	// Create creates a new listing
	Create(ctx context.Context, listing *entities.Listing) error

	// GetByID retrieves a listing by ID
	GetByID(ctx context.Context, id string) (*entities.Listing, error)

	// GetByIDs retrieves multiple listings by their IDs. Missing IDs are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Listing, error)

	// Update updates a listing
	Update(ctx context.Context, listing *entities.Listing) error

	// Delete deletes a listing
	Delete(ctx context.Context, id string) error

	// SetAverageRating writes only the average rating of a listing
	SetAverageRating(ctx context.Context, id string, rating float64) error

	// List retrieves listings matching the filter
	List(ctx context.Context, filter ListingFilter) ([]*entities.Listing, error)

	// Count returns how many listings match the filter, ignoring Limit and Offset
	Count(ctx context.Context, filter ListingFilter) (int, error)
}

// ListingSearchRepository defines the interface for listing search operations (e.g. Typesense)
type ListingSearchRepository interface {
	// Search returns listings matching the server-side filter
	Search(ctx context.Context, filter ListingFilter) ([]*entities.Listing, int, error)

	// Index indexes a listing
	Index(ctx context.Context, listing *entities.Listing) error

	// Delete removes a listing from the index
	Delete(ctx context.Context, id string) error
}

// ListingFilter holds the filters a store can apply server-side. Location and
// PropertyType match when the city or property type contains them, ignoring
// case and surrounding spaces. OwnerID matches exactly.
type ListingFilter struct {
	Location     string
	PropertyType string
	OwnerID      string
	Limit        int
	Offset       int
}

// Matches applies the filter to one listing in memory. Stores without a
// native partial match use it.
func (f ListingFilter) Matches(l *entities.Listing) bool {
	if l == nil {
		return false
	}
	if !containsFold(l.Location.City, f.Location) || !containsFold(l.PropertyType, f.PropertyType) {
		return false
	}
	return f.OwnerID == "" || l.OwnerID == f.OwnerID
}

func containsFold(value, part string) bool {
	part = strings.ToLower(strings.TrimSpace(part))
	return part == "" || strings.Contains(strings.ToLower(value), part)
}
