package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	"github.com/smartrentsystem/backend/internal/infrastructure/observability"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// ListingService handles business logic for listings
type ListingService struct {
	repo       repositories.ListingRepository
	searchRepo repositories.ListingSearchRepository
}

// NewListingService creates a new listing service. searchRepo may be nil.
func NewListingService(repo repositories.ListingRepository, searchRepo repositories.ListingSearchRepository) *ListingService {
	return &ListingService{
		repo:       repo,
		searchRepo: searchRepo,
	}
}

// Create stores a new listing owned by ownerID and indexes it
func (s *ListingService) Create(ctx context.Context, ownerID string, listing *entities.Listing) error {
	if err := validateListing(listing); err != nil {
		return err
	}

	now := time.Now().UTC()
	listing.ID = uuid.New().String()
	listing.OwnerID = ownerID
	listing.CreatedAt = now
	listing.UpdatedAt = now

	if err := s.repo.Create(ctx, listing); err != nil {
		return storageErr("failed to create listing", err)
	}

	s.index(ctx, listing)
	return nil
}

// GetByID retrieves a listing by ID
func (s *ListingService) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("failed to load listing", err)
	}
	return listing, nil
}

// Update replaces the editable fields of a listing. Only its owner may do so.
func (s *ListingService) Update(ctx context.Context, callerID, id string, changes *entities.Listing) (*entities.Listing, error) {
	if err := validateListing(changes); err != nil {
		return nil, err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != "" && existing.OwnerID != callerID {
		return nil, apperrors.NewForbiddenError("only the owner can edit this listing")
	}

	changes.ID = existing.ID
	changes.OwnerID = existing.OwnerID
	changes.CreatedAt = existing.CreatedAt
	changes.UpdatedAt = time.Now().UTC()
	// ratings are derived from reviews
	changes.AverageRating = existing.AverageRating
	changes.Rating = existing.Rating

	if err := s.repo.Update(ctx, changes); err != nil {
		return nil, storageErr("failed to update listing", err)
	}

	s.index(ctx, changes)
	return changes, nil
}

// Delete removes a listing and its index entry. Only its owner may do so.
func (s *ListingService) Delete(ctx context.Context, callerID, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != "" && existing.OwnerID != callerID {
		return apperrors.NewForbiddenError("only the owner can delete this listing")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return storageErr("failed to delete listing", err)
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, id); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("listing_id", id).Msg("Failed to delete listing from index")
		}
	}
	return nil
}

// index is best effort; the listing store stays the source of truth
func (s *ListingService) index(ctx context.Context, listing *entities.Listing) {
	if s.searchRepo == nil {
		return
	}
	if err := s.searchRepo.Index(ctx, listing); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("listing_id", listing.ID).Msg("Failed to index listing")
	}
}

func validateListing(l *entities.Listing) error {
	if l == nil {
		return apperrors.NewValidationError("listing is required")
	}
	if l.Title == "" {
		return apperrors.NewValidationError("title is required")
	}
	if l.Price < 0 || l.Size < 0 {
		return apperrors.NewValidationError("price and size must not be negative")
	}
	if c := l.Capacity; c != nil && (c.Bedrooms < 0 || c.Bathrooms < 0 || c.Guests < 0 || c.Beds < 0) {
		return apperrors.NewValidationError("capacity must not be negative")
	}
	for name := range l.Amenities {
		if !entities.IsAmenity(name) {
			return apperrors.NewValidationError("unknown amenity " + name)
		}
	}
	return nil
}
