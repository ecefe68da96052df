package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/providers"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	"github.com/smartrentsystem/backend/internal/infrastructure/observability"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// ReviewService handles listing reviews and keeps averageRating current
type ReviewService struct {
	repo       repositories.ReviewRepository
	listings   repositories.ListingRepository
	searchRepo repositories.ListingSearchRepository
	locker     providers.Locker
}

// NewReviewService creates a new review service. searchRepo may be nil.
func NewReviewService(
	repo repositories.ReviewRepository,
	listings repositories.ListingRepository,
	searchRepo repositories.ListingSearchRepository,
	locker providers.Locker,
) *ReviewService {
	return &ReviewService{
		repo:       repo,
		listings:   listings,
		searchRepo: searchRepo,
		locker:     locker,
	}
}

// Create stores a review and recomputes the listing's average rating. Reviews
// of one listing are serialized and only the listing's rating is written.
func (s *ReviewService) Create(ctx context.Context, userID, listingID string, rating int, comment string) (*entities.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, storageErr("failed to load listing", err)
	}

	unlock, err := s.locker.Lock(ctx, "reviews:"+listingID)
	if err != nil {
		return nil, storageErr("failed to lock listing reviews", err)
	}
	defer unlock()

	review := &entities.Review{
		ID:        uuid.New().String(),
		ListingID: listingID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, storageErr("failed to create review", err)
	}

	reviews, err := s.repo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, storageErr("failed to load reviews", err)
	}
	if err := s.listings.SetAverageRating(ctx, listingID, averageRating(reviews)); err != nil {
		return nil, storageErr("failed to update listing rating", err)
	}

	if s.searchRepo != nil {
		s.reindex(ctx, listingID)
	}
	return review, nil
}

// reindex pushes the stored listing, not a copy read before the write
func (s *ReviewService) reindex(ctx context.Context, listingID string) {
	logger := observability.LoggerFromContext(ctx)
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		logger.Warn().Err(err).Str("listing_id", listingID).Msg("Failed to reload listing after review")
		return
	}
	if err := s.searchRepo.Index(ctx, listing); err != nil {
		logger.Warn().Err(err).Str("listing_id", listingID).Msg("Failed to reindex listing after review")
	}
}

// ListByListing returns the reviews of a listing
func (s *ReviewService) ListByListing(ctx context.Context, listingID string) ([]*entities.Review, error) {
	reviews, err := s.repo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, storageErr("failed to list reviews", err)
	}
	return reviews, nil
}

// averageRating is rounded to one decimal
func averageRating(reviews []*entities.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}
