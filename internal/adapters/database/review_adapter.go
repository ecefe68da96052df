package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	"github.com/smartrentsystem/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	query, args, err := a.db.Insert("reviews").Rows(goqu.Record{
		"id":         review.ID,
		"listing_id": review.ListingID,
		"user_id":    review.UserID,
		"rating":     review.Rating,
		"comment":    review.Comment,
		"created_at": review.CreatedAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewStorageError("failed to create review", err)
	}
	return nil
}

// ListByListing retrieves reviews for a listing, newest first
func (a *ReviewAdapter) ListByListing(ctx context.Context, listingID string) ([]*entities.Review, error) {
	query, args, err := a.db.From("reviews").
		Select("id", "listing_id", "user_id", "rating", "comment", "created_at").
		Where(goqu.Ex{"listing_id": listingID}).
		Order(goqu.C("created_at").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	reviews := []*entities.Review{}
	if err := a.client.X().SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, apperrors.NewStorageError("failed to list reviews", err)
	}
	return reviews, nil
}
