package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	mongoclient "github.com/smartrentsystem/backend/internal/infrastructure/clients/mongo"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// ReviewAdapter implements the ReviewRepository interface on MongoDB
type ReviewAdapter struct {
	coll *mongo.Collection
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *mongoclient.Client) repositories.ReviewRepository {
	return &ReviewAdapter{coll: client.Collection(reviewsCollection)}
}

// Create creates a new review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	if _, err := a.coll.InsertOne(ctx, review); err != nil {
		return apperrors.NewStorageError("failed to create review", err)
	}
	return nil
}

// ListByListing retrieves reviews for a listing, newest first
func (a *ReviewAdapter) ListByListing(ctx context.Context, listingID string) ([]*entities.Review, error) {
	return findAll[entities.Review](ctx, a.coll, bson.M{"property": listingID}, "reviews")
}
