package mongo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	mongoadapter "github.com/smartrentsystem/backend/internal/adapters/mongo"
	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	mongoclient "github.com/smartrentsystem/backend/internal/infrastructure/clients/mongo"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

const (
	listingsNS = "smart_rent.properties"
	usersNS    = "smart_rent.users"
)

func TestListingAdapter(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("GetByID decodes images and capacity", func(mt *mtest.T) {
		repo := mongoadapter.NewListingAdapter(mongoclient.NewFromDatabase(mt.DB))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, listingsNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "l1"},
			{Key: "title", Value: "Loft"},
			{Key: "price", Value: 120.0},
			{Key: "propertyType", Value: "Apartment"},
			{Key: "location", Value: bson.D{{Key: "city", Value: "Lisbon"}, {Key: "country", Value: "Portugal"}}},
			{Key: "capacity", Value: bson.D{{Key: "bedrooms", Value: 2}, {Key: "guests", Value: 4}}},
			{Key: "amenities", Value: bson.D{{Key: "wifi", Value: true}}},
			{Key: "images", Value: bson.A{"https://img/1.jpg", "https://img/2.jpg"}},
		}))

		listing, err := repo.GetByID(ctx, "l1")
		require.NoError(mt, err)
		assert.Equal(mt, "Loft", listing.Title)
		assert.Equal(mt, "Lisbon", listing.Location.City)
		assert.Equal(mt, 2, listing.Bedrooms())
		assert.True(mt, listing.HasAmenity(entities.AmenityWifi))
		assert.Nil(mt, listing.AverageRating)
		assert.Equal(mt, []string{"https://img/1.jpg", "https://img/2.jpg"}, listing.ImageURLs())
	})

	mt.Run("GetByID missing", func(mt *mtest.T) {
		repo := mongoadapter.NewListingAdapter(mongoclient.NewFromDatabase(mt.DB))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, listingsNS, mtest.FirstBatch))

		_, err := repo.GetByID(ctx, "nope")
		assert.True(mt, apperrors.IsNotFound(err))
	})

	mt.Run("Create duplicate id", func(mt *mtest.T) {
		repo := mongoadapter.NewListingAdapter(mongoclient.NewFromDatabase(mt.DB))
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(ctx, &entities.Listing{ID: "l1", Title: "Loft"})
		assert.True(mt, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})

	mt.Run("List returns every document", func(mt *mtest.T) {
		repo := mongoadapter.NewListingAdapter(mongoclient.NewFromDatabase(mt.DB))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, listingsNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "a"}, {Key: "title", Value: "A"}},
			bson.D{{Key: "_id", Value: "b"}, {Key: "title", Value: "B"}},
		))

		listings, err := repo.List(ctx, listingFilter("Lisbon"))
		require.NoError(mt, err)
		require.Len(mt, listings, 2)
		assert.Equal(mt, "a", listings[0].ID)
		assert.Equal(mt, "b", listings[1].ID)
	})
}

func TestUserAdapter_UpdateWishlist(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("matching version", func(mt *mtest.T) {
		repo := mongoadapter.NewUserAdapter(mongoclient.NewFromDatabase(mt.DB))
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		require.NoError(mt, repo.UpdateWishlist(ctx, "u1", []string{"l1"}, 3))
	})

	mt.Run("stale version", func(mt *mtest.T) {
		repo := mongoadapter.NewUserAdapter(mongoclient.NewFromDatabase(mt.DB))
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "u1"},
				{Key: "email", Value: "u1@example.com"},
				{Key: "version", Value: int64(4)},
			}),
		)

		err := repo.UpdateWishlist(ctx, "u1", []string{"l1"}, 3)
		assert.True(mt, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})

	mt.Run("missing user", func(mt *mtest.T) {
		repo := mongoadapter.NewUserAdapter(mongoclient.NewFromDatabase(mt.DB))
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch),
		)

		err := repo.UpdateWishlist(ctx, "ghost", nil, 0)
		assert.True(mt, apperrors.IsNotFound(err))
	})

	mt.Run("GetByID defaults a missing wishlist to empty", func(mt *mtest.T) {
		repo := mongoadapter.NewUserAdapter(mongoclient.NewFromDatabase(mt.DB))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u1"},
			{Key: "email", Value: "u1@example.com"},
		}))

		user, err := repo.GetByID(ctx, "u1")
		require.NoError(mt, err)
		assert.NotNil(mt, user.Wishlist)
		assert.Empty(mt, user.Wishlist)
	})
}

func listingFilter(city string) repositories.ListingFilter {
	return repositories.ListingFilter{Location: city, Limit: 20}
}
