package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartrentsystem/backend/internal/adapters/memory"
	"github.com/smartrentsystem/backend/internal/application/services"
	"github.com/smartrentsystem/backend/internal/domain/entities"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

func TestListingService_CreateIndexes(t *testing.T) {
	repo := memory.NewListingAdapter(memory.NewStore())
	search := new(MockListingSearchRepository)
	service := services.NewListingService(repo, search)

	search.On("Index", mock.Anything, mock.AnythingOfType("*entities.Listing")).Return(errors.New("typesense down"))

	listing := &entities.Listing{Title: "Sea view", Price: 90}
	err := service.Create(context.Background(), "owner-1", listing)

	// indexing failures are logged, not returned
	require.NoError(t, err)
	assert.NotEmpty(t, listing.ID)
	assert.Equal(t, "owner-1", listing.OwnerID)
	assert.False(t, listing.CreatedAt.IsZero())
	search.AssertExpectations(t)

	stored, err := repo.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sea view", stored.Title)
}

func TestListingService_CreateValidates(t *testing.T) {
	service := services.NewListingService(memory.NewListingAdapter(memory.NewStore()), nil)

	tests := []struct {
		name    string
		listing *entities.Listing
	}{
		{"missing title", &entities.Listing{Price: 10}},
		{"negative price", &entities.Listing{Title: "x", Price: -1}},
		{"negative bedrooms", &entities.Listing{Title: "x", Capacity: &entities.Capacity{Bedrooms: -1}}},
		{"unknown amenity", &entities.Listing{Title: "x", Amenities: map[string]bool{"sauna": true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Create(context.Background(), "o", tt.listing)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		})
	}
}

func TestListingService_UpdateOwnerOnly(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewListingAdapter(memory.NewStore())
	service := services.NewListingService(repo, nil)

	rating := 4.2
	require.NoError(t, repo.Create(ctx, &entities.Listing{ID: "L1", Title: "Old", OwnerID: "owner", AverageRating: &rating}))

	_, err := service.Update(ctx, "intruder", "L1", &entities.Listing{Title: "Hacked"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))

	updated, err := service.Update(ctx, "owner", "L1", &entities.Listing{Title: "New", Price: 120})
	require.NoError(t, err)
	assert.Equal(t, "L1", updated.ID)
	assert.Equal(t, "owner", updated.OwnerID)
	require.NotNil(t, updated.AverageRating)
	assert.Equal(t, 4.2, *updated.AverageRating)

	_, err = service.Update(ctx, "owner", "missing", &entities.Listing{Title: "x"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListingService_DeleteRemovesFromIndex(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewListingAdapter(memory.NewStore())
	search := new(MockListingSearchRepository)
	service := services.NewListingService(repo, search)
	require.NoError(t, repo.Create(ctx, &entities.Listing{ID: "L1", Title: "x", OwnerID: "owner"}))

	assert.True(t, apperrors.IsType(service.Delete(ctx, "someone", "L1"), apperrors.ErrorTypeForbidden))

	search.On("Delete", mock.Anything, "L1").Return(nil)
	require.NoError(t, service.Delete(ctx, "owner", "L1"))
	search.AssertExpectations(t)

	_, err := repo.GetByID(ctx, "L1")
	assert.True(t, apperrors.IsNotFound(err))
}
