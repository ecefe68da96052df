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
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

func TestUserService_Create(t *testing.T) {
	service := services.NewUserService(memory.NewUserAdapter(memory.NewStore()))
	ctx := context.Background()

	user, err := service.Create(ctx, " Ada ", " Ada@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, []string{}, user.Wishlist)

	_, err = service.Create(ctx, "Other", "ADA@example.com")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	_, err = service.Create(ctx, "Nobody", "  ")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestUserService_UpdateProfile(t *testing.T) {
	service := services.NewUserService(memory.NewUserAdapter(memory.NewStore()))
	ctx := context.Background()

	ada, err := service.Create(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)
	_, err = service.Create(ctx, "Bob", "bob@example.com")
	require.NoError(t, err)

	name := "Ada L."
	updated, err := service.UpdateProfile(ctx, ada.ID, services.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, "ada@example.com", updated.Email)

	taken := "bob@example.com"
	_, err = service.UpdateProfile(ctx, ada.ID, services.ProfileUpdate{Email: &taken})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	same := "ADA@example.com"
	_, err = service.UpdateProfile(ctx, ada.ID, services.ProfileUpdate{Email: &same})
	assert.NoError(t, err)
}

func TestUserService_StoreErrorsBecomeStorageErrors(t *testing.T) {
	repo := new(MockUserRepository)
	service := services.NewUserService(repo)

	repo.On("GetByEmail", mock.Anything, "x@y.z").Return(nil, errors.New("timeout"))

	_, err := service.Create(context.Background(), "X", "x@y.z")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
