package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrentsystem/backend/internal/adapters/memory"
	"github.com/smartrentsystem/backend/internal/application/services"
	"github.com/smartrentsystem/backend/internal/domain/entities"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

func TestMessageService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	users := memory.NewUserAdapter(store)
	service := services.NewMessageService(memory.NewMessageAdapter(store), users)

	require.NoError(t, users.Create(ctx, &entities.User{ID: "host"}))
	require.NoError(t, users.Create(ctx, &entities.User{ID: "guest"}))

	_, err := service.Send(ctx, "guest", "host", "L1", "   ")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = service.Send(ctx, "guest", "guest", "", "hi me")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = service.Send(ctx, "guest", "ghost", "", "hello?")
	assert.True(t, apperrors.IsNotFound(err))

	msg, err := service.Send(ctx, "guest", "host", "L1", " Is the cabin free in July? ")
	require.NoError(t, err)
	assert.Equal(t, "Is the cabin free in July?", msg.Body)

	inbox, err := service.Inbox(ctx, "host")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.False(t, inbox[0].Read)

	assert.True(t, apperrors.IsType(service.MarkRead(ctx, "guest", msg.ID), apperrors.ErrorTypeForbidden))
	require.NoError(t, service.MarkRead(ctx, "host", msg.ID))
	require.NoError(t, service.MarkRead(ctx, "host", msg.ID))

	inbox, err = service.Inbox(ctx, "guest")
	require.NoError(t, err)
	assert.True(t, inbox[0].Read)
}
