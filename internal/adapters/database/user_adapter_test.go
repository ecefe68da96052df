package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrentsystem/backend/internal/adapters/database"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

var userColumns = []string{"id", "name", "email", "wishlist", "version", "created_at", "updated_at"}

func userRow(wishlist string, version int64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(userColumns).AddRow("u1", "Ada", "ada@example.com", wishlist, version, now, now)
}

func TestUserAdapter_GetByID_ReadsWishlist(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewUserAdapter(client)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE \("id" = \$1\)`).
		WithArgs("u1").
		WillReturnRows(userRow("{l1,l2}", 4))

	user, err := adapter.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "l2"}, user.Wishlist)
	assert.Equal(t, int64(4), user.Version)
}

func TestUserAdapter_UpdateWishlist(t *testing.T) {
	t.Run("commits when the version matches", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewUserAdapter(client)

		mock.ExpectExec(`UPDATE "users" SET .*"version"=version \+ 1.* WHERE \(\("id" = \$\d\) AND \("version" = \$\d\)\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := adapter.UpdateWishlist(context.Background(), "u1", []string{"l1"}, 3)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a conflict when another write won", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewUserAdapter(client)

		mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnRows(userRow("{l1}", 4))

		err := adapter.UpdateWishlist(context.Background(), "u1", []string{}, 3)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})

	t.Run("reports not found when the user is gone", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewUserAdapter(client)

		mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnRows(sqlmock.NewRows(userColumns))

		err := adapter.UpdateWishlist(context.Background(), "u1", []string{}, 3)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("surfaces write failures as storage errors", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewUserAdapter(client)

		mock.ExpectExec(`UPDATE "users"`).WillReturnError(assert.AnError)

		err := adapter.UpdateWishlist(context.Background(), "u1", []string{"l1"}, 0)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))
	})
}
