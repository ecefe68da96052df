package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	"github.com/smartrentsystem/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

const usersTable = "users"

var userColumns = []any{"id", "name", "email", "wishlist", "version", "created_at", "updated_at"}

type userRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Email     string         `db:"email"`
	Wishlist  pq.StringArray `db:"wishlist"`
	Version   int64          `db:"version"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r *userRow) toEntity() *entities.User {
	wishlist := []string(r.Wishlist)
	if wishlist == nil {
		wishlist = []string{}
	}
	return &entities.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Wishlist:  wishlist,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	query, args, err := a.db.Insert(usersTable).Rows(goqu.Record{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"wishlist":   stringArray(user.Wishlist),
		"version":    user.Version,
		"created_at": user.CreatedAt,
		"updated_at": user.UpdatedAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("a user with this email already exists")
		}
		return apperrors.NewStorageError("failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.getBy(ctx, goqu.Ex{"id": id}, fmt.Sprintf("user with id %s not found", id))
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return a.getBy(ctx, goqu.Ex{"email": strings.ToLower(email)}, "user not found")
}

func (a *UserAdapter) getBy(ctx context.Context, where goqu.Ex, notFound string) (*entities.User, error) {
	query, args, err := a.db.From(usersTable).Select(userColumns...).Where(where).Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var row userRow
	err = a.client.X().GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to get user", err)
	}
	return row.toEntity(), nil
}

// Update updates profile fields. The wishlist and version are left alone.
func (a *UserAdapter) Update(ctx context.Context, user *entities.User) error {
	query, args, err := a.db.Update(usersTable).Set(goqu.Record{
		"name":       user.Name,
		"email":      user.Email,
		"updated_at": user.UpdatedAt,
	}).Where(goqu.Ex{"id": user.ID}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("a user with this email already exists")
		}
		return apperrors.NewStorageError("failed to update user", err)
	}
	return requireRow(result, fmt.Sprintf("user with id %s not found", user.ID))
}

// UpdateWishlist replaces the wishlist when the stored version matches and
// bumps the version in the same statement.
func (a *UserAdapter) UpdateWishlist(ctx context.Context, userID string, wishlist []string, expectedVersion int64) error {
	query, args, err := a.db.Update(usersTable).Set(goqu.Record{
		"wishlist":   stringArray(wishlist),
		"version":    goqu.L("version + 1"),
		"updated_at": time.Now().UTC(),
	}).Where(goqu.Ex{"id": userID, "version": expectedVersion}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewStorageError("failed to update wishlist", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStorageError("failed to get rows affected", err)
	}
	if rowsAffected == 1 {
		return nil
	}

	// nothing matched: either the user is gone or someone else wrote first
	if _, err := a.GetByID(ctx, userID); err != nil {
		return err
	}
	return apperrors.NewConflictError("wishlist was modified concurrently")
}

// Delete deletes a user
func (a *UserAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete(usersTable).Where(goqu.Ex{"id": id}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewStorageError("failed to delete user", err)
	}
	return requireRow(result, fmt.Sprintf("user with id %s not found", id))
}

// stringArray keeps NOT NULL array columns from receiving NULL
func stringArray(values []string) pq.StringArray {
	if values == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(values)
}
