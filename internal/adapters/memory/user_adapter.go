package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// UserAdapter implements UserRepository on a Store
type UserAdapter struct {
	store *Store
}

// NewUserAdapter creates a new in-memory user adapter
func NewUserAdapter(store *Store) *UserAdapter {
	return &UserAdapter{store: store}
}

var _ repositories.UserRepository = (*UserAdapter)(nil)

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	if _, exists := a.store.users[user.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("user %s already exists", user.ID))
	}
	a.store.users[user.ID] = cloneUser(user)
	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	u, ok := a.store.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", id))
	}
	return cloneUser(u), nil
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	for _, u := range a.store.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

// Update updates profile fields
func (a *UserAdapter) Update(ctx context.Context, user *entities.User) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	stored, ok := a.store.users[user.ID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", user.ID))
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.UpdatedAt = user.UpdatedAt
	return nil
}

// UpdateWishlist replaces the wishlist when the version matches
func (a *UserAdapter) UpdateWishlist(ctx context.Context, userID string, wishlist []string, expectedVersion int64) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	stored, ok := a.store.users[userID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", userID))
	}
	if stored.Version != expectedVersion {
		return apperrors.NewConflictError("wishlist was modified concurrently")
	}
	stored.Wishlist = slices.Clone(wishlist)
	stored.Version++
	return nil
}

// Delete deletes a user
func (a *UserAdapter) Delete(ctx context.Context, id string) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	if _, ok := a.store.users[id]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", id))
	}
	delete(a.store.users, id)
	return nil
}
