package repositories

import (
	"context"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update updates profile fields of a user. The wishlist is not touched.
	Update(ctx context.Context, user *entities.User) error

	// UpdateWishlist replaces the wishlist if the stored version still equals
	// expectedVersion and bumps the version. A mismatch yields a conflict error.
	UpdateWishlist(ctx context.Context, userID string, wishlist []string, expectedVersion int64) error

	// Delete deletes a user
	Delete(ctx context.Context, id string) error
}
