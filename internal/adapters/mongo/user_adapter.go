package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	mongoclient "github.com/smartrentsystem/backend/internal/infrastructure/clients/mongo"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// UserAdapter implements the UserRepository interface on MongoDB
type UserAdapter struct {
	coll *mongo.Collection
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *mongoclient.Client) repositories.UserRepository {
	return &UserAdapter{coll: client.Collection(usersCollection)}
}

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	doc := *user
	if doc.Wishlist == nil {
		doc.Wishlist = []string{}
	}
	if _, err := a.coll.InsertOne(ctx, &doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("a user with this email already exists")
		}
		return apperrors.NewStorageError("failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.findOne(ctx, bson.M{"_id": id}, fmt.Sprintf("user with id %s not found", id))
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return a.findOne(ctx, bson.M{"email": strings.ToLower(email)}, "user not found")
}

func (a *UserAdapter) findOne(ctx context.Context, query bson.M, notFound string) (*entities.User, error) {
	var user entities.User
	err := a.coll.FindOne(ctx, query).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to get user", err)
	}
	if user.Wishlist == nil {
		user.Wishlist = []string{}
	}
	return &user, nil
}

// Update updates profile fields. The wishlist and version are left alone.
func (a *UserAdapter) Update(ctx context.Context, user *entities.User) error {
	result, err := a.coll.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"name":      user.Name,
			"email":     user.Email,
			"updatedAt": user.UpdatedAt,
		},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("a user with this email already exists")
		}
		return apperrors.NewStorageError("failed to update user", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", user.ID))
	}
	return nil
}

// UpdateWishlist replaces the wishlist when the stored version matches and
// increments the version in the same update.
func (a *UserAdapter) UpdateWishlist(ctx context.Context, userID string, wishlist []string, expectedVersion int64) error {
	if wishlist == nil {
		wishlist = []string{}
	}
	result, err := a.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "version": expectedVersion},
		bson.M{
			"$set": bson.M{"wishlist": wishlist, "updatedAt": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return apperrors.NewStorageError("failed to update wishlist", err)
	}
	if result.MatchedCount == 1 {
		return nil
	}

	if _, err := a.GetByID(ctx, userID); err != nil {
		return err
	}
	return apperrors.NewConflictError("wishlist was modified concurrently")
}

// Delete deletes a user
func (a *UserAdapter) Delete(ctx context.Context, id string) error {
	result, err := a.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.NewStorageError("failed to delete user", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	return nil
}
