package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// UserService handles account profiles. Wishlists are managed by WishlistService.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// ProfileUpdate holds the profile fields to change; nil fields are kept
type ProfileUpdate struct {
	Name  *string
	Email *string
}

// Create registers a user. Emails are unique.
func (s *UserService) Create(ctx context.Context, name, email string) (*entities.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.NewValidationError("email is required")
	}
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &entities.User{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Wishlist:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, storageErr("failed to create user", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("failed to load user", err)
	}
	return user, nil
}

// UpdateProfile changes name and email of a user
func (s *UserService) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*entities.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if email == "" {
			return nil, apperrors.NewValidationError("email must not be empty")
		}
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, storageErr("failed to update user", err)
	}
	return user, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case apperrors.IsNotFound(err):
		return nil
	case err != nil:
		return storageErr("failed to look up email", err)
	case existing.ID != selfID:
		return apperrors.NewConflictError("email already registered")
	}
	return nil
}
