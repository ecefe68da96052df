package cache

import (
	"context"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/providers"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
)

// CachedUserAdapter caches users by ID. Every write through it drops the
// cached entry, so the version read by the wishlist service is never older
// than the last write made through this adapter.
type CachedUserAdapter struct {
	repositories.UserRepository
	cache providers.CacheProvider
	ttl   int
}

// NewCachedUserAdapter creates a new cached user adapter
func NewCachedUserAdapter(repo repositories.UserRepository, cache providers.CacheProvider, ttlSeconds int) repositories.UserRepository {
	return &CachedUserAdapter{
		UserRepository: repo,
		cache:          cache,
		ttl:            ttlSeconds,
	}
}

// GetByID retrieves a user by ID with caching
func (a *CachedUserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	key := UserKey(id)
	var user cachedUser
	if readCached(ctx, a.cache, key, &user) {
		return user.toEntity(), nil
	}

	found, err := a.UserRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	writeCached(ctx, a.cache, key, fromUser(found), a.ttl)
	return found, nil
}

// Update updates profile fields and drops the cache entry
func (a *CachedUserAdapter) Update(ctx context.Context, user *entities.User) error {
	if err := a.UserRepository.Update(ctx, user); err != nil {
		return err
	}
	invalidate(ctx, a.cache, UserKey(user.ID))
	return nil
}

// UpdateWishlist commits the wishlist and drops the cache entry. The entry is
// also dropped after a conflict so the next read sees the winning write.
func (a *CachedUserAdapter) UpdateWishlist(ctx context.Context, userID string, wishlist []string, expectedVersion int64) error {
	err := a.UserRepository.UpdateWishlist(ctx, userID, wishlist, expectedVersion)
	invalidate(ctx, a.cache, UserKey(userID))
	return err
}

// Delete deletes the user and drops the cache entry
func (a *CachedUserAdapter) Delete(ctx context.Context, id string) error {
	if err := a.UserRepository.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, a.cache, UserKey(id))
	return nil
}

// cachedUser carries the version, which the public JSON form hides
type cachedUser struct {
	entities.User
	Version int64 `json:"version"`
}

func fromUser(u *entities.User) cachedUser {
	return cachedUser{User: *u, Version: u.Version}
}

func (c cachedUser) toEntity() *entities.User {
	u := c.User
	u.Version = c.Version
	if u.Wishlist == nil {
		u.Wishlist = []string{}
	}
	return &u
}
