package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/providers"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
)

// CachedListingAdapter wraps a ListingRepository with read-through caching of
// single listings. Lists are not cached here; the catalog query service caches
// candidate sets itself.
type CachedListingAdapter struct {
	repositories.ListingRepository
	cache providers.CacheProvider
	ttl   int
}

// NewCachedListingAdapter creates a new cached listing adapter
func NewCachedListingAdapter(repo repositories.ListingRepository, cache providers.CacheProvider, ttlSeconds int) repositories.ListingRepository {
	return &CachedListingAdapter{
		ListingRepository: repo,
		cache:             cache,
		ttl:               ttlSeconds,
	}
}

// GetByID retrieves a listing by ID with caching
func (a *CachedListingAdapter) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	key := ListingKey(id)
	var listing entities.Listing
	if readCached(ctx, a.cache, key, &listing) {
		return &listing, nil
	}

	found, err := a.ListingRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	writeCached(ctx, a.cache, key, found, a.ttl)
	return found, nil
}

// GetByIDs serves what it can from cache and loads the rest in one call.
// Results keep the order of ids.
func (a *CachedListingAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Listing, error) {
	if len(ids) == 0 {
		return []*entities.Listing{}, nil
	}

	byID := make(map[string]*entities.Listing, len(ids))
	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		var listing entities.Listing
		if readCached(ctx, a.cache, ListingKey(id), &listing) {
			byID[id] = &listing
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		loaded, err := a.ListingRepository.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, l := range loaded {
			byID[l.ID] = l
			writeCached(ctx, a.cache, ListingKey(l.ID), l, a.ttl)
		}
	}

	out := make([]*entities.Listing, 0, len(byID))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// Update updates the listing and drops its cache entry
func (a *CachedListingAdapter) Update(ctx context.Context, listing *entities.Listing) error {
	if err := a.ListingRepository.Update(ctx, listing); err != nil {
		return err
	}
	invalidate(ctx, a.cache, ListingKey(listing.ID))
	return nil
}

// SetAverageRating writes the rating and drops the cache entry
func (a *CachedListingAdapter) SetAverageRating(ctx context.Context, id string, rating float64) error {
	if err := a.ListingRepository.SetAverageRating(ctx, id, rating); err != nil {
		return err
	}
	invalidate(ctx, a.cache, ListingKey(id))
	return nil
}

// Delete deletes the listing and drops its cache entry
func (a *CachedListingAdapter) Delete(ctx context.Context, id string) error {
	if err := a.ListingRepository.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, a.cache, ListingKey(id))
	return nil
}

func readCached(ctx context.Context, cache providers.CacheProvider, key string, dest any) bool {
	data, err := cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to unmarshal cached value")
		return false
	}
	return true
}

func writeCached(ctx context.Context, cache providers.CacheProvider, key string, value any, ttl int) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := cache.Set(ctx, key, data, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache value")
	}
}

func invalidate(ctx context.Context, cache providers.CacheProvider, keys ...string) {
	if err := cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("Failed to invalidate cache")
	}
}
