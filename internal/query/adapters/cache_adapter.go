package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/smartrentsystem/backend/internal/domain/providers"
)

// QueryCacheAdapter stores query results as JSON in the domain CacheProvider
type QueryCacheAdapter struct {
	provider providers.CacheProvider
	prefix   string
}

// NewQueryCacheAdapter creates a new query cache adapter; keys are namespaced by prefix
func NewQueryCacheAdapter(provider providers.CacheProvider, prefix string) *QueryCacheAdapter {
	return &QueryCacheAdapter{provider: provider, prefix: prefix}
}

// Get unmarshals the cached value into dest. It reports false on a miss.
func (a *QueryCacheAdapter) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := a.provider.Get(ctx, a.prefix+key)
	if errors.Is(err, providers.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// a value we cannot read is as good as missing
		_ = a.provider.Delete(ctx, a.prefix+key)
		return false, nil
	}
	return true, nil
}

// Set marshals value to JSON and stores it
func (a *QueryCacheAdapter) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return a.provider.Set(ctx, a.prefix+key, data, int(ttl.Seconds()))
}

// Delete removes a cached value
func (a *QueryCacheAdapter) Delete(ctx context.Context, key string) error {
	return a.provider.Delete(ctx, a.prefix+key)
}
