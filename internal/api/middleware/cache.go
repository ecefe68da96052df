package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/smartrentsystem/backend/internal/domain/providers"
	"github.com/smartrentsystem/backend/internal/infrastructure/observability"
)

// CacheConfig holds cache configuration for a route prefix
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool
}

// CacheMiddleware caches public GET responses in the CacheProvider
type CacheMiddleware struct {
	cache        providers.CacheProvider
	metrics      *observability.Metrics
	routeConfigs map[string]CacheConfig
}

// DefaultCacheRoutes are the public catalog reads worth caching
func DefaultCacheRoutes(listingTTLSeconds int) map[string]CacheConfig {
	return map[string]CacheConfig{
		"/api/properties":        {TTLSeconds: listingTTLSeconds, Enabled: true},
		"/api/properties/":       {TTLSeconds: listingTTLSeconds, Enabled: true},
		"/api/categories":        {TTLSeconds: 3600, Enabled: true},
		"/api/reviews/property/": {TTLSeconds: 60, Enabled: true},
	}
}

// NewCacheMiddleware creates a new cache middleware. A nil cache disables it.
func NewCacheMiddleware(cache providers.CacheProvider, metrics *observability.Metrics, routes map[string]CacheConfig) *CacheMiddleware {
	return &CacheMiddleware{
		cache:        cache,
		metrics:      metrics,
		routeConfigs: routes,
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// responses for a signed-in caller are never shared
		if r.Method != http.MethodGet || m.cache == nil || r.Header.Get("Authorization") != "" {
			next.ServeHTTP(w, r)
			return
		}

		route, config := m.getRouteConfig(r.URL.Path)
		if !config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		logger := observability.LoggerFromContext(ctx)
		cacheKey := m.generateCacheKey(r)

		if cached, err := m.cache.Get(ctx, cacheKey); err == nil {
			logger.Debug().Str("key", cacheKey).Msg("Cache HIT")
			observability.RecordCacheHit(ctx, m.metrics, route)
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}

		observability.RecordCacheMiss(ctx, m.metrics, route)
		w.Header().Set("X-Cache", "MISS")

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(ctx, cacheKey, recorder.body.Bytes(), config.TTLSeconds); err != nil {
				logger.Warn().Err(err).Str("key", cacheKey).Msg("Failed to cache response")
			}
		}
	})
}

// getRouteConfig returns the longest matching route prefix and its config
func (m *CacheMiddleware) getRouteConfig(path string) (string, CacheConfig) {
	if config, exists := m.routeConfigs[path]; exists {
		return path, config
	}

	best := ""
	for pattern := range m.routeConfigs {
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(path, pattern) && len(pattern) > len(best) {
			best = pattern
		}
	}
	if best == "" {
		return "", CacheConfig{Enabled: false}
	}
	return best, m.routeConfigs[best]
}

// generateCacheKey hashes the method, path and raw query
func (m *CacheMiddleware) generateCacheKey(r *http.Request) string {
	key := r.Method + ":" + r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	hash := sha256.Sum256([]byte(key))
	return "http:cache:" + hex.EncodeToString(hash[:])
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
