package services

import (
	"context"
	"strings"
	"time"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	"github.com/smartrentsystem/backend/internal/infrastructure/observability"
	"github.com/smartrentsystem/backend/internal/query/catalog"
)

// CandidateCache caches candidate sets between requests
type CandidateCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Source names where the candidates came from
const (
	SourceIndex = "index"
	SourceStore = "store"
	SourceCache = "cache"
)

// CatalogQueryService answers catalog searches. The store or search index
// applies the simple equality filters and the catalog engine applies the rest.
type CatalogQueryService struct {
	search   repositories.ListingSearchRepository
	store    repositories.ListingRepository
	cache    CandidateCache
	cacheTTL time.Duration
	metrics  *observability.Metrics
}

// NewCatalogQueryService creates a new catalog query service. search and cache may be nil.
func NewCatalogQueryService(
	search repositories.ListingSearchRepository,
	store repositories.ListingRepository,
	cache CandidateCache,
	cacheTTL time.Duration,
) *CatalogQueryService {
	return &CatalogQueryService{
		search:   search,
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// SetMetrics enables recording candidate set sizes
func (s *CatalogQueryService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Page selects a window of the result; Limit 0 returns everything
type Page struct {
	Page  int
	Limit int
}

// Pagination describes the returned window
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// SearchResult is an engine result with paging applied
type SearchResult struct {
	catalog.Result
	Pagination Pagination
	Source     string
}

// Search returns the listings passing spec among those matching server
func (s *CatalogQueryService) Search(ctx context.Context, spec catalog.FilterSpec, server repositories.ListingFilter, page Page) (*SearchResult, error) {
	candidates, source, err := s.candidates(ctx, server)
	if err != nil {
		return nil, err
	}

	observability.RecordCatalogCandidates(ctx, s.metrics, source, len(candidates))

	res := catalog.Run(candidates, spec)
	out := &SearchResult{Result: res, Source: source}
	out.Listings, out.Pagination = paginate(res.Listings, page)
	return out, nil
}

func (s *CatalogQueryService) candidates(ctx context.Context, server repositories.ListingFilter) ([]*entities.Listing, string, error) {
	server.Limit, server.Offset = 0, 0
	logger := observability.LoggerFromContext(ctx)
	key := candidateKey(server)

	if s.cache != nil {
		var cached []*entities.Listing
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Candidate cache read failed")
		} else if hit {
			return cached, SourceCache, nil
		}
	}

	listings, source, err := s.fetch(ctx, server)
	if err != nil {
		return nil, "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, listings, s.cacheTTL); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Candidate cache write failed")
		}
	}
	return listings, source, nil
}

func (s *CatalogQueryService) fetch(ctx context.Context, server repositories.ListingFilter) ([]*entities.Listing, string, error) {
	if s.search != nil {
		listings, _, err := s.search.Search(ctx, server)
		if err == nil {
			return listings, SourceIndex, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Search index unavailable, falling back to listing store")
	}

	listings, err := s.store.List(ctx, server)
	if err != nil {
		return nil, "", err
	}
	return listings, SourceStore, nil
}

func candidateKey(f repositories.ListingFilter) string {
	return strings.ToLower(strings.TrimSpace(f.Location)) + "|" + strings.ToLower(strings.TrimSpace(f.PropertyType)) + "|" + f.OwnerID
}

func paginate(listings []*entities.Listing, page Page) ([]*entities.Listing, Pagination) {
	total := len(listings)
	if page.Limit <= 0 {
		return listings, Pagination{Total: total, Page: 1, Limit: total, Pages: 1}
	}
	if page.Page < 1 {
		page.Page = 1
	}

	pages := (total + page.Limit - 1) / page.Limit
	start := (page.Page - 1) * page.Limit
	if start >= total {
		return []*entities.Listing{}, Pagination{Total: total, Page: page.Page, Limit: page.Limit, Pages: pages}
	}
	end := min(start+page.Limit, total)
	return listings[start:end], Pagination{Total: total, Page: page.Page, Limit: page.Limit, Pages: pages}
}
