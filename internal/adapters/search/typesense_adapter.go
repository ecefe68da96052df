package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	tsclient "github.com/smartrentsystem/backend/internal/infrastructure/clients/typesense"
)

// maxPerPage is the largest page Typesense serves
const maxPerPage = 250

const maxListingTags = 50

// TypesenseAdapter implements listing search using Typesense. Each document
// carries the full listing as JSON so hits decode without a store round trip.
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.ListingSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a listing document
func (a *TypesenseAdapter) Index(ctx context.Context, listing *entities.Listing) error {
	doc, err := listingDocument(listing)
	if err != nil {
		return err
	}
	if _, err := a.client.Client().Collection(tsclient.ListingsCollection).Documents().Upsert(ctx, doc); err != nil {
		return fmt.Errorf("failed to index listing: %w", err)
	}
	return nil
}

// Delete removes a listing from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	if _, err := a.client.Client().Collection(tsclient.ListingsCollection).Document(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete listing from index: %w", err)
	}
	return nil
}

// Search returns listings matching the filter, newest first. A zero Limit
// walks every page. Typesense filters only match whole values, so the owner is
// filtered in the index and city and property type are matched on the hits.
func (a *TypesenseAdapter) Search(ctx context.Context, filter repositories.ListingFilter) ([]*entities.Listing, int, error) {
	if !hasPartialClauses(filter) {
		return a.searchPages(ctx, filter)
	}

	all := filter
	all.Limit, all.Offset = 0, 0
	hits, _, err := a.searchPages(ctx, all)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]*entities.Listing, 0, len(hits))
	for _, l := range hits {
		if filter.Matches(l) {
			matched = append(matched, l)
		}
	}
	return window(matched, filter.Offset, filter.Limit), len(matched), nil
}

func (a *TypesenseAdapter) searchPages(ctx context.Context, filter repositories.ListingFilter) ([]*entities.Listing, int, error) {
	perPage := maxPerPage
	if filter.Limit > 0 && filter.Limit < maxPerPage {
		perPage = filter.Limit
	}
	page := 1
	if filter.Limit > 0 {
		page = filter.Offset/filter.Limit + 1
	}

	listings := []*entities.Listing{}
	found := 0
	for {
		params := &api.SearchCollectionParams{
			Q:       pointer.String("*"),
			QueryBy: pointer.String("title"),
			SortBy:  pointer.String("created_at:desc"),
			Page:    pointer.Int(page),
			PerPage: pointer.Int(perPage),
		}
		if filterBy := buildFilterBy(filter); filterBy != "" {
			params.FilterBy = pointer.String(filterBy)
		}

		result, err := a.client.Client().Collection(tsclient.ListingsCollection).Documents().Search(ctx, params)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to search listings: %w", err)
		}
		if result.Found != nil {
			found = *result.Found
		}

		hits := 0
		if result.Hits != nil {
			for _, hit := range *result.Hits {
				if hit.Document == nil {
					continue
				}
				hits++
				listing, err := decodeListing(*hit.Document)
				if err != nil {
					return nil, 0, err
				}
				listings = append(listings, listing)
			}
		}

		if filter.Limit > 0 || hits < perPage || len(listings) >= found {
			break
		}
		page++
	}
	return listings, found, nil
}

func hasPartialClauses(filter repositories.ListingFilter) bool {
	return strings.TrimSpace(filter.Location) != "" || strings.TrimSpace(filter.PropertyType) != ""
}

func window(listings []*entities.Listing, offset, limit int) []*entities.Listing {
	offset = max(offset, 0)
	if offset >= len(listings) {
		return []*entities.Listing{}
	}
	listings = listings[offset:]
	if limit > 0 && limit < len(listings) {
		listings = listings[:limit]
	}
	return listings
}

func buildFilterBy(filter repositories.ListingFilter) string {
	if filter.OwnerID == "" {
		return ""
	}
	return "owner_id:=" + quoteFilterValue(filter.OwnerID)
}

// quoteFilterValue wraps a value in backticks so commas and spaces stay literal
func quoteFilterValue(v string) string {
	return "`" + strings.ReplaceAll(v, "`", "") + "`"
}

func listingDocument(l *entities.Listing) (map[string]any, error) {
	payload, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to encode listing %s: %w", l.ID, err)
	}

	tags := newTagBuilder(maxListingTags)
	tags.add(l.Title, l.PropertyType, l.Category, l.Location.City, l.Location.State, l.Location.Country)
	for _, name := range entities.AmenityNames {
		if l.HasAmenity(name) {
			tags.add(name)
		}
	}

	var createdAt int64
	if !l.CreatedAt.IsZero() {
		createdAt = l.CreatedAt.Unix()
	}

	doc := map[string]any{
		"id":                l.ID,
		"title":             l.Title,
		"city_key":          normalize(l.Location.City),
		"property_type_key": normalize(l.PropertyType),
		"price":             l.Price,
		"created_at":        createdAt,
		"payload":           string(payload),
	}
	if l.OwnerID != "" {
		doc["owner_id"] = l.OwnerID
	}
	if t := tags.tags(); len(t) > 0 {
		doc["tags"] = t
	}
	return doc, nil
}

func decodeListing(doc map[string]any) (*entities.Listing, error) {
	payload, ok := doc["payload"].(string)
	if !ok {
		return nil, fmt.Errorf("indexed listing %v has no payload", doc["id"])
	}
	var listing entities.Listing
	if err := json.Unmarshal([]byte(payload), &listing); err != nil {
		return nil, fmt.Errorf("failed to decode indexed listing %v: %w", doc["id"], err)
	}
	return &listing, nil
}

type tagBuilder struct {
	seen  map[string]struct{}
	list  []string
	limit int
}

func newTagBuilder(limit int) *tagBuilder {
	return &tagBuilder{seen: make(map[string]struct{}), limit: limit}
}

func (b *tagBuilder) add(values ...string) {
	for _, value := range values {
		if b.limit > 0 && len(b.list) >= b.limit {
			return
		}
		normalized := normalize(value)
		if normalized == "" {
			continue
		}
		if _, exists := b.seen[normalized]; exists {
			continue
		}
		b.seen[normalized] = struct{}{}
		b.list = append(b.list, normalized)
	}
}

func (b *tagBuilder) tags() []string {
	return b.list
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
