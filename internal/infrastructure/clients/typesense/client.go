package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/smartrentsystem/backend/pkg/config"
	"github.com/smartrentsystem/backend/pkg/retry"
)

const (
	ListingsCollection = "listings"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(ctx context.Context, cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	err := retry.DoWithLog(
		ctx,
		retry.DefaultConfig(),
		"Typesense",
		func() error {
			healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			_, err := client.Health(healthCtx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("Typesense not ready")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Str("url", cfg.URL).Msg("Connected to Typesense")
	return &Client{client: client}, nil
}

// NewFromServer builds a client without a health check. Tests point it at an httptest server.
func NewFromServer(url, apiKey string) *Client {
	return &Client{client: typesense.NewClient(
		typesense.WithServer(url),
		typesense.WithAPIKey(apiKey),
		typesense.WithConnectionTimeout(2*time.Second),
	)}
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the listings collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == ListingsCollection {
			log.Debug().Str("collection", ListingsCollection).Msg("Typesense collection already exists")
			return nil
		}
	}

	schema := &api.CollectionSchema{
		Name: ListingsCollection,
		Fields: []api.Field{
			{Name: "title", Type: "string"},
			{Name: "city_key", Type: "string", Facet: pointer.True()},
			{Name: "property_type_key", Type: "string", Facet: pointer.True()},
			{Name: "owner_id", Type: "string", Optional: pointer.True()},
			{Name: "price", Type: "float"},
			{Name: "created_at", Type: "int64"},
			{Name: "tags", Type: "string[]", Optional: pointer.True()},
			{Name: "payload", Type: "string", Index: pointer.False(), Optional: pointer.True()},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", ListingsCollection).Msg("Created Typesense collection")
	return nil
}

// DropListings deletes the listings collection
func (c *Client) DropListings(ctx context.Context) error {
	_, err := c.client.Collection(ListingsCollection).Delete(ctx)
	return err
}
