package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/smartrentsystem/backend/pkg/config"
	"github.com/smartrentsystem/backend/pkg/retry"
)

// Client wraps a MongoDB connection bound to one database
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewClient connects to MongoDB and waits until the primary answers a ping
func NewClient(ctx context.Context, cfg *config.MongoConfig) (*Client, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(10*time.Second).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	err = retry.DoWithLog(
		ctx,
		retry.DefaultConfig(),
		"MongoDB",
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return client.Ping(pingCtx, readpref.Primary())
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("MongoDB not ready")
		},
	)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB after retries: %w", err)
	}

	log.Info().Str("database", cfg.Database).Msg("Connected to MongoDB")
	return &Client{client: client, db: client.Database(cfg.Database)}, nil
}

// Database returns the configured database
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Collection returns a collection of the configured database
func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// Ping verifies the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// NewFromDatabase wraps an existing database handle. Tests use it with mtest mocks.
func NewFromDatabase(db *mongo.Database) *Client {
	return &Client{client: db.Client(), db: db}
}
