// Package store opens the persistence backend selected by STORE_DRIVER.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smartrentsystem/backend/internal/adapters/database"
	"github.com/smartrentsystem/backend/internal/adapters/memory"
	mongoadapter "github.com/smartrentsystem/backend/internal/adapters/mongo"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	"github.com/smartrentsystem/backend/internal/infrastructure/clients/mongo"
	"github.com/smartrentsystem/backend/internal/infrastructure/clients/postgres"
	"github.com/smartrentsystem/backend/pkg/config"
)

// Repositories groups the adapters of one backend
type Repositories struct {
	Listings repositories.ListingRepository
	Users    repositories.UserRepository
	Bookings repositories.BookingRepository
	Reviews  repositories.ReviewRepository
	Messages repositories.MessageRepository

	close func()
}

// Close releases the backend connection
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// Open connects the backend named by cfg.Store.Driver. Postgres gets its
// schema and Mongo its indexes before the adapters are returned.
func Open(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		client, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx, client); err != nil {
			_ = client.Close()
			return nil, err
		}
		return &Repositories{
			Listings: database.NewListingAdapter(client),
			Users:    database.NewUserAdapter(client),
			Bookings: database.NewBookingAdapter(client),
			Reviews:  database.NewReviewAdapter(client),
			Messages: database.NewMessageAdapter(client),
			close:    func() { _ = client.Close() },
		}, nil

	case config.StoreDriverMongo:
		client, err := mongo.NewClient(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := mongoadapter.EnsureIndexes(ctx, client); err != nil {
			log.Warn().Err(err).Msg("Failed to ensure MongoDB indexes")
		}
		return &Repositories{
			Listings: mongoadapter.NewListingAdapter(client),
			Users:    mongoadapter.NewUserAdapter(client),
			Bookings: mongoadapter.NewBookingAdapter(client),
			Reviews:  mongoadapter.NewReviewAdapter(client),
			Messages: mongoadapter.NewMessageAdapter(client),
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Close(ctx)
			},
		}, nil

	case config.StoreDriverMemory:
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		return NewMemory(memory.NewStore()), nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// NewMemory wraps an in-memory store
func NewMemory(s *memory.Store) *Repositories {
	return &Repositories{
		Listings: memory.NewListingAdapter(s),
		Users:    memory.NewUserAdapter(s),
		Bookings: memory.NewBookingAdapter(s),
		Reviews:  memory.NewReviewAdapter(s),
		Messages: memory.NewMessageAdapter(s),
	}
}
