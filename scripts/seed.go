package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smartrentsystem/backend/internal/adapters/lock"
	"github.com/smartrentsystem/backend/internal/adapters/search"
	"github.com/smartrentsystem/backend/internal/adapters/store"
	"github.com/smartrentsystem/backend/internal/application/services"
	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	"github.com/smartrentsystem/backend/internal/infrastructure/clients/typesense"
	"github.com/smartrentsystem/backend/internal/infrastructure/observability"
	"github.com/smartrentsystem/backend/pkg/config"
	"github.com/smartrentsystem/backend/pkg/secrets"
)

func main() {
	if _, err := secrets.Apply(context.Background(), secrets.SourceFromEnv()); err != nil {
		log.Fatal().Err(err).Msg("Failed to load secrets")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger("smart-rent-seed", cfg.Env)

	ctx := context.Background()

	repos, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer repos.Close()

	var searchRepo repositories.ListingSearchRepository
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, seeding the store only")
		} else if err := tsClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Typesense schema")
		} else {
			searchRepo = search.NewTypesenseAdapter(tsClient)
		}
	}

	users := services.NewUserService(repos.Users)
	listings := services.NewListingService(repos.Listings, searchRepo)
	reviews := services.NewReviewService(repos.Reviews, repos.Listings, searchRepo, lock.NewLocalLocker())

	// 1. Seed hosts and guests
	host, err := users.Create(ctx, "Marta Host", envOr("SEED_HOST_EMAIL", "host@smartrent.example"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create host user")
	}
	guest, err := users.Create(ctx, "Gui Guest", envOr("SEED_GUEST_EMAIL", "guest@smartrent.example"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create guest user")
	}

	// 2. Seed listings across categories
	seeded := make([]*entities.Listing, 0, len(seedListings))
	for _, l := range seedListings {
		listing := l
		if err := listings.Create(ctx, host.ID, &listing); err != nil {
			log.Error().Err(err).Str("title", l.Title).Msg("Failed to create listing")
			continue
		}
		seeded = append(seeded, &listing)
		// keeps createdAt distinct so "newest" has a stable order
		time.Sleep(5 * time.Millisecond)
	}

	// 3. Seed a few reviews so ratings and topRated have data
	for i, l := range seeded {
		if i%2 != 0 {
			continue
		}
		rating := 5 - i%3
		if _, err := reviews.Create(ctx, guest.ID, l.ID, rating, "Seeded review"); err != nil {
			log.Error().Err(err).Str("listing_id", l.ID).Msg("Failed to create review")
		}
	}

	log.Info().
		Int("listings", len(seeded)).
		Str("host_id", host.ID).
		Str("guest_id", guest.ID).
		Msg("Seeding complete")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func caps(bedrooms, bathrooms, guests, beds int) *entities.Capacity {
	return &entities.Capacity{Bedrooms: bedrooms, Bathrooms: bathrooms, Guests: guests, Beds: beds}
}

func amenities(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

var seedListings = []entities.Listing{
	{
		Title: "Sunny loft near the river", Price: 120, PropertyType: "Apartment", Category: "Apartment",
		Location: entities.Location{City: "Lisbon", Country: "Portugal"},
		Capacity: caps(1, 1, 2, 1), Amenities: amenities("wifi", "kitchen", "workspace"), Size: 55, Trending: true,
		Images: entities.ImagesFromURLs([]string{"https://images.example/loft-1.jpg"}),
	},
	{
		Title: "Cliffside villa with pool", Price: 480, PropertyType: "Villa", Category: "Luxury villa",
		Location: entities.Location{City: "Lagos", Country: "Portugal"},
		Capacity: caps(4, 3, 8, 5), Amenities: amenities("wifi", "pool", "parking", "ac"), Size: 260,
		Images: entities.ImagesFromURLs([]string{"https://images.example/villa-1.jpg", "https://images.example/villa-2.jpg"}),
	},
	{
		Title: "Pine cabin by the lake", Price: 150, PropertyType: "Cabin", Category: "Lakefront cabin",
		Location: entities.Location{City: "Gerês", Country: "Portugal"},
		Capacity: caps(2, 1, 4, 3), Amenities: amenities("kitchen", "parking", "petFriendly"), Size: 80,
	},
	{
		Title: "Beach house with hot tub", Price: 320, PropertyType: "House", Category: "Beach",
		Location: entities.Location{City: "Ericeira", Country: "Portugal"},
		Capacity: caps(3, 2, 6, 4), Amenities: amenities("wifi", "hotTub", "washer", "dryer"), Size: 140, Trending: true,
	},
	{
		Title: "Tiny home in the vineyard", Price: 95, PropertyType: "Tiny homes", Category: "Vineyard",
		Location: entities.Location{City: "Porto", Country: "Portugal"},
		Capacity: caps(1, 1, 2, 1), Amenities: amenities("wifi", "breakfast"), Size: 25,
	},
	{
		Title: "Historic manor with gym", Price: 650, PropertyType: "Mansion", Category: "Historic",
		Location: entities.Location{City: "Sintra", Country: "Portugal"},
		Capacity: caps(6, 5, 12, 8), Amenities: amenities("wifi", "pool", "gym", "parking", "ac"), Size: 600,
	},
	{
		Title: "City condo with workspace", Price: 140, PropertyType: "Condo", Category: "Design",
		Location: entities.Location{City: "Lisbon", Country: "Portugal"},
		Capacity: caps(2, 1, 3, 2), Amenities: amenities("wifi", "workspace", "ac", "washer"), Size: 70,
	},
	{
		Title: "Treehouse above the valley", Price: 110, PropertyType: "Treehouse", Category: "Amazing views",
		Location: entities.Location{City: "Monchique", Country: "Portugal"},
		Capacity: caps(1, 1, 2, 1), Amenities: amenities("breakfast"), Size: 20, Trending: true,
	},
}
