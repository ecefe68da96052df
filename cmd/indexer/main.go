package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smartrentsystem/backend/internal/adapters/search"
	"github.com/smartrentsystem/backend/internal/adapters/store"
	"github.com/smartrentsystem/backend/internal/infrastructure/clients/typesense"
	"github.com/smartrentsystem/backend/internal/infrastructure/observability"
	"github.com/smartrentsystem/backend/pkg/config"
	"github.com/smartrentsystem/backend/pkg/secrets"
)

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete the listings collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	if _, err := secrets.Apply(context.Background(), secrets.SourceFromEnv()); err != nil {
		log.Fatal().Err(err).Msg("Failed to load secrets")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger("smart-rent-indexer", cfg.Env)

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Err(err).Str("interval", intervalValue).Msg("Invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg, reset); err != nil {
			log.Error().Err(err).Msg("Reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Info().Dur("next_in", interval).Msg("Reindex complete")

		select {
		case <-ctx.Done():
			log.Info().Msg("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool) error {
	repos, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close()

	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Info().Str("collection", typesense.ListingsCollection).Msg("Deleting collection before reindex")
		if err := tsClient.DropListings(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to delete collection")
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	stats, err := reindex(ctx, repos.Listings, search.NewTypesenseAdapter(tsClient), defaultBatchSize)
	if err != nil {
		return err
	}
	log.Info().Int("indexed", stats.Indexed).Int("failed", stats.Failed).Msg("Indexing complete")
	return nil
}
