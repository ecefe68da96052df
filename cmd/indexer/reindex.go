package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
)

const defaultBatchSize = 500

// listingIndex is the part of the search index the reindexer writes to
type listingIndex interface {
	Index(ctx context.Context, listing *entities.Listing) error
}

type reindexStats struct {
	Indexed int
	Failed  int
}

// reindex pages through every stored listing and upserts it into the index.
// A listing that fails to index is logged and skipped.
func reindex(ctx context.Context, listings repositories.ListingRepository, index listingIndex, batchSize int) (reindexStats, error) {
	var stats reindexStats
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	for offset := 0; ; offset += batchSize {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		batch, err := listings.List(ctx, repositories.ListingFilter{Limit: batchSize, Offset: offset})
		if err != nil {
			return stats, err
		}

		for _, l := range batch {
			if l == nil {
				continue
			}
			if err := index.Index(ctx, l); err != nil {
				stats.Failed++
				log.Warn().Err(err).Str("listing_id", l.ID).Msg("Failed to index listing")
				continue
			}
			stats.Indexed++
		}

		if len(batch) < batchSize {
			return stats, nil
		}
	}
}
