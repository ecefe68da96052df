package loaders

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// Loaders contains the request scoped dataloaders
type Loaders struct {
	ListingLoader *dataloader.Loader[string, *entities.Listing]
}

// NewLoaders creates a new instance of Loaders
func NewLoaders(listingRepo repositories.ListingRepository) *Loaders {
	return &Loaders{
		ListingLoader: dataloader.NewBatchedLoader(
			func(ctx context.Context, keys []string) []*dataloader.Result[*entities.Listing] {
				results := make([]*dataloader.Result[*entities.Listing], len(keys))
				listings, err := listingRepo.GetByIDs(ctx, keys)

				byID := make(map[string]*entities.Listing, len(listings))
				if err == nil {
					for _, l := range listings {
						byID[l.ID] = l
					}
				}

				for i, key := range keys {
					if err != nil {
						results[i] = &dataloader.Result[*entities.Listing]{Error: err}
					} else if l, ok := byID[key]; ok {
						results[i] = &dataloader.Result[*entities.Listing]{Data: l}
					} else {
						results[i] = &dataloader.Result[*entities.Listing]{
							Error: apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", key)),
						}
					}
				}
				return results
			},
			dataloader.WithWait[string, *entities.Listing](2*time.Millisecond),
		),
	}
}

// For returns the loaders for a given context, or nil when none are attached
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

// Middleware attaches fresh loaders to every request so batches never
// outlive the request that filled them
func Middleware(listingRepo repositories.ListingRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(listingRepo))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoadListings resolves ids through the request loader. Listings that no
// longer exist come back as nil; any other failure is returned.
func LoadListings(ctx context.Context, ids []string) (map[string]*entities.Listing, error) {
	out := make(map[string]*entities.Listing, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	l := For(ctx)
	if l == nil {
		return nil, apperrors.NewInternalError("listing loader missing from context", nil)
	}

	listings, errs := l.ListingLoader.LoadMany(ctx, ids)()
	for i, id := range ids {
		var err error
		if i < len(errs) {
			err = errs[i]
		}
		switch {
		case err == nil:
			out[id] = listings[i]
		case apperrors.IsNotFound(err):
			out[id] = nil
		default:
			return nil, err
		}
	}
	return out, nil
}
