package catalog

import (
	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// Result is a query outcome plus the counts the listings page displays
type Result struct {
	Listings      []*entities.Listing
	TotalBefore   int
	TotalAfter    int
	ActiveFilters int
}

// Query returns the listings in the selected category that pass the filters,
// ordered by spec.SortKey. The input slice is not modified.
func Query(listings []*entities.Listing, spec FilterSpec) []*entities.Listing {
	out := make([]*entities.Listing, 0, len(listings))
	for _, l := range listings {
		if l == nil || !Matches(l, spec.Category) {
			continue
		}
		if !Passes(l, spec) {
			continue
		}
		out = append(out, l)
	}
	Sort(out, spec.SortKey)
	return out
}

// Run is Query with display counts
func Run(listings []*entities.Listing, spec FilterSpec) Result {
	matched := Query(listings, spec)
	return Result{
		Listings:      matched,
		TotalBefore:   len(listings),
		TotalAfter:    len(matched),
		ActiveFilters: ActiveFilters(spec),
	}
}
