package catalog

import (
	"cmp"
	"slices"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// SortKey selects the result order
type SortKey string

const (
	SortPriceLowHigh SortKey = "price-low-high"
	SortPriceHighLow SortKey = "price-high-low"
	SortRating       SortKey = "rating"
	SortNewest       SortKey = "newest"
	SortBedrooms     SortKey = "bedrooms"
)

// Valid reports whether the key is one the comparator orders by
func (k SortKey) Valid() bool {
	switch k {
	case SortPriceLowHigh, SortPriceHighLow, SortRating, SortNewest, SortBedrooms:
		return true
	}
	return false
}

// Compare orders a before b (-1), after b (1), or reports them equal (0).
// Unknown keys report every pair equal.
func Compare(a, b *entities.Listing, key SortKey) int {
	switch key {
	case SortPriceLowHigh:
		return cmp.Compare(a.Price, b.Price)
	case SortPriceHighLow:
		return cmp.Compare(b.Price, a.Price)
	case SortRating:
		return cmp.Compare(b.EffectiveRating(), a.EffectiveRating())
	case SortNewest:
		// a zero CreatedAt is the epoch for ordering purposes
		return cmp.Compare(epochMillis(b), epochMillis(a))
	case SortBedrooms:
		return cmp.Compare(b.Bedrooms(), a.Bedrooms())
	default:
		return 0
	}
}

func epochMillis(l *entities.Listing) int64 {
	if l.CreatedAt.IsZero() {
		return 0
	}
	return l.CreatedAt.UnixMilli()
}

// Sort orders listings in place. Equal elements keep their relative order.
func Sort(listings []*entities.Listing, key SortKey) {
	if !key.Valid() {
		return
	}
	slices.SortStableFunc(listings, func(a, b *entities.Listing) int {
		return Compare(a, b, key)
	})
}
