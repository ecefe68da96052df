package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/query/catalog"
)

func rating(f float64) *float64 { return &f }

func ids(listings []*entities.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func TestCompare(t *testing.T) {
	cheap := &entities.Listing{ID: "cheap", Price: 50}
	pricey := &entities.Listing{ID: "pricey", Price: 150}

	assert.Equal(t, -1, catalog.Compare(cheap, pricey, catalog.SortPriceLowHigh))
	assert.Equal(t, 1, catalog.Compare(cheap, pricey, catalog.SortPriceHighLow))
	assert.Equal(t, 0, catalog.Compare(cheap, pricey, "popularity"))
}

func TestSort_Rating(t *testing.T) {
	listings := []*entities.Listing{
		{ID: "none"},
		{ID: "legacy", Rating: rating(4)},
		{ID: "avg", AverageRating: rating(4.5)},
		{ID: "zeroAvg", AverageRating: rating(0), Rating: rating(3)},
	}
	catalog.Sort(listings, catalog.SortRating)
	assert.Equal(t, []string{"avg", "legacy", "zeroAvg", "none"}, ids(listings))
}

func TestSort_NewestMissingDateIsOldest(t *testing.T) {
	listings := []*entities.Listing{
		{ID: "undated"},
		{ID: "old", CreatedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "new", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	catalog.Sort(listings, catalog.SortNewest)
	assert.Equal(t, []string{"new", "old", "undated"}, ids(listings))
}

func TestSort_Bedrooms(t *testing.T) {
	listings := []*entities.Listing{
		{ID: "unknown"},
		{ID: "three", Capacity: &entities.Capacity{Bedrooms: 3}},
		{ID: "one", Capacity: &entities.Capacity{Bedrooms: 1}},
	}
	catalog.Sort(listings, catalog.SortBedrooms)
	assert.Equal(t, []string{"three", "one", "unknown"}, ids(listings))
}

func TestSort_UnknownKeyKeepsOrder(t *testing.T) {
	listings := []*entities.Listing{{ID: "b", Price: 2}, {ID: "a", Price: 1}}
	catalog.Sort(listings, "whatever")
	assert.Equal(t, []string{"b", "a"}, ids(listings))
}
