package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/query/catalog"
)

func TestPasses(t *testing.T) {
	base := catalog.DefaultFilterSpec()
	twoBeds := &entities.Listing{
		Price:     120,
		Capacity:  &entities.Capacity{Bedrooms: 2},
		Location:  entities.Location{City: "Lisbon"},
		Amenities: map[string]bool{"wifi": true, "pool": false},
	}
	bare := &entities.Listing{Price: 80}

	tests := []struct {
		name    string
		listing *entities.Listing
		spec    catalog.FilterSpec
		want    bool
	}{
		{"no filters", twoBeds, base, true},
		{"price floor ok", twoBeds, base.WithPriceMin(120), true},
		{"price floor fails", twoBeds, base.WithPriceMin(121), false},
		{"price ceiling ok", twoBeds, base.WithPriceMax(120), true},
		{"price ceiling fails", twoBeds, base.WithPriceMax(119), false},
		{"inverted range matches nothing", twoBeds, base.WithPriceMin(200).WithPriceMax(100), false},
		{"bedrooms at least", twoBeds, base.WithMinBedrooms(2), true},
		{"bedrooms too few", twoBeds, base.WithMinBedrooms(3), false},
		{"bedrooms skipped without capacity", bare, base.WithMinBedrooms(3), true},
		{"location partial case-insensitive", twoBeds, base.WithLocation("lis"), true},
		{"location miss", twoBeds, base.WithLocation("porto"), false},
		{"location skipped without city", bare, base.WithLocation("porto"), true},
		{"amenity present", twoBeds, base.WithAmenity("wifi"), true},
		{"amenity false", twoBeds, base.WithAmenity("pool"), false},
		{"no amenities map fails required", bare, base.WithAmenity("wifi"), false},
		{"topRated never filters", bare, base.WithAmenity(catalog.AmenityTopRated), true},
		{"malformed number ignored", twoBeds, catalog.FilterSpec{PriceMax: catalog.MalformedNumber("cheap")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.Passes(tt.listing, tt.spec))
		})
	}
}

func TestWithAmenity_DoesNotMutateOriginal(t *testing.T) {
	a := catalog.DefaultFilterSpec().WithAmenity("wifi")
	b := a.WithAmenity("pool")

	assert.Len(t, a.Amenities, 1)
	assert.Len(t, b.Amenities, 2)
}

func TestActiveFilters(t *testing.T) {
	assert.Equal(t, 0, catalog.ActiveFilters(catalog.DefaultFilterSpec()))

	spec := catalog.DefaultFilterSpec().
		WithCategory("Villa").
		WithPriceMin(10).
		WithLocation("Rome").
		WithAmenity("wifi").
		WithAmenity(catalog.AmenityTopRated)
	spec.PriceMax = catalog.MalformedNumber("abc")

	// category, priceMin, priceMax (given, even if malformed), location, two amenity flags
	assert.Equal(t, 6, catalog.ActiveFilters(spec))
}

func TestNumberFilter_States(t *testing.T) {
	_, ok := catalog.NoNumber().Value()
	assert.False(t, ok)
	assert.False(t, catalog.NoNumber().Given())

	m := catalog.MalformedNumber("x")
	_, ok = m.Value()
	assert.False(t, ok)
	assert.True(t, m.Given())
	assert.True(t, m.Malformed())

	v, ok := catalog.Number(0).Value()
	assert.True(t, ok)
	assert.Equal(t, 0, v)
}
