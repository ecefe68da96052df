package catalog

import (
	"maps"
	"strings"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// AmenityTopRated is an amenity flag the UI offers that does not constrain results
const AmenityTopRated = "topRated"

type numberState uint8

const (
	numberAbsent numberState = iota
	numberMalformed
	numberPresent
)

// NumberFilter is an optional numeric filter field. A field can be absent,
// present with a value, or malformed (input was given but was not a number).
// Only present values constrain results.
type NumberFilter struct {
	state numberState
	value int
	raw   string
}

// NoNumber is an absent numeric filter
func NoNumber() NumberFilter {
	return NumberFilter{}
}

// Number is a numeric filter set to n
func Number(n int) NumberFilter {
	return NumberFilter{state: numberPresent, value: n}
}

// MalformedNumber records input that did not parse as a number
func MalformedNumber(raw string) NumberFilter {
	return NumberFilter{state: numberMalformed, raw: raw}
}

// Value returns the number and whether the filter applies
func (n NumberFilter) Value() (int, bool) {
	return n.value, n.state == numberPresent
}

// Given reports whether any input was supplied, well-formed or not
func (n NumberFilter) Given() bool {
	return n.state != numberAbsent
}

// Malformed reports whether input was supplied but could not be parsed
func (n NumberFilter) Malformed() bool {
	return n.state == numberMalformed
}

// FilterSpec is the full set of catalog filters and the sort order.
// Treat it as a value: the With* methods return modified copies.
type FilterSpec struct {
	Category    string
	PriceMin    NumberFilter
	PriceMax    NumberFilter
	MinBedrooms NumberFilter
	Location    string
	Amenities   map[string]bool
	SortKey     SortKey
}

// DefaultFilterSpec matches every listing, cheapest first
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{Category: CategoryAll, SortKey: SortPriceLowHigh}
}

// WithCategory returns a copy selecting the given category
func (f FilterSpec) WithCategory(category string) FilterSpec {
	f.Category = category
	return f
}

// WithPriceMin returns a copy with a price floor
func (f FilterSpec) WithPriceMin(n int) FilterSpec {
	f.PriceMin = Number(n)
	return f
}

// WithPriceMax returns a copy with a price ceiling
func (f FilterSpec) WithPriceMax(n int) FilterSpec {
	f.PriceMax = Number(n)
	return f
}

// WithMinBedrooms returns a copy requiring at least n bedrooms
func (f FilterSpec) WithMinBedrooms(n int) FilterSpec {
	f.MinBedrooms = Number(n)
	return f
}

// WithLocation returns a copy filtering on city
func (f FilterSpec) WithLocation(location string) FilterSpec {
	f.Location = location
	return f
}

// WithAmenity returns a copy requiring the amenity
func (f FilterSpec) WithAmenity(name string) FilterSpec {
	amenities := make(map[string]bool, len(f.Amenities)+1)
	maps.Copy(amenities, f.Amenities)
	amenities[name] = true
	f.Amenities = amenities
	return f
}

// WithSort returns a copy with a different sort order
func (f FilterSpec) WithSort(key SortKey) FilterSpec {
	f.SortKey = key
	return f
}

// Passes reports whether a listing satisfies every applied filter of spec.
// The category is not considered here; see Matches.
func Passes(listing *entities.Listing, spec FilterSpec) bool {
	if listing == nil {
		return false
	}

	if floor, ok := spec.PriceMin.Value(); ok && listing.Price < float64(floor) {
		return false
	}
	if ceiling, ok := spec.PriceMax.Value(); ok && listing.Price > float64(ceiling) {
		return false
	}

	if minBeds, ok := spec.MinBedrooms.Value(); ok && listing.Capacity != nil && listing.Capacity.Bedrooms < minBeds {
		return false
	}

	if loc := strings.ToLower(strings.TrimSpace(spec.Location)); loc != "" && listing.Location.City != "" {
		if !strings.Contains(strings.ToLower(listing.Location.City), loc) {
			return false
		}
	}

	for _, name := range entities.AmenityNames {
		if spec.Amenities[name] && !listing.HasAmenity(name) {
			return false
		}
	}

	return true
}

// ActiveFilters counts the filters a user has turned on: every amenity flag
// set true, each given numeric or text field, and a category other than "all".
func ActiveFilters(spec FilterSpec) int {
	count := 0
	for _, on := range spec.Amenities {
		if on {
			count++
		}
	}
	if spec.PriceMin.Given() {
		count++
	}
	if spec.PriceMax.Given() {
		count++
	}
	if spec.MinBedrooms.Given() {
		count++
	}
	if spec.Location != "" {
		count++
	}
	if spec.Category != CategoryAll {
		count++
	}
	return count
}
