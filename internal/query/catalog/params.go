package catalog

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// ParseFilterSpec builds a FilterSpec from query parameters:
//
//	category, priceMin, priceMax, bedrooms, location, sort
//	wifi=true (one per amenity) or amenities=wifi,pool
//
// When category is missing a propertyType parameter selects the category it names.
// Numeric values are read like a leading-integer parse, so "120abc" is 120 and
// "abc" is malformed. Nothing here fails; bad input just stops filtering.
func ParseFilterSpec(q url.Values) FilterSpec {
	spec := DefaultFilterSpec()

	if c := q.Get("category"); c != "" {
		spec.Category = c
	} else if pt := q.Get("propertyType"); pt != "" {
		spec.Category = CategoryForParam(pt)
	}

	spec.PriceMin = parseNumber(q.Get("priceMin"))
	spec.PriceMax = parseNumber(q.Get("priceMax"))
	spec.MinBedrooms = parseNumber(q.Get("bedrooms"))
	spec.Location = q.Get("location")

	if s := q.Get("sort"); s != "" {
		spec.SortKey = SortKey(s)
	} else if s := q.Get("sortBy"); s != "" {
		spec.SortKey = SortKey(s)
	}

	amenities := make(map[string]bool)
	for _, name := range append([]string{AmenityTopRated}, entities.AmenityNames...) {
		if on, err := strconv.ParseBool(q.Get(name)); err == nil && on {
			amenities[name] = true
		}
	}
	for _, list := range q["amenities"] {
		for _, name := range strings.Split(list, ",") {
			name = strings.TrimSpace(name)
			if name == AmenityTopRated || entities.IsAmenity(name) {
				amenities[name] = true
			}
		}
	}
	if len(amenities) > 0 {
		spec.Amenities = amenities
	}

	return spec
}

// parseNumber reads an optional sign and the leading digits after any spaces
func parseNumber(raw string) NumberFilter {
	if raw == "" {
		return NoNumber()
	}

	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return MalformedNumber(raw)
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return MalformedNumber(raw)
	}
	return Number(n)
}

// ServerQuery builds the query string sent to GET /api/properties for the
// equality filters the store applies itself.
func ServerQuery(location, categoryID string) url.Values {
	q := url.Values{}
	if location != "" {
		q.Set("location", location)
	}
	if pt := PropertyTypeFor(categoryID); pt != "" {
		q.Set("propertyType", pt)
	}
	return q
}
