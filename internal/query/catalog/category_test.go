package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/query/catalog"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		listing  entities.Listing
		selector string
		want     bool
	}{
		{"all matches empty listing", entities.Listing{}, "all", true},
		{"trending flag", entities.Listing{Trending: true}, "Trending", true},
		{"trending ignores text", entities.Listing{Category: "Trending"}, "Trending", false},
		{"lowercase trending is a text match", entities.Listing{Category: "trending spots"}, "trending", true},
		{"case and spaces normalized", entities.Listing{Category: "  Beach HOUSE "}, "House", true},
		{"selector whitespace trimmed", entities.Listing{Category: "Villa"}, " villa ", true},
		{"padded selector still uses synonyms", entities.Listing{Category: "Lake house"}, " Lakefront", true},
		{"padded all is a text match", entities.Listing{Category: "House"}, " all", false},
		{"property type field", entities.Listing{PropertyType: "Villa"}, "Villa", true},
		{"lakefront synonym lake", entities.Listing{Category: "Lake cottage"}, "Lakefront", true},
		{"amazing synonym view", entities.Listing{PropertyType: "Sea view flat"}, "Amazing", true},
		{"countryside synonym country", entities.Listing{Category: "Country cottage"}, "Countryside", true},
		{"castles synonym castle", entities.Listing{PropertyType: "Castle"}, "Castles", true},
		{"treehouse synonym tree", entities.Listing{Category: "Tree hut"}, "Treehouse", true},
		{"camping synonym camp", entities.Listing{Category: "Campsite"}, "Camping", true},
		{"ski synonym", entities.Listing{Category: "Ski chalet"}, "Ski-in/out", true},
		{"vineyard synonym vine", entities.Listing{Category: "Vine estate"}, "Vineyard", true},
		{"countryside does not match literal key only", entities.Listing{Category: "Urban"}, "Countryside", false},
		{"unknown selector substring", entities.Listing{Category: "Glamping pod"}, "Glamping", true},
		{"unknown selector miss", entities.Listing{Category: "House"}, "Igloo", false},
		{"no fields", entities.Listing{}, "Villa", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.listing
			assert.Equal(t, tt.want, catalog.Matches(&l, tt.selector))
		})
	}
}

func TestPropertyTypeFor(t *testing.T) {
	assert.Equal(t, "Amazing views", catalog.PropertyTypeFor("Amazing"))
	assert.Equal(t, "Tiny homes", catalog.PropertyTypeFor("Tiny"))
	assert.Equal(t, "Castle", catalog.PropertyTypeFor("Castles"))
	assert.Equal(t, "House", catalog.PropertyTypeFor("House"))
	assert.Equal(t, "Igloo", catalog.PropertyTypeFor("Igloo"))
	assert.Equal(t, "", catalog.PropertyTypeFor("all"))
	assert.Equal(t, "", catalog.PropertyTypeFor(""))
}

func TestCategories_MenuOrder(t *testing.T) {
	cats := catalog.Categories()

	assert.Len(t, cats, 30)
	assert.Equal(t, catalog.Category{ID: "all", Label: "All"}, cats[0])
	assert.Equal(t, catalog.Category{ID: "Trending", Label: "Trending"}, cats[1])
	assert.Equal(t, catalog.Category{ID: "Apartment", Label: "Apartments"}, cats[2])
	assert.Equal(t, catalog.Category{ID: "Vineyard", Label: "Vineyard"}, cats[len(cats)-1])

	// callers get a copy
	cats[0].Label = "changed"
	assert.Equal(t, "All", catalog.Categories()[0].Label)
}

func TestEveryMenuEntryMatchesItsOwnPropertyType(t *testing.T) {
	for _, c := range catalog.Categories() {
		pt := catalog.PropertyTypeFor(c.ID)
		if pt == "" {
			continue
		}
		l := &entities.Listing{PropertyType: pt}
		assert.True(t, catalog.Matches(l, c.ID), "category %s should match propertyType %q", c.ID, pt)
	}
}

func TestCategoryForParam(t *testing.T) {
	assert.Equal(t, "Villa", catalog.CategoryForParam("villa"))
	assert.Equal(t, "Apartment", catalog.CategoryForParam("APARTMENT"))
	assert.Equal(t, "Igloo", catalog.CategoryForParam("Igloo"))
}
