package catalog

import (
	"strings"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// Selectors with special handling
const (
	CategoryAll      = "all"
	CategoryTrending = "Trending"
)

// Category is one entry of the category menu
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// categoryDef ties a menu entry to the substrings it matches and the
// propertyType sent to the listing store.
type categoryDef struct {
	id           string
	label        string
	propertyType string
	synonyms     []string
}

var categoryTable = []categoryDef{
	{id: CategoryAll, label: "All"},
	{id: CategoryTrending, label: "Trending"},
	{id: "Apartment", label: "Apartments", propertyType: "Apartment", synonyms: []string{"apartment"}},
	{id: "House", label: "Houses", propertyType: "House", synonyms: []string{"house"}},
	{id: "Villa", label: "Villas", propertyType: "Villa", synonyms: []string{"villa"}},
	{id: "Condo", label: "Condos", propertyType: "Condo", synonyms: []string{"condo"}},
	{id: "Cabin", label: "Cabins", propertyType: "Cabin", synonyms: []string{"cabin"}},
	{id: "Beach", label: "Beach", propertyType: "Beach", synonyms: []string{"beach"}},
	{id: "Lakefront", label: "Lakefront", propertyType: "Lakefront", synonyms: []string{"lake", "lakefront"}},
	{id: "Amazing", label: "Amazing views", propertyType: "Amazing views", synonyms: []string{"amazing", "view"}},
	{id: "Tiny", label: "Tiny homes", propertyType: "Tiny homes", synonyms: []string{"tiny"}},
	{id: "Mansion", label: "Mansions", propertyType: "Mansion", synonyms: []string{"mansion"}},
	{id: "Countryside", label: "Countryside", propertyType: "Countryside", synonyms: []string{"country"}},
	{id: "Luxury", label: "Luxury", propertyType: "Luxury", synonyms: []string{"luxury"}},
	{id: "Castles", label: "Castles", propertyType: "Castle", synonyms: []string{"castle"}},
	{id: "Tropical", label: "Tropical", propertyType: "Tropical", synonyms: []string{"tropical"}},
	{id: "Historic", label: "Historic", propertyType: "Historic", synonyms: []string{"historic"}},
	{id: "Design", label: "Design", propertyType: "Design", synonyms: []string{"design"}},
	{id: "Farm", label: "Farm", propertyType: "Farm", synonyms: []string{"farm"}},
	{id: "Treehouse", label: "Treehouse", propertyType: "Treehouse", synonyms: []string{"tree"}},
	{id: "Boat", label: "Boat", propertyType: "Boat", synonyms: []string{"boat"}},
	{id: "Container", label: "Container", propertyType: "Container", synonyms: []string{"container"}},
	{id: "Dome", label: "Dome", propertyType: "Dome", synonyms: []string{"dome"}},
	{id: "Windmill", label: "Windmill", propertyType: "Windmill", synonyms: []string{"windmill"}},
	{id: "Cave", label: "Cave", propertyType: "Cave", synonyms: []string{"cave"}},
	{id: "Camping", label: "Camping", propertyType: "Camping", synonyms: []string{"camp"}},
	{id: "Arctic", label: "Arctic", propertyType: "Arctic", synonyms: []string{"arctic"}},
	{id: "Desert", label: "Desert", propertyType: "Desert", synonyms: []string{"desert"}},
	{id: "Ski-in/out", label: "Ski-in/out", propertyType: "Ski-in/out", synonyms: []string{"ski"}},
	{id: "Vineyard", label: "Vineyard", propertyType: "Vineyard", synonyms: []string{"vineyard", "vine"}},
}

// categoryIndex maps the normalized id to its table entry
var categoryIndex = func() map[string]*categoryDef {
	idx := make(map[string]*categoryDef, len(categoryTable))
	for i := range categoryTable {
		idx[normalize(categoryTable[i].id)] = &categoryTable[i]
	}
	return idx
}()

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Categories returns the category menu in display order
func Categories() []Category {
	out := make([]Category, len(categoryTable))
	for i, def := range categoryTable {
		out[i] = Category{ID: def.id, Label: def.label}
	}
	return out
}

// Matches reports whether a listing belongs to the selected category.
// "all" matches everything and "Trending" matches the trending flag; both are
// compared exactly. Any other selector is matched case-insensitively against
// the listing's category and propertyType using the category's synonyms, or by
// plain substring when the selector is not a known category.
func Matches(listing *entities.Listing, selector string) bool {
	if selector == CategoryAll {
		return true
	}
	if listing == nil {
		return false
	}
	if selector == CategoryTrending {
		return listing.Trending
	}

	category := normalize(listing.Category)
	propertyType := normalize(listing.PropertyType)
	key := normalize(selector)

	needles := []string{key}
	if def, ok := categoryIndex[key]; ok && len(def.synonyms) > 0 {
		needles = def.synonyms
	}

	for _, n := range needles {
		if strings.Contains(category, n) || strings.Contains(propertyType, n) {
			return true
		}
	}
	return false
}

// PropertyTypeFor returns the propertyType the listing store uses for a
// category id. Unknown ids are returned unchanged. "all" and "Trending" yield ""
// since they place no constraint on propertyType.
func PropertyTypeFor(categoryID string) string {
	if categoryID == "" {
		return ""
	}
	if def, ok := categoryIndex[normalize(categoryID)]; ok {
		return def.propertyType
	}
	return categoryID
}

// CategoryForParam resolves a free-form propertyType query value to the menu
// id it names, so "villa" selects "Villa". Unknown values are returned as-is.
func CategoryForParam(value string) string {
	if def, ok := categoryIndex[normalize(value)]; ok {
		return def.id
	}
	return value
}
