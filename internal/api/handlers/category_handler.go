package handlers

import (
	"net/http"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/query/catalog"
)

// CategoriesResponse describes the filter vocabulary of the catalog
type CategoriesResponse struct {
	Categories []catalog.Category `json:"categories"`
	Amenities  []string           `json:"amenities"`
	SortKeys   []catalog.SortKey  `json:"sortKeys"`
}

// ListCategories handles GET /api/categories
func ListCategories(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, CategoriesResponse{
		Categories: catalog.Categories(),
		Amenities:  append([]string{catalog.AmenityTopRated}, entities.AmenityNames...),
		SortKeys: []catalog.SortKey{
			catalog.SortPriceLowHigh,
			catalog.SortPriceHighLow,
			catalog.SortRating,
			catalog.SortNewest,
			catalog.SortBedrooms,
		},
	})
}
