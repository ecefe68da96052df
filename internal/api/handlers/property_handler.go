package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	"github.com/smartrentsystem/backend/internal/query/catalog"
	"github.com/smartrentsystem/backend/internal/query/services"
)

// CatalogSearcher answers catalog queries
type CatalogSearcher interface {
	Search(ctx context.Context, spec catalog.FilterSpec, server repositories.ListingFilter, page services.Page) (*services.SearchResult, error)
}

// ListingManager is the listing write and lookup surface
type ListingManager interface {
	Create(ctx context.Context, ownerID string, listing *entities.Listing) error
	GetByID(ctx context.Context, id string) (*entities.Listing, error)
	Update(ctx context.Context, callerID, id string, changes *entities.Listing) (*entities.Listing, error)
	Delete(ctx context.Context, callerID, id string) error
}

// PropertyHandler handles listing HTTP requests
type PropertyHandler struct {
	catalog  CatalogSearcher
	listings ListingManager
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(catalog CatalogSearcher, listings ListingManager) *PropertyHandler {
	return &PropertyHandler{catalog: catalog, listings: listings}
}

// PropertiesResponse is the body of GET /api/properties
type PropertiesResponse struct {
	Properties         []*entities.Listing `json:"properties"`
	Pagination         services.Pagination `json:"pagination"`
	ActiveFilters      int                 `json:"activeFilters"`
	TotalBeforeFilters int                 `json:"totalBeforeFilters"`
}

// ListProperties handles GET /api/properties
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	spec := catalog.ParseFilterSpec(q)
	server := repositories.ListingFilter{
		Location:     q.Get("location"),
		PropertyType: q.Get("propertyType"),
		OwnerID:      q.Get("owner"),
	}
	page := services.Page{
		Page:  queryInt(q.Get("page"), 1),
		Limit: queryInt(q.Get("limit"), 0),
	}

	result, err := h.catalog.Search(r.Context(), spec, server, page)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, PropertiesResponse{
		Properties:         nonNilListings(result.Listings),
		Pagination:         result.Pagination,
		ActiveFilters:      result.ActiveFilters,
		TotalBeforeFilters: result.TotalBefore,
	})
}

// GetProperty handles GET /api/properties/{id}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listing)
}

// CreateProperty handles POST /api/properties
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var payload listingPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	listing := payload.toEntity()
	if err := h.listings.Create(r.Context(), userID, listing); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, listing)
}

// UpdateProperty handles PUT /api/properties/{id}
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var payload listingPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	listing, err := h.listings.Update(r.Context(), userID, r.PathValue("id"), payload.toEntity())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listing)
}

// DeleteProperty handles DELETE /api/properties/{id}
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.listings.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listingPayload is the editable part of a listing
type listingPayload struct {
	Title        string              `json:"title" validate:"required,max=200"`
	Description  string              `json:"description" validate:"max=5000"`
	Price        float64             `json:"price" validate:"gte=0"`
	PropertyType string              `json:"propertyType" validate:"max=100"`
	Category     string              `json:"category" validate:"max=100"`
	Location     entities.Location   `json:"location"`
	Capacity     *capacityPayload    `json:"capacity"`
	Amenities    map[string]bool     `json:"amenities" validate:"omitempty,dive,keys,required,endkeys"`
	Size         float64             `json:"size" validate:"gte=0"`
	Trending     bool                `json:"trending"`
	Images       []entities.ImageRef `json:"images" validate:"max=50"`
}

type capacityPayload struct {
	Bedrooms  int `json:"bedrooms" validate:"gte=0"`
	Bathrooms int `json:"bathrooms" validate:"gte=0"`
	Guests    int `json:"guests" validate:"gte=0"`
	Beds      int `json:"beds" validate:"gte=0"`
}

func (p *listingPayload) toEntity() *entities.Listing {
	l := &entities.Listing{
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		PropertyType: p.PropertyType,
		Category:     p.Category,
		Location:     p.Location,
		Amenities:    p.Amenities,
		Size:         p.Size,
		Trending:     p.Trending,
		Images:       p.Images,
	}
	if c := p.Capacity; c != nil {
		l.Capacity = &entities.Capacity{
			Bedrooms:  c.Bedrooms,
			Bathrooms: c.Bathrooms,
			Guests:    c.Guests,
			Beds:      c.Beds,
		}
	}
	return l
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func nonNilListings(listings []*entities.Listing) []*entities.Listing {
	if listings == nil {
		return []*entities.Listing{}
	}
	return listings
}
