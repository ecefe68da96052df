package handlers

import (
	"context"
	"net/http"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// ReviewManager is the review surface used by ReviewHandler
type ReviewManager interface {
	Create(ctx context.Context, userID, listingID string, rating int, comment string) (*entities.Review, error)
	ListByListing(ctx context.Context, listingID string) ([]*entities.Review, error)
}

// ReviewHandler handles review HTTP requests
type ReviewHandler struct {
	reviews ReviewManager
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews ReviewManager) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type createReviewPayload struct {
	Property string `json:"property" validate:"required"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Comment  string `json:"comment" validate:"max=2000"`
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var payload createReviewPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	review, err := h.reviews.Create(r.Context(), userID, payload.Property, payload.Rating, payload.Comment)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, review)
}

// ListPropertyReviews handles GET /api/reviews/property/{listingId}
func (h *ReviewHandler) ListPropertyReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByListing(r.Context(), r.PathValue("listingId"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []*entities.Review{}
	}
	respondWithJSON(w, http.StatusOK, reviews)
}
