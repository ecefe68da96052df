package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/smartrentsystem/backend/internal/api/loaders"
	"github.com/smartrentsystem/backend/internal/application/services"
	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// BookingManager is the booking surface used by BookingHandler
type BookingManager interface {
	Create(ctx context.Context, userID string, req services.BookingRequest) (*entities.Booking, error)
	ListForUser(ctx context.Context, userID string) ([]*entities.Booking, error)
	ListForListing(ctx context.Context, ownerID, listingID string) ([]*entities.Booking, error)
	Cancel(ctx context.Context, userID, bookingID string) (*entities.Booking, error)
	Confirm(ctx context.Context, ownerID, bookingID string) (*entities.Booking, error)
	CheckConfirmed(ctx context.Context, userID, listingID string) (bool, error)
}

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	bookings BookingManager
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings BookingManager) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingPayload struct {
	Property string    `json:"property" validate:"required"`
	CheckIn  time.Time `json:"checkIn" validate:"required"`
	CheckOut time.Time `json:"checkOut" validate:"required"`
	Guests   int       `json:"guests" validate:"gte=0"`
}

// bookingView embeds the booked listing in place of its id. A listing that
// has since been deleted leaves the id.
type bookingView struct {
	*entities.Booking
	Property any `json:"property"`
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var payload createBookingPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	booking, err := h.bookings.Create(r.Context(), userID, services.BookingRequest{
		ListingID: payload.Property,
		CheckIn:   payload.CheckIn,
		CheckOut:  payload.CheckOut,
		Guests:    payload.Guests,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, booking)
}

// ListMyBookings handles GET /api/bookings
func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	bookings, err := h.bookings.ListForUser(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ListingID)
	}
	listings, err := loaders.LoadListings(r.Context(), ids)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	views := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		view := bookingView{Booking: b, Property: b.ListingID}
		if l := listings[b.ListingID]; l != nil {
			view.Property = l
		}
		views = append(views, view)
	}
	respondWithJSON(w, http.StatusOK, views)
}

// ListPropertyBookings handles GET /api/bookings/property/{listingId}
func (h *BookingHandler) ListPropertyBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	bookings, err := h.bookings.ListForListing(r.Context(), userID, r.PathValue("listingId"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []*entities.Booking{}
	}
	respondWithJSON(w, http.StatusOK, bookings)
}

// CheckBooking handles GET /api/bookings/check/{listingId}
func (h *BookingHandler) CheckBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	confirmed, err := h.bookings.CheckConfirmed(r.Context(), userID, r.PathValue("listingId"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"isConfirmed": confirmed})
}

// CancelBooking handles POST /api/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	booking, err := h.bookings.Cancel(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, booking)
}

// ConfirmBooking handles POST /api/bookings/{id}/confirm
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	booking, err := h.bookings.Confirm(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, booking)
}
