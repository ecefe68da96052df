package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/providers"
	"github.com/smartrentsystem/backend/internal/infrastructure/observability"
)

// WishlistManager changes and resolves a user's saved listings
type WishlistManager interface {
	Toggle(ctx context.Context, userID, listingID string) ([]string, error)
	Add(ctx context.Context, userID, listingID string) ([]string, error)
	Remove(ctx context.Context, userID, listingID string) ([]string, error)
	List(ctx context.Context, userID string) ([]*entities.Listing, error)
}

// heartbeatInterval keeps idle event streams open through proxies
const heartbeatInterval = 30 * time.Second

// WishlistHandler handles wishlist HTTP requests. Every route requires an
// authenticated caller.
type WishlistHandler struct {
	wishlist WishlistManager
	events   providers.EventBus
}

// NewWishlistHandler creates a new wishlist handler. events may be nil, which
// disables the event stream.
func NewWishlistHandler(wishlist WishlistManager, events providers.EventBus) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist, events: events}
}

// Toggle handles POST /api/wishlist/{listingId} and returns the wishlist ids
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, h.wishlist.Toggle)
}

// Add handles PUT /api/wishlist/{listingId}
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, h.wishlist.Add)
}

// Remove handles DELETE /api/wishlist/{listingId}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, h.wishlist.Remove)
}

func (h *WishlistHandler) change(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, userID, listingID string) ([]string, error)) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	listingID := r.PathValue("listingId")
	if listingID == "" {
		respondWithError(w, http.StatusBadRequest, "listing ID is required")
		return
	}

	ids, err := apply(r.Context(), userID, listingID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	respondWithJSON(w, http.StatusOK, ids)
}

// List handles GET /api/wishlist and returns the saved listings
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	listings, err := h.wishlist.List(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nonNilListings(listings))
}

// Stream handles GET /api/wishlist/stream, a server-sent event stream of the
// caller's committed wishlist changes
func (h *WishlistHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	if h.events == nil {
		respondWithError(w, http.StatusServiceUnavailable, "event stream is not enabled")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx)
	channel := providers.GetUserChannel(userID)

	events, err := h.events.Subscribe(ctx, channel)
	if err != nil {
		logger.Error().Err(err).Str("channel", channel).Msg("Failed to subscribe to wishlist events")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	// the server write timeout would cut the stream
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		logger.Debug().Err(err).Msg("Write deadline not adjustable")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sendEvent(w, "connected", map[string]any{"user_id": userID, "timestamp": time.Now().UTC()})
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Str("user_id", userID).Msg("Wishlist stream closed by client")
			return
		case <-ticker.C:
			sendEvent(w, "heartbeat", map[string]any{"timestamp": time.Now().UTC()})
			flusher.Flush()
		case event, open := <-events:
			if !open {
				return
			}
			sendEvent(w, string(event.Action), event)
			flusher.Flush()
		}
	}
}

// sendEvent writes one SSE frame
func sendEvent(w http.ResponseWriter, eventType string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
