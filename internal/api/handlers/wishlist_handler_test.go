package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartrentsystem/backend/internal/api/handlers"
	"github.com/smartrentsystem/backend/internal/api/middleware"
	"github.com/smartrentsystem/backend/internal/domain/entities"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

type mockWishlist struct {
	mock.Mock
}

func (m *mockWishlist) Toggle(ctx context.Context, userID, listingID string) ([]string, error) {
	args := m.Called(ctx, userID, listingID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *mockWishlist) Add(ctx context.Context, userID, listingID string) ([]string, error) {
	args := m.Called(ctx, userID, listingID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *mockWishlist) Remove(ctx context.Context, userID, listingID string) ([]string, error) {
	args := m.Called(ctx, userID, listingID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *mockWishlist) List(ctx context.Context, userID string) ([]*entities.Listing, error) {
	args := m.Called(ctx, userID)
	listings, _ := args.Get(0).([]*entities.Listing)
	return listings, args.Error(1)
}

func authedRequest(method, target, userID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func authedJSON(method, target, userID, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestWishlistHandler_Toggle_Unauthenticated(t *testing.T) {
	svc := &mockWishlist{}
	handler := handlers.NewWishlistHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/wishlist/l1", nil)
	req.SetPathValue("listingId", "l1")
	w := httptest.NewRecorder()

	handler.Toggle(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything, mock.Anything)
}

func TestWishlistHandler_Toggle_ReturnsIDArray(t *testing.T) {
	svc := &mockWishlist{}
	svc.On("Toggle", mock.Anything, "u1", "l1").Return([]string{"l0", "l1"}, nil)
	handler := handlers.NewWishlistHandler(svc, nil)

	req := authedRequest(http.MethodPost, "/api/wishlist/l1", "u1")
	req.SetPathValue("listingId", "l1")
	w := httptest.NewRecorder()

	handler.Toggle(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var ids []string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&ids))
	assert.Equal(t, []string{"l0", "l1"}, ids)
	svc.AssertExpectations(t)
}

func TestWishlistHandler_Remove_EmptyListIsArray(t *testing.T) {
	svc := &mockWishlist{}
	svc.On("Remove", mock.Anything, "u1", "l1").Return(nil, nil)
	handler := handlers.NewWishlistHandler(svc, nil)

	req := authedRequest(http.MethodDelete, "/api/wishlist/l1", "u1")
	req.SetPathValue("listingId", "l1")
	w := httptest.NewRecorder()

	handler.Remove(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestWishlistHandler_Add_MapsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown listing", apperrors.NewNotFoundError("listing l1 not found"), http.StatusNotFound},
		{"concurrent write", apperrors.NewConflictError("wishlist was modified concurrently"), http.StatusConflict},
		{"store down", apperrors.NewStorageError("failed to save wishlist", assert.AnError), http.StatusServiceUnavailable},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockWishlist{}
			svc.On("Add", mock.Anything, "u1", "l1").Return(nil, tt.err)
			handler := handlers.NewWishlistHandler(svc, nil)

			req := authedRequest(http.MethodPut, "/api/wishlist/l1", "u1")
			req.SetPathValue("listingId", "l1")
			w := httptest.NewRecorder()

			handler.Add(w, req)

			assert.Equal(t, tt.want, w.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestWishlistHandler_List(t *testing.T) {
	svc := &mockWishlist{}
	svc.On("List", mock.Anything, "u1").Return([]*entities.Listing{{ID: "l1", Title: "Cabin"}}, nil)
	handler := handlers.NewWishlistHandler(svc, nil)

	w := httptest.NewRecorder()
	handler.List(w, authedRequest(http.MethodGet, "/api/wishlist", "u1"))

	require.Equal(t, http.StatusOK, w.Code)
	var listings []entities.Listing
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listings))
	require.Len(t, listings, 1)
	assert.Equal(t, "l1", listings[0].ID)
}

func TestWishlistHandler_Stream_DisabledWithoutEventBus(t *testing.T) {
	handler := handlers.NewWishlistHandler(&mockWishlist{}, nil)

	w := httptest.NewRecorder()
	handler.Stream(w, authedRequest(http.MethodGet, "/api/wishlist/stream", "u1"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type chanBus struct {
	ch      chan *entities.WishlistEvent
	channel string
}

func (b *chanBus) Publish(ctx context.Context, channel string, event *entities.WishlistEvent) error {
	return nil
}

func (b *chanBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.WishlistEvent, error) {
	b.channel = channel
	return b.ch, nil
}

func (b *chanBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *chanBus) Close() error { return nil }

func TestWishlistHandler_Stream_ForwardsEvents(t *testing.T) {
	bus := &chanBus{ch: make(chan *entities.WishlistEvent, 1)}
	handler := handlers.NewWishlistHandler(&mockWishlist{}, bus)

	bus.ch <- entities.NewWishlistEvent("u1", "l1", entities.WishlistActionAdded)
	close(bus.ch)

	w := httptest.NewRecorder()
	handler.Stream(w, authedRequest(http.MethodGet, "/api/wishlist/stream", "u1"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "user:u1:wishlist", bus.channel)
	body := w.Body.String()
	assert.Contains(t, body, "event: connected\n")
	assert.Contains(t, body, "event: added\n")
	assert.Contains(t, body, `"listing_id":"l1"`)
}

func httpReader(body string) *strings.Reader {
	return strings.NewReader(body)
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
