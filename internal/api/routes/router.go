package routes

import (
	"net/http"

	"github.com/smartrentsystem/backend/internal/api/handlers"
	"github.com/smartrentsystem/backend/internal/api/loaders"
	"github.com/smartrentsystem/backend/internal/api/middleware"
	"github.com/smartrentsystem/backend/internal/domain/providers"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	"github.com/smartrentsystem/backend/internal/infrastructure/observability"
)

// streamPath bypasses response buffering middleware
const streamPath = "/api/wishlist/stream"

// Dependencies holds everything the router mounts
type Dependencies struct {
	Health     *handlers.HealthHandler
	Properties *handlers.PropertyHandler
	Wishlist   *handlers.WishlistHandler
	Users      *handlers.UserHandler
	Bookings   *handlers.BookingHandler
	Reviews    *handlers.ReviewHandler
	Messages   *handlers.MessageHandler

	Verifier       providers.TokenVerifier
	Listings       repositories.ListingRepository
	Cache          *middleware.CacheMiddleware
	Metrics        *observability.Metrics
	AllowedOrigins []string
}

// Router holds all route handlers
type Router struct {
	mux  *http.ServeMux
	deps Dependencies
}

// NewRouter creates a new router
func NewRouter(deps Dependencies) *Router {
	return &Router{
		mux:  http.NewServeMux(),
		deps: deps,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	d := r.deps
	auth := middleware.RequireAuth(d.Verifier)
	protect := func(h http.HandlerFunc) http.Handler { return auth(h) }

	// Health and index
	r.mux.HandleFunc("GET /api/health", d.Health.Health)
	r.mux.HandleFunc("GET /api", d.Health.Index)

	// Catalog
	r.mux.HandleFunc("GET /api/properties", d.Properties.ListProperties)
	r.mux.HandleFunc("GET /api/properties/{id}", d.Properties.GetProperty)
	r.mux.Handle("POST /api/properties", protect(d.Properties.CreateProperty))
	r.mux.Handle("PUT /api/properties/{id}", protect(d.Properties.UpdateProperty))
	r.mux.Handle("DELETE /api/properties/{id}", protect(d.Properties.DeleteProperty))
	r.mux.HandleFunc("GET /api/categories", handlers.ListCategories)

	// Wishlist
	r.mux.Handle("GET /api/wishlist", protect(d.Wishlist.List))
	r.mux.Handle("GET "+streamPath, protect(d.Wishlist.Stream))
	r.mux.Handle("POST /api/wishlist/{listingId}", protect(d.Wishlist.Toggle))
	r.mux.Handle("PUT /api/wishlist/{listingId}", protect(d.Wishlist.Add))
	r.mux.Handle("DELETE /api/wishlist/{listingId}", protect(d.Wishlist.Remove))

	// Users
	r.mux.HandleFunc("POST /api/users", d.Users.CreateUser)
	r.mux.Handle("GET /api/users/me", protect(d.Users.GetMe))
	r.mux.Handle("PATCH /api/users/me", protect(d.Users.UpdateMe))
	r.mux.HandleFunc("GET /api/users/{id}", d.Users.GetUser)

	// Bookings
	r.mux.Handle("POST /api/bookings", protect(d.Bookings.CreateBooking))
	r.mux.Handle("GET /api/bookings", protect(d.Bookings.ListMyBookings))
	r.mux.Handle("GET /api/bookings/check/{listingId}", protect(d.Bookings.CheckBooking))
	r.mux.Handle("GET /api/bookings/property/{listingId}", protect(d.Bookings.ListPropertyBookings))
	r.mux.Handle("POST /api/bookings/{id}/cancel", protect(d.Bookings.CancelBooking))
	r.mux.Handle("POST /api/bookings/{id}/confirm", protect(d.Bookings.ConfirmBooking))

	// Reviews
	r.mux.Handle("POST /api/reviews", protect(d.Reviews.CreateReview))
	r.mux.HandleFunc("GET /api/reviews/property/{listingId}", d.Reviews.ListPropertyReviews)

	// Messages
	r.mux.Handle("POST /api/messages", protect(d.Messages.SendMessage))
	r.mux.Handle("GET /api/messages", protect(d.Messages.ListMessages))
	r.mux.Handle("POST /api/messages/{id}/read", protect(d.Messages.MarkRead))

	r.mux.HandleFunc("/", d.Health.NotFound)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = loaders.Middleware(d.Listings)(handler)

	if d.Cache != nil {
		handler = d.Cache.Middleware(handler)
	}

	handler = optimizeExcept(streamPath, handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(d.Metrics)(handler)

	// CORS wraps everything so headers are set even on cache hits
	handler = middleware.CORSMiddleware(d.AllowedOrigins)(handler)

	return handler
}

// optimizeExcept applies compression and ETags to every path but the
// event stream, which must not be buffered
func optimizeExcept(path string, next http.Handler) http.Handler {
	optimized := middleware.ResponseOptimization(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == path {
			next.ServeHTTP(w, r)
			return
		}
		optimized.ServeHTTP(w, r)
	})
}
