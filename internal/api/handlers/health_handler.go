package handlers

import (
	"net/http"
	"time"
)

// HealthHandler serves the liveness probe and the API index
type HealthHandler struct {
	environment    string
	allowedOrigins []string
	now            func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(environment string, allowedOrigins []string) *HealthHandler {
	return &HealthHandler{
		environment:    environment,
		allowedOrigins: allowedOrigins,
		now:            time.Now,
	}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":      "OK",
		"timestamp":   h.now().UTC().Format(time.RFC3339),
		"environment": h.environment,
		"cors": map[string]any{
			"allowedOrigins": h.allowedOrigins,
			"credentials":    true,
		},
	})
}

// Index handles GET /api
func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"message":   "Smart Rent System API",
		"status":    "running",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"endpoints": map[string]string{
			"health":     "/api/health",
			"properties": "/api/properties",
			"categories": "/api/categories",
			"wishlist":   "/api/wishlist",
			"users":      "/api/users",
			"messages":   "/api/messages",
			"reviews":    "/api/reviews",
			"bookings":   "/api/bookings",
		},
	})
}

// NotFound answers every unmatched route with a JSON 404
func (h *HealthHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusNotFound, "route not found: "+r.Method+" "+r.URL.Path)
}
