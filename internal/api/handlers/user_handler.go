package handlers

import (
	"context"
	"net/http"

	"github.com/smartrentsystem/backend/internal/application/services"
	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// UserManager is the account surface used by UserHandler
type UserManager interface {
	Create(ctx context.Context, name, email string) (*entities.User, error)
	GetByID(ctx context.Context, id string) (*entities.User, error)
	UpdateProfile(ctx context.Context, id string, update services.ProfileUpdate) (*entities.User, error)
}

// UserHandler handles user HTTP requests
type UserHandler struct {
	users UserManager
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserManager) *UserHandler {
	return &UserHandler{users: users}
}

type createUserPayload struct {
	Name  string `json:"name" validate:"max=200"`
	Email string `json:"email" validate:"required,email"`
}

type updateUserPayload struct {
	Name  *string `json:"name" validate:"omitempty,max=200"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var payload createUserPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	user, err := h.users.Create(r.Context(), payload.Name, payload.Email)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

// GetMe handles GET /api/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	h.writeUser(w, r, userID)
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	h.writeUser(w, r, r.PathValue("id"))
}

// UpdateMe handles PATCH /api/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var payload updateUserPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, services.ProfileUpdate{
		Name:  payload.Name,
		Email: payload.Email,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) writeUser(w http.ResponseWriter, r *http.Request, id string) {
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
