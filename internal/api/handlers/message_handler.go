package handlers

import (
	"context"
	"net/http"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// MessageManager is the messaging surface used by MessageHandler
type MessageManager interface {
	Send(ctx context.Context, senderID, recipientID, listingID, body string) (*entities.Message, error)
	Inbox(ctx context.Context, userID string) ([]*entities.Message, error)
	MarkRead(ctx context.Context, userID, messageID string) error
}

// MessageHandler handles message HTTP requests
type MessageHandler struct {
	messages MessageManager
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messages MessageManager) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type sendMessagePayload struct {
	Recipient string `json:"recipient" validate:"required"`
	Property  string `json:"property"`
	Content   string `json:"content" validate:"required,max=5000"`
}

// SendMessage handles POST /api/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var payload sendMessagePayload
	if err := decodeJSON(r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	msg, err := h.messages.Send(r.Context(), userID, payload.Recipient, payload.Property, payload.Content)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, msg)
}

// ListMessages handles GET /api/messages
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	msgs, err := h.messages.Inbox(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []*entities.Message{}
	}
	respondWithJSON(w, http.StatusOK, msgs)
}

// MarkRead handles POST /api/messages/{id}/read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.messages.MarkRead(r.Context(), userID, r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
