package memory

import (
	"context"
	"fmt"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// MessageAdapter implements MessageRepository on a Store
type MessageAdapter struct {
	store *Store
}

// NewMessageAdapter creates a new in-memory message adapter
func NewMessageAdapter(store *Store) *MessageAdapter {
	return &MessageAdapter{store: store}
}

var _ repositories.MessageRepository = (*MessageAdapter)(nil)

// Create stores a new message
func (a *MessageAdapter) Create(ctx context.Context, message *entities.Message) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	c := *message
	a.store.messages[message.ID] = &c
	return nil
}

// GetByID retrieves a message by ID
func (a *MessageAdapter) GetByID(ctx context.Context, id string) (*entities.Message, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	m, ok := a.store.messages[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("message %s not found", id))
	}
	c := *m
	return &c, nil
}

// ListForUser retrieves messages sent to or by a user
func (a *MessageAdapter) ListForUser(ctx context.Context, userID string) ([]*entities.Message, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	out := make([]*entities.Message, 0)
	for _, m := range a.store.messages {
		if m.SenderID == userID || m.RecipientID == userID {
			c := *m
			out = append(out, &c)
		}
	}
	newestFirst(out, func(m *entities.Message) int64 { return m.CreatedAt.UnixNano() })
	return out, nil
}

// MarkRead flags a message as read
func (a *MessageAdapter) MarkRead(ctx context.Context, id string) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	m, ok := a.store.messages[id]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("message %s not found", id))
	}
	m.Read = true
	return nil
}
