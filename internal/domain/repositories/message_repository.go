package repositories

import (
	"context"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// MessageRepository defines the interface for message operations
type MessageRepository interface {
	// Create stores a new message
	Create(ctx context.Context, message *entities.Message) error

	// GetByID retrieves a message by ID
	GetByID(ctx context.Context, id string) (*entities.Message, error)

	// ListForUser retrieves messages sent to or by a user, newest first
	ListForUser(ctx context.Context, userID string) ([]*entities.Message, error)

	// MarkRead flags a message as read
	MarkRead(ctx context.Context, id string) error
}
