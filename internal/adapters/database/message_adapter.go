package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	"github.com/smartrentsystem/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

const messagesTable = "messages"

var messageColumns = []any{"id", "sender_id", "recipient_id", "listing_id", "body", "read", "created_at"}

// MessageAdapter implements the MessageRepository interface
type MessageAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewMessageAdapter creates a new message adapter
func NewMessageAdapter(client *postgres.Client) repositories.MessageRepository {
	return &MessageAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create stores a new message
func (a *MessageAdapter) Create(ctx context.Context, message *entities.Message) error {
	query, args, err := a.db.Insert(messagesTable).Rows(goqu.Record{
		"id":           message.ID,
		"sender_id":    message.SenderID,
		"recipient_id": message.RecipientID,
		"listing_id":   message.ListingID,
		"body":         message.Body,
		"read":         message.Read,
		"created_at":   message.CreatedAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewStorageError("failed to create message", err)
	}
	return nil
}

// GetByID retrieves a message by ID
func (a *MessageAdapter) GetByID(ctx context.Context, id string) (*entities.Message, error) {
	query, args, err := a.db.From(messagesTable).Select(messageColumns...).Where(goqu.Ex{"id": id}).Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	message := &entities.Message{}
	err = a.client.X().GetContext(ctx, message, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("message with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to get message", err)
	}
	return message, nil
}

// ListForUser retrieves messages sent to or by a user, newest first
func (a *MessageAdapter) ListForUser(ctx context.Context, userID string) ([]*entities.Message, error) {
	query, args, err := a.db.From(messagesTable).
		Select(messageColumns...).
		Where(goqu.Or(
			goqu.C("sender_id").Eq(userID),
			goqu.C("recipient_id").Eq(userID),
		)).
		Order(goqu.C("created_at").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	messages := []*entities.Message{}
	if err := a.client.X().SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, apperrors.NewStorageError("failed to list messages", err)
	}
	return messages, nil
}

// MarkRead flags a message as read
func (a *MessageAdapter) MarkRead(ctx context.Context, id string) error {
	query, args, err := a.db.Update(messagesTable).
		Set(goqu.Record{"read": true}).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewStorageError("failed to mark message read", err)
	}
	return requireRow(result, fmt.Sprintf("message with id %s not found", id))
}
