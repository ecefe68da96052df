package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	mongoclient "github.com/smartrentsystem/backend/internal/infrastructure/clients/mongo"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// MessageAdapter implements the MessageRepository interface on MongoDB
type MessageAdapter struct {
	coll *mongo.Collection
}

// NewMessageAdapter creates a new message adapter
func NewMessageAdapter(client *mongoclient.Client) repositories.MessageRepository {
	return &MessageAdapter{coll: client.Collection(messagesCollection)}
}

// Create stores a new message
func (a *MessageAdapter) Create(ctx context.Context, message *entities.Message) error {
	if _, err := a.coll.InsertOne(ctx, message); err != nil {
		return apperrors.NewStorageError("failed to create message", err)
	}
	return nil
}

// GetByID retrieves a message by ID
func (a *MessageAdapter) GetByID(ctx context.Context, id string) (*entities.Message, error) {
	var message entities.Message
	err := a.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&message)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("message with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to get message", err)
	}
	return &message, nil
}

// ListForUser retrieves messages sent to or by a user, newest first
func (a *MessageAdapter) ListForUser(ctx context.Context, userID string) ([]*entities.Message, error) {
	query := bson.M{"$or": bson.A{bson.M{"sender": userID}, bson.M{"recipient": userID}}}
	return findAll[entities.Message](ctx, a.coll, query, "messages")
}

// MarkRead flags a message as read
func (a *MessageAdapter) MarkRead(ctx context.Context, id string) error {
	result, err := a.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return apperrors.NewStorageError("failed to mark message read", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("message with id %s not found", id))
	}
	return nil
}
