package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// MessageService handles direct messages between users
type MessageService struct {
	repo  repositories.MessageRepository
	users repositories.UserRepository
}

// NewMessageService creates a new message service
func NewMessageService(repo repositories.MessageRepository, users repositories.UserRepository) *MessageService {
	return &MessageService{
		repo:  repo,
		users: users,
	}
}

// Send delivers a message from senderID to recipientID
func (s *MessageService) Send(ctx context.Context, senderID, recipientID, listingID, body string) (*entities.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("message content is required")
	}
	if recipientID == "" || recipientID == senderID {
		return nil, apperrors.NewValidationError("a different recipient is required")
	}
	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		return nil, storageErr("failed to load recipient", err)
	}

	msg := &entities.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		ListingID:   listingID,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, storageErr("failed to send message", err)
	}
	return msg, nil
}

// Inbox returns messages sent to or by userID
func (s *MessageService) Inbox(ctx context.Context, userID string) ([]*entities.Message, error) {
	msgs, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, storageErr("failed to list messages", err)
	}
	return msgs, nil
}

// MarkRead flags a message as read. Only its recipient may do so.
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID string) error {
	msg, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		return storageErr("failed to load message", err)
	}
	if msg.RecipientID != userID {
		return apperrors.NewForbiddenError("only the recipient can mark a message read")
	}
	if msg.Read {
		return nil
	}
	if err := s.repo.MarkRead(ctx, messageID); err != nil {
		return storageErr("failed to update message", err)
	}
	return nil
}
