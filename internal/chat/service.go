// Package chat implements the direct-message delivery lifecycle:
// messages are created 'sent', move to 'delivered' once the recipient
// has a live connection, and to 'read' when the recipient acknowledges
// specific ids. Transitions never regress.
package chat

import (
	"context"
	"errors"
	"strings"

	"realtime-service/internal/models"
	"realtime-service/internal/repositories"
)

var (
	ErrInvalidRecipient = errors.New("invalid recipient")
	ErrSelfMessage      = errors.New("cannot message yourself")
	ErrEmptyMessage     = errors.New("message body or image is required")
	ErrNotFriends       = errors.New("users must be friends to message each other")
)

// PresenceChecker reports whether a user currently holds a connection.
type PresenceChecker interface {
	IsOnline(userID int) bool
}

// Service coordinates message persistence with the presence registry.
type Service struct {
	messages    repositories.DirectMessageRepository
	friendships repositories.FriendshipRepository
	presence    PresenceChecker
}

// NewService constructs a Service.
func NewService(messages repositories.DirectMessageRepository, friendships repositories.FriendshipRepository, presence PresenceChecker) *Service {
	return &Service{messages: messages, friendships: friendships, presence: presence}
}

// Send validates and persists a direct message. When the recipient is
// online at the moment of send, all pending messages between the pair
// are promoted to 'delivered' and the returned message reflects that.
func (s *Service) Send(ctx context.Context, senderID, recipientID int, body, imageURL string) (models.DirectMessage, error) {
	if recipientID <= 0 {
		return models.DirectMessage{}, ErrInvalidRecipient
	}
	if senderID == recipientID {
		return models.DirectMessage{}, ErrSelfMessage
	}

	trimmed := strings.TrimSpace(body)
	if trimmed == "" && imageURL == "" {
		return models.DirectMessage{}, ErrEmptyMessage
	}

	friends, err := s.friendships.AreFriends(ctx, senderID, recipientID)
	if err != nil {
		return models.DirectMessage{}, err
	}
	if !friends {
		return models.DirectMessage{}, ErrNotFriends
	}

	var bodyPtr, imagePtr *string
	if trimmed != "" {
		bodyPtr = &trimmed
	}
	if imageURL != "" {
		imagePtr = &imageURL
	}

	msg, err := s.messages.Create(ctx, senderID, recipientID, bodyPtr, imagePtr)
	if err != nil {
		return models.DirectMessage{}, err
	}

	if s.presence.IsOnline(recipientID) {
		if err := s.messages.MarkDelivered(ctx, senderID, recipientID); err != nil {
			return models.DirectMessage{}, err
		}
		msg.Status = models.MessageStatusDelivered
	}

	return msg, nil
}

// MarkDelivered bulk-promotes 'sent' messages between the pair.
func (s *Service) MarkDelivered(ctx context.Context, senderID, recipientID int) error {
	return s.messages.MarkDelivered(ctx, senderID, recipientID)
}

// MarkRead transitions the named messages to 'read'. Only rows whose
// recipient is the reader are touched; an empty id list is a no-op.
func (s *Service) MarkRead(ctx context.Context, messageIDs []int, readerID int) error {
	if len(messageIDs) == 0 {
		return nil
	}
	_, err := s.messages.MarkRead(ctx, messageIDs, readerID)
	return err
}

// Conversation returns one page of history between the user and a peer.
func (s *Service) Conversation(ctx context.Context, userID, otherUserID, limit, offset int) (models.ConversationPage, error) {
	return s.messages.ListConversation(ctx, userID, otherUserID, limit, offset)
}
