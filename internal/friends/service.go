// Package friends handles friendship requests and responses. A pending
// request moves to accepted or rejected exactly once; both outcomes are
// terminal.
package friends

import (
	"context"
	"errors"
	"log"
	"time"

	"realtime-service/internal/models"
	"realtime-service/internal/notify"
	"realtime-service/internal/repositories"
)

var (
	ErrSelfRequest     = errors.New("cannot send friend request to yourself")
	ErrAlreadyFriends  = errors.New("already friends")
	ErrRequestPending  = errors.New("friend request already pending")
	ErrRequestRejected = errors.New("friend request was rejected")
	ErrNotAddressee    = errors.New("not authorized to respond to this request")
	ErrNotPending      = errors.New("request is not pending")
	ErrInvalidStatus   = errors.New("status must be accepted or rejected")

	ErrRequestNotFound = repositories.ErrFriendshipNotFound
)

// Live event names delivered to the counterpart's private channel.
const (
	EventFriendRequest  = "friend:request"
	EventFriendAccepted = "friend:accepted"
	EventFriendRejected = "friend:rejected"
)

// RequestEvent is pushed to the addressee when a request arrives.
type RequestEvent struct {
	FriendshipID int          `json:"friendshipId"`
	Requester    models.Actor `json:"requester"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// AcceptedEvent is pushed to the requester on acceptance.
type AcceptedEvent struct {
	FriendshipID int          `json:"friendshipId"`
	Accepter     models.Actor `json:"accepter"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// RejectedEvent is pushed to the requester on rejection.
type RejectedEvent struct {
	FriendshipID int          `json:"friendshipId"`
	Rejecter     models.Actor `json:"rejecter"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Service runs friendship transitions and fans out their side effects.
// Live pushes and notification rows are best-effort; only the
// friendship mutation itself can fail the call.
type Service struct {
	friendships repositories.FriendshipRepository
	users       repositories.UserRepository
	notify      *notify.Service
	pusher      notify.Pusher
}

// NewService constructs a Service.
func NewService(friendships repositories.FriendshipRepository, users repositories.UserRepository, notifySvc *notify.Service, pusher notify.Pusher) *Service {
	return &Service{friendships: friendships, users: users, notify: notifySvc, pusher: pusher}
}

// SendRequest creates a pending friendship toward the target. Any
// existing row between the pair, whatever its status, blocks a new one.
func (s *Service) SendRequest(ctx context.Context, requesterID, targetUserID int) (models.Friendship, error) {
	if requesterID == targetUserID {
		return models.Friendship{}, ErrSelfRequest
	}

	existing, err := s.friendships.GetByPair(ctx, requesterID, targetUserID)
	if err == nil {
		switch existing.Status {
		case models.FriendshipAccepted:
			return models.Friendship{}, ErrAlreadyFriends
		case models.FriendshipPending:
			return models.Friendship{}, ErrRequestPending
		default:
			return models.Friendship{}, ErrRequestRejected
		}
	}
	if !errors.Is(err, repositories.ErrFriendshipNotFound) {
		return models.Friendship{}, err
	}

	friendship, err := s.friendships.Create(ctx, requesterID, targetUserID)
	if err != nil {
		return models.Friendship{}, err
	}

	s.emit(ctx, targetUserID, EventFriendRequest, func(actor models.Actor) any {
		return RequestEvent{FriendshipID: friendship.ID, Requester: actor, CreatedAt: friendship.CreatedAt}
	}, requesterID)

	if err := s.notify.FriendRequest(ctx, friendship.ID, requesterID, targetUserID); err != nil {
		log.Printf("friend request notification failed: %v", err)
	}

	return friendship, nil
}

// Respond resolves a pending request. Only the addressee may respond,
// and only while the request is still pending.
func (s *Service) Respond(ctx context.Context, userID, requestID int, status models.FriendshipStatus) (models.Friendship, error) {
	if status != models.FriendshipAccepted && status != models.FriendshipRejected {
		return models.Friendship{}, ErrInvalidStatus
	}

	friendship, err := s.friendships.GetByID(ctx, requestID)
	if err != nil {
		return models.Friendship{}, err
	}
	if friendship.AddresseeID != userID {
		return models.Friendship{}, ErrNotAddressee
	}
	if friendship.Status != models.FriendshipPending {
		return models.Friendship{}, ErrNotPending
	}

	updated, err := s.friendships.UpdateStatus(ctx, requestID, status)
	if err != nil {
		return models.Friendship{}, err
	}

	if status == models.FriendshipAccepted {
		s.emit(ctx, friendship.RequesterID, EventFriendAccepted, func(actor models.Actor) any {
			return AcceptedEvent{FriendshipID: friendship.ID, Accepter: actor, UpdatedAt: updated.UpdatedAt}
		}, userID)
		if err := s.notify.FriendAccepted(ctx, friendship.ID, userID, friendship.RequesterID); err != nil {
			log.Printf("friend accepted notification failed: %v", err)
		}
	} else {
		s.emit(ctx, friendship.RequesterID, EventFriendRejected, func(actor models.Actor) any {
			return RejectedEvent{FriendshipID: friendship.ID, Rejecter: actor, UpdatedAt: updated.UpdatedAt}
		}, userID)
		if err := s.notify.FriendRejected(ctx, friendship.ID, userID, friendship.RequesterID); err != nil {
			log.Printf("friend rejected notification failed: %v", err)
		}
	}

	return updated, nil
}

// emit pushes a live friend event built around the actor's display
// attributes. Failures are logged and swallowed.
func (s *Service) emit(ctx context.Context, targetUserID int, event string, build func(models.Actor) any, actorUserID int) {
	user, err := s.users.GetBasic(ctx, actorUserID)
	if err != nil {
		log.Printf("friend event actor lookup failed: %v", err)
		return
	}
	actor := models.Actor{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Handle:      user.Handle,
		AvatarURL:   user.AvatarURL,
	}
	if err := s.pusher.PushToUser(targetUserID, event, build(actor)); err != nil {
		log.Printf("friend event push failed: %v", err)
	}
}

// Friends lists accepted friendships for the user.
func (s *Service) Friends(ctx context.Context, userID int) ([]models.FriendUser, error) {
	return s.friendships.ListFriends(ctx, userID)
}

// Pending lists pending requests in either direction.
func (s *Service) Pending(ctx context.Context, userID int) ([]models.FriendUser, error) {
	return s.friendships.ListPending(ctx, userID)
}

// Search finds users with no friendship row toward the caller.
func (s *Service) Search(ctx context.Context, userID int, query string) ([]models.ChatUser, error) {
	return s.friendships.SearchUsers(ctx, userID, query)
}
