// Package notify persists notifications and pushes them to connected
// targets. Persistence failures surface to the caller; a failed or
// impossible live push never does — the notification stays queryable.
package notify

import (
	"context"
	"log"

	"realtime-service/internal/models"
	"realtime-service/internal/observability"
	"realtime-service/internal/repositories"
)

// EventNotificationNew is the push event name for new notifications.
const EventNotificationNew = "notification:new"

// Pusher delivers an event to every connection of one user.
type Pusher interface {
	PushToUser(userID int, event string, payload any) error
}

// Presence reports whether a push target is connected.
type Presence interface {
	IsOnline(userID int) bool
}

// Service is the notification fan-out. One method per notification
// variant keeps the payload references (thread vs friendship) correct
// by construction.
type Service struct {
	repo     repositories.NotificationRepository
	presence Presence
	pusher   Pusher
}

// NewService constructs a Service.
func NewService(repo repositories.NotificationRepository, presence Presence, pusher Pusher) *Service {
	return &Service{repo: repo, presence: presence, pusher: pusher}
}

// ReplyOnThread notifies a thread author about a reply. Replying to
// your own thread or to an unknown thread is a no-op.
func (s *Service) ReplyOnThread(ctx context.Context, threadID, actorUserID int) error {
	return s.threadEvent(ctx, threadID, actorUserID, models.NotificationReplyOnThread)
}

// LikeOnThread notifies a thread author about a like.
func (s *Service) LikeOnThread(ctx context.Context, threadID, actorUserID int) error {
	return s.threadEvent(ctx, threadID, actorUserID, models.NotificationLikeOnThread)
}

func (s *Service) threadEvent(ctx context.Context, threadID, actorUserID int, typ models.NotificationType) error {
	authorID, err := s.repo.ThreadAuthor(ctx, threadID)
	if err != nil {
		if err == repositories.ErrThreadNotFound {
			return nil
		}
		return err
	}
	if authorID == actorUserID {
		return nil
	}

	id, err := s.repo.Insert(ctx, repositories.NotificationInsert{
		UserID:      authorID,
		ActorUserID: actorUserID,
		ThreadID:    &threadID,
		Type:        typ,
	})
	if err != nil {
		return err
	}

	s.push(ctx, id, authorID)
	return nil
}

// FriendRequest notifies the addressee of a new friend request.
func (s *Service) FriendRequest(ctx context.Context, friendshipID, actorUserID, targetUserID int) error {
	return s.friendEvent(ctx, friendshipID, actorUserID, targetUserID, models.NotificationFriendRequest)
}

// FriendAccepted notifies the requester that their request was accepted.
func (s *Service) FriendAccepted(ctx context.Context, friendshipID, actorUserID, targetUserID int) error {
	return s.friendEvent(ctx, friendshipID, actorUserID, targetUserID, models.NotificationFriendAccepted)
}

// FriendRejected notifies the requester that their request was rejected.
func (s *Service) FriendRejected(ctx context.Context, friendshipID, actorUserID, targetUserID int) error {
	return s.friendEvent(ctx, friendshipID, actorUserID, targetUserID, models.NotificationFriendRejected)
}

func (s *Service) friendEvent(ctx context.Context, friendshipID, actorUserID, targetUserID int, typ models.NotificationType) error {
	if actorUserID == targetUserID {
		return nil
	}

	id, err := s.repo.Insert(ctx, repositories.NotificationInsert{
		UserID:       targetUserID,
		ActorUserID:  actorUserID,
		FriendshipID: &friendshipID,
		Type:         typ,
	})
	if err != nil {
		return err
	}

	s.push(ctx, id, targetUserID)
	return nil
}

// push delivers the detailed payload to the target if connected. Every
// failure here is logged and swallowed.
func (s *Service) push(ctx context.Context, notificationID, targetUserID int) {
	if !s.presence.IsOnline(targetUserID) {
		return
	}

	payload, err := s.repo.GetDetailed(ctx, notificationID)
	if err != nil {
		log.Printf("notification payload load failed: id=%d err=%v", notificationID, err)
		observability.IncPushFailure()
		return
	}

	if err := s.pusher.PushToUser(targetUserID, EventNotificationNew, payload); err != nil {
		log.Printf("notification push failed: user=%d err=%v", targetUserID, err)
		observability.IncPushFailure()
	}
}

// List returns the user's notifications, optionally unread only.
func (s *Service) List(ctx context.Context, userID int, unreadOnly bool) ([]models.Notification, error) {
	return s.repo.ListForUser(ctx, userID, unreadOnly)
}

// MarkRead sets the read timestamp once, scoped to the owning user.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID int) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}
