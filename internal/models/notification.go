package models

import "time"

// NotificationType enumerates the persisted notification variants. The
// string values are part of the stored schema contract.
type NotificationType string

const (
	NotificationReplyOnThread  NotificationType = "REPLY_ON_THREAD"
	NotificationLikeOnThread   NotificationType = "LIKE_ON_THREAD"
	NotificationFriendRequest  NotificationType = "FRIEND_REQUEST"
	NotificationFriendAccepted NotificationType = "FRIEND_ACCEPTED"
	NotificationFriendRejected NotificationType = "FRIEND_REJECTED"
)

// NotificationActor is the user that triggered the notification.
type NotificationActor struct {
	DisplayName *string `json:"displayName"`
	Handle      *string `json:"handle"`
	AvatarURL   *string `json:"avatarUrl"`
}

// ThreadRef is attached when the notification points at a thread.
type ThreadRef struct {
	Title string `json:"title"`
}

// Notification is a persisted notification with its push payload shape.
// Thread notifications carry ThreadID, friend notifications carry
// FriendshipID; the fan-out constructors enforce which one is set.
type Notification struct {
	ID           int               `json:"id"`
	Type         NotificationType  `json:"type"`
	ThreadID     *int              `json:"threadId"`
	FriendshipID *int              `json:"friendshipId"`
	CreatedAt    time.Time         `json:"createdAt"`
	ReadAt       *time.Time        `json:"readAt"`
	Actor        NotificationActor `json:"actor"`
	Thread       *ThreadRef        `json:"thread,omitempty"`
}
