package models

import "time"

// FriendshipStatus is the lifecycle state of a friendship row. Pending
// moves to accepted or rejected; both are terminal.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipRejected FriendshipStatus = "rejected"
)

// Friendship links a requester to an addressee. At most one row exists
// per unordered user pair.
type Friendship struct {
	ID          int              `db:"id" json:"id"`
	RequesterID int              `db:"requester_id" json:"requesterId"`
	AddresseeID int              `db:"addressee_id" json:"addresseeId"`
	Status      FriendshipStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updatedAt"`
}

// FriendUser is the other end of a friendship as listed for one user.
type FriendUser struct {
	ID           int              `db:"id" json:"id"`
	DisplayName  *string          `db:"display_name" json:"displayName"`
	Handle       *string          `db:"handle" json:"handle"`
	AvatarURL    *string          `db:"avatar_url" json:"avatarUrl"`
	FriendshipID int              `db:"friendship_id" json:"friendshipId"`
	Status       FriendshipStatus `db:"status" json:"status"`
	IsRequester  bool             `db:"is_requester" json:"isRequester"`
}
