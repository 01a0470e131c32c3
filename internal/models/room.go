package models

import "time"

// TopicRoom is an ephemeral, capacity-limited group chat. A room is
// active while expires_at lies in the future; expired rows linger until
// external maintenance removes them and every read filters them out.
type TopicRoom struct {
	ID               int       `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Category         string    `db:"category" json:"category"`
	CreatorID        int       `db:"creator_id" json:"creatorId"`
	MaxUsers         int       `db:"max_users" json:"maxUsers"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	ExpiresAt        time.Time `db:"expires_at" json:"expiresAt"`
	ParticipantCount int       `db:"participant_count" json:"participantCount"`
}

// RoomParticipant is the (room, user) join row.
type RoomParticipant struct {
	RoomID   int       `db:"room_id" json:"roomId"`
	UserID   int       `db:"user_id" json:"userId"`
	JoinedAt time.Time `db:"joined_at" json:"joinedAt"`
	ConnID   *string   `db:"conn_id" json:"connId"`
}

// RoomSender is the author snapshot broadcast with a room message.
type RoomSender struct {
	ID          int     `json:"id"`
	DisplayName *string `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
}

// RoomMessage is an append-only message inside a topic room.
type RoomMessage struct {
	ID        int         `json:"id"`
	RoomID    int         `json:"roomId"`
	UserID    int         `json:"userId"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	Sender    *RoomSender `json:"sender,omitempty"`
}
