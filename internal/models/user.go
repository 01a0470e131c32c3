package models

import "time"

// User mirrors a row of the shared users table. Rows are written by the
// identity pipeline; this service only reads display attributes and
// touches last_online_at.
type User struct {
	ID           int        `db:"id" json:"id"`
	ExternalID   string     `db:"external_id" json:"-"`
	DisplayName  *string    `db:"display_name" json:"displayName"`
	Handle       *string    `db:"handle" json:"handle"`
	AvatarURL    *string    `db:"avatar_url" json:"avatarUrl"`
	LastOnlineAt *time.Time `db:"last_online_at" json:"lastOnlineAt"`
}

// ChatUser is the /chat/users list item: an accepted friend with the
// attributes the conversation sidebar needs.
type ChatUser struct {
	ID           int        `db:"id" json:"id"`
	DisplayName  *string    `db:"display_name" json:"displayName"`
	Handle       *string    `db:"handle" json:"handle"`
	AvatarURL    *string    `db:"avatar_url" json:"avatarUrl"`
	LastOnlineAt *time.Time `db:"last_online_at" json:"lastOnlineAt"`
}

// Actor identifies the user behind a friend event payload.
type Actor struct {
	ID          int     `json:"id"`
	DisplayName *string `json:"displayName"`
	Handle      *string `json:"handle"`
	AvatarURL   *string `json:"avatarUrl"`
}
