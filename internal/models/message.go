package models

import "time"

// MessageStatus is the delivery state of a direct message.
type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
)

// MessageParty carries the display attributes of a message endpoint.
type MessageParty struct {
	DisplayName *string `json:"displayName"`
	Handle      *string `json:"handle"`
	AvatarURL   *string `json:"avatarUrl"`
}

// DirectMessage is a one-to-one message between friends. Body and
// ImageURL cannot both be empty; Status only moves forward
// (sent -> delivered -> read).
type DirectMessage struct {
	ID              int           `json:"id"`
	SenderUserID    int           `json:"senderUserId"`
	RecipientUserID int           `json:"recipientUserId"`
	Body            *string       `json:"body"`
	ImageURL        *string       `json:"imageUrl"`
	CreatedAt       time.Time     `json:"createdAt"`
	Status          MessageStatus `json:"status"`
	Sender          MessageParty  `json:"sender"`
	Recipient       MessageParty  `json:"recipient"`
}

// ConversationPage is one page of direct-message history, oldest first.
type ConversationPage struct {
	Messages []DirectMessage `json:"messages"`
	HasMore  bool            `json:"hasMore"`
}
