package ws

import "encoding/json"

// Wire event names. These are the client contract and must not change.
const (
	EventReady             = "ready"
	EventPresenceUpdate    = "presence:update"
	EventDMSend            = "dm:send"
	EventDMMessage         = "dm:message"
	EventDMRead            = "dm:read"
	EventDMStatusUpdate    = "dm:status_update"
	EventDMTyping          = "dm:typing"
	EventDMError           = "dm:error"
	EventRoomJoin          = "room:join"
	EventRoomLeave         = "room:leave"
	EventRoomMessage       = "room:message"
	EventRoomParticipants  = "room:participant_update"
	EventRoomError         = "room:error"
)

// Envelope frames every inbound client event.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// outEvent frames every event emitted to a client.
type outEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// ReadyPayload acknowledges a completed handshake.
type ReadyPayload struct {
	UserID int `json:"userId"`
}

// PresencePayload carries the current presence snapshot.
type PresencePayload struct {
	OnlineUserIDs []int `json:"onlineUserIds"`
}

// DMSendPayload is the inbound direct-message send request.
type DMSendPayload struct {
	RecipientUserID int    `json:"recipientUserId"`
	Body            string `json:"body"`
	ImageURL        string `json:"imageUrl"`
}

// DMReadPayload is the inbound read receipt: the reader names the
// messages and the original sender to notify.
type DMReadPayload struct {
	MessageIDs   []int `json:"messageIds"`
	SenderUserID int   `json:"senderUserId"`
}

// DMStatusUpdatePayload tells a sender their messages changed status.
// ConversationID identifies the conversation partner (the reader).
type DMStatusUpdatePayload struct {
	MessageIDs     []int  `json:"messageIds"`
	Status         string `json:"status"`
	ConversationID int    `json:"conversationId"`
}

// DMTypingInbound is the inbound typing indicator.
type DMTypingInbound struct {
	RecipientUserID int  `json:"recipientUserId"`
	IsTyping        bool `json:"isTyping"`
}

// DMTypingPayload is the typing indicator relayed to the recipient.
type DMTypingPayload struct {
	SenderUserID  int    `json:"senderUserId"`
	RecipientRoom string `json:"recipientRoom"`
	IsTyping      bool   `json:"isTyping"`
}

// DMErrorPayload reports a direct-message failure to the origin only.
type DMErrorPayload struct {
	Error string `json:"error"`
}

// RoomMessageInbound is an inbound room message.
type RoomMessageInbound struct {
	RoomID  int    `json:"roomId"`
	Content string `json:"content"`
}

// RoomParticipantsPayload announces a room's participant count.
type RoomParticipantsPayload struct {
	RoomID int `json:"roomId"`
	Count  int `json:"count"`
}

// RoomErrorPayload reports a room failure to the origin only.
type RoomErrorPayload struct {
	Message string `json:"message"`
}
