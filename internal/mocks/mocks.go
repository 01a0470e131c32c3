package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"realtime-service/internal/models"
	"realtime-service/internal/repositories"
)

type DirectMessageRepositoryMock struct {
	mock.Mock
}

func (m *DirectMessageRepositoryMock) Create(ctx context.Context, senderID, recipientID int, body, imageURL *string) (models.DirectMessage, error) {
	args := m.Called(ctx, senderID, recipientID, body, imageURL)
	var msg models.DirectMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.DirectMessage)
	}
	return msg, args.Error(1)
}

func (m *DirectMessageRepositoryMock) GetMessage(ctx context.Context, messageID int) (models.DirectMessage, error) {
	args := m.Called(ctx, messageID)
	var msg models.DirectMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.DirectMessage)
	}
	return msg, args.Error(1)
}

func (m *DirectMessageRepositoryMock) ListConversation(ctx context.Context, userID, otherUserID, limit, offset int) (models.ConversationPage, error) {
	args := m.Called(ctx, userID, otherUserID, limit, offset)
	var page models.ConversationPage
	if val := args.Get(0); val != nil {
		page = val.(models.ConversationPage)
	}
	return page, args.Error(1)
}

func (m *DirectMessageRepositoryMock) MarkDelivered(ctx context.Context, senderID, recipientID int) error {
	args := m.Called(ctx, senderID, recipientID)
	return args.Error(0)
}

func (m *DirectMessageRepositoryMock) MarkRead(ctx context.Context, messageIDs []int, recipientID int) (int64, error) {
	args := m.Called(ctx, messageIDs, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

type FriendshipRepositoryMock struct {
	mock.Mock
}

func (m *FriendshipRepositoryMock) Create(ctx context.Context, requesterID, addresseeID int) (models.Friendship, error) {
	args := m.Called(ctx, requesterID, addresseeID)
	var f models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(models.Friendship)
	}
	return f, args.Error(1)
}

func (m *FriendshipRepositoryMock) GetByPair(ctx context.Context, userID, otherUserID int) (models.Friendship, error) {
	args := m.Called(ctx, userID, otherUserID)
	var f models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(models.Friendship)
	}
	return f, args.Error(1)
}

func (m *FriendshipRepositoryMock) GetByID(ctx context.Context, friendshipID int) (models.Friendship, error) {
	args := m.Called(ctx, friendshipID)
	var f models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(models.Friendship)
	}
	return f, args.Error(1)
}

func (m *FriendshipRepositoryMock) UpdateStatus(ctx context.Context, friendshipID int, status models.FriendshipStatus) (models.Friendship, error) {
	args := m.Called(ctx, friendshipID, status)
	var f models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(models.Friendship)
	}
	return f, args.Error(1)
}

func (m *FriendshipRepositoryMock) AreFriends(ctx context.Context, userID, otherUserID int) (bool, error) {
	args := m.Called(ctx, userID, otherUserID)
	return args.Bool(0), args.Error(1)
}

func (m *FriendshipRepositoryMock) ListFriends(ctx context.Context, userID int) ([]models.FriendUser, error) {
	args := m.Called(ctx, userID)
	var list []models.FriendUser
	if val := args.Get(0); val != nil {
		list = val.([]models.FriendUser)
	}
	return list, args.Error(1)
}

func (m *FriendshipRepositoryMock) ListPending(ctx context.Context, userID int) ([]models.FriendUser, error) {
	args := m.Called(ctx, userID)
	var list []models.FriendUser
	if val := args.Get(0); val != nil {
		list = val.([]models.FriendUser)
	}
	return list, args.Error(1)
}

func (m *FriendshipRepositoryMock) SearchUsers(ctx context.Context, userID int, query string) ([]models.ChatUser, error) {
	args := m.Called(ctx, userID, query)
	var list []models.ChatUser
	if val := args.Get(0); val != nil {
		list = val.([]models.ChatUser)
	}
	return list, args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) Insert(ctx context.Context, n repositories.NotificationInsert) (int, error) {
	args := m.Called(ctx, n)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) GetDetailed(ctx context.Context, notificationID int) (models.Notification, error) {
	args := m.Called(ctx, notificationID)
	var n models.Notification
	if val := args.Get(0); val != nil {
		n = val.(models.Notification)
	}
	return n, args.Error(1)
}

func (m *NotificationRepositoryMock) ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]models.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly)
	var list []models.Notification
	if val := args.Get(0); val != nil {
		list = val.([]models.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationRepositoryMock) MarkRead(ctx context.Context, userID, notificationID int) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) ThreadAuthor(ctx context.Context, threadID int) (int, error) {
	args := m.Called(ctx, threadID)
	return args.Int(0), args.Error(1)
}

type RoomRepositoryMock struct {
	mock.Mock
}

func (m *RoomRepositoryMock) CreateRoom(ctx context.Context, creatorID int, title, category string, maxUsers int, expiresAt time.Time) (models.TopicRoom, error) {
	args := m.Called(ctx, creatorID, title, category, maxUsers, expiresAt)
	var room models.TopicRoom
	if val := args.Get(0); val != nil {
		room = val.(models.TopicRoom)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) ListActive(ctx context.Context, category, search string) ([]models.TopicRoom, error) {
	args := m.Called(ctx, category, search)
	var rooms []models.TopicRoom
	if val := args.Get(0); val != nil {
		rooms = val.([]models.TopicRoom)
	}
	return rooms, args.Error(1)
}

func (m *RoomRepositoryMock) GetActive(ctx context.Context, roomID int) (models.TopicRoom, error) {
	args := m.Called(ctx, roomID)
	var room models.TopicRoom
	if val := args.Get(0); val != nil {
		room = val.(models.TopicRoom)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) IsParticipant(ctx context.Context, roomID, userID int) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *RoomRepositoryMock) AddParticipant(ctx context.Context, roomID, userID, maxUsers int) (bool, error) {
	args := m.Called(ctx, roomID, userID, maxUsers)
	return args.Bool(0), args.Error(1)
}

func (m *RoomRepositoryMock) RemoveParticipant(ctx context.Context, roomID, userID int) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *RoomRepositoryMock) ParticipantCount(ctx context.Context, roomID int) (int, error) {
	args := m.Called(ctx, roomID)
	return args.Int(0), args.Error(1)
}

func (m *RoomRepositoryMock) CreateMessage(ctx context.Context, roomID, userID int, content string) (models.RoomMessage, error) {
	args := m.Called(ctx, roomID, userID, content)
	var msg models.RoomMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.RoomMessage)
	}
	return msg, args.Error(1)
}

func (m *RoomRepositoryMock) ListMessages(ctx context.Context, roomID, limit int) ([]models.RoomMessage, error) {
	args := m.Called(ctx, roomID, limit)
	var msgs []models.RoomMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.RoomMessage)
	}
	return msgs, args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetBasic(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var u models.User
	if val := args.Get(0); val != nil {
		u = val.(models.User)
	}
	return u, args.Error(1)
}

func (m *UserRepositoryMock) TouchLastOnline(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepositoryMock) ListChatUsers(ctx context.Context, userID int) ([]models.ChatUser, error) {
	args := m.Called(ctx, userID)
	var list []models.ChatUser
	if val := args.Get(0); val != nil {
		list = val.([]models.ChatUser)
	}
	return list, args.Error(1)
}
