package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realtime-service/internal/mocks"
	"realtime-service/internal/models"
)

type presenceStub struct {
	online map[int]bool
}

func (p presenceStub) IsOnline(userID int) bool {
	return p.online[userID]
}

func TestSendRejectsSelfMessage(t *testing.T) {
	messages := new(mocks.DirectMessageRepositoryMock)
	friendships := new(mocks.FriendshipRepositoryMock)
	svc := NewService(messages, friendships, presenceStub{})

	_, err := svc.Send(context.Background(), 1, 1, "hi", "")
	require.ErrorIs(t, err, ErrSelfMessage)
	messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendRejectsInvalidRecipient(t *testing.T) {
	svc := NewService(new(mocks.DirectMessageRepositoryMock), new(mocks.FriendshipRepositoryMock), presenceStub{})

	_, err := svc.Send(context.Background(), 1, 0, "hi", "")
	require.ErrorIs(t, err, ErrInvalidRecipient)
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	svc := NewService(new(mocks.DirectMessageRepositoryMock), new(mocks.FriendshipRepositoryMock), presenceStub{})

	_, err := svc.Send(context.Background(), 1, 2, "   ", "")
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendRejectsNonFriends(t *testing.T) {
	messages := new(mocks.DirectMessageRepositoryMock)
	friendships := new(mocks.FriendshipRepositoryMock)
	svc := NewService(messages, friendships, presenceStub{})

	friendships.On("AreFriends", mock.Anything, 1, 2).Return(false, nil).Once()

	_, err := svc.Send(context.Background(), 1, 2, "hi", "")
	require.ErrorIs(t, err, ErrNotFriends)
	messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	friendships.AssertExpectations(t)
}

func TestSendOfflineRecipientStaysSent(t *testing.T) {
	messages := new(mocks.DirectMessageRepositoryMock)
	friendships := new(mocks.FriendshipRepositoryMock)
	svc := NewService(messages, friendships, presenceStub{online: map[int]bool{}})

	friendships.On("AreFriends", mock.Anything, 1, 2).Return(true, nil).Once()
	messages.On("Create", mock.Anything, 1, 2, mock.Anything, mock.Anything).
		Return(models.DirectMessage{ID: 10, SenderUserID: 1, RecipientUserID: 2, Status: models.MessageStatusSent}, nil).Once()

	msg, err := svc.Send(context.Background(), 1, 2, "hi", "")
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusSent, msg.Status)
	messages.AssertNotCalled(t, "MarkDelivered", mock.Anything, mock.Anything, mock.Anything)
	messages.AssertExpectations(t)
}

func TestSendOnlineRecipientPromotesToDelivered(t *testing.T) {
	messages := new(mocks.DirectMessageRepositoryMock)
	friendships := new(mocks.FriendshipRepositoryMock)
	svc := NewService(messages, friendships, presenceStub{online: map[int]bool{2: true}})

	friendships.On("AreFriends", mock.Anything, 1, 2).Return(true, nil).Once()
	messages.On("Create", mock.Anything, 1, 2, mock.Anything, mock.Anything).
		Return(models.DirectMessage{ID: 10, SenderUserID: 1, RecipientUserID: 2, Status: models.MessageStatusSent}, nil).Once()
	messages.On("MarkDelivered", mock.Anything, 1, 2).Return(nil).Once()

	msg, err := svc.Send(context.Background(), 1, 2, "hi", "")
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusDelivered, msg.Status)
	messages.AssertExpectations(t)
}

func TestSendImageOnlyMessage(t *testing.T) {
	messages := new(mocks.DirectMessageRepositoryMock)
	friendships := new(mocks.FriendshipRepositoryMock)
	svc := NewService(messages, friendships, presenceStub{})

	friendships.On("AreFriends", mock.Anything, 1, 2).Return(true, nil).Once()
	messages.On("Create", mock.Anything, 1, 2, (*string)(nil), mock.Anything).
		Return(models.DirectMessage{ID: 11, SenderUserID: 1, RecipientUserID: 2, Status: models.MessageStatusSent}, nil).Once()

	_, err := svc.Send(context.Background(), 1, 2, "", "https://cdn.example/img.png")
	require.NoError(t, err)
	messages.AssertExpectations(t)
}

func TestMarkReadEmptyListIsNoop(t *testing.T) {
	messages := new(mocks.DirectMessageRepositoryMock)
	svc := NewService(messages, new(mocks.FriendshipRepositoryMock), presenceStub{})

	require.NoError(t, svc.MarkRead(context.Background(), nil, 2))
	messages.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkReadScopedToReader(t *testing.T) {
	messages := new(mocks.DirectMessageRepositoryMock)
	svc := NewService(messages, new(mocks.FriendshipRepositoryMock), presenceStub{})

	messages.On("MarkRead", mock.Anything, []int{4, 5}, 2).Return(int64(2), nil).Once()

	require.NoError(t, svc.MarkRead(context.Background(), []int{4, 5}, 2))
	messages.AssertExpectations(t)
}

func TestConversationPassesPaging(t *testing.T) {
	messages := new(mocks.DirectMessageRepositoryMock)
	svc := NewService(messages, new(mocks.FriendshipRepositoryMock), presenceStub{})

	messages.On("ListConversation", mock.Anything, 1, 2, 20, 40).
		Return(models.ConversationPage{HasMore: true}, nil).Once()

	page, err := svc.Conversation(context.Background(), 1, 2, 20, 40)
	require.NoError(t, err)
	assert.True(t, page.HasMore)
	messages.AssertExpectations(t)
}
