package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realtime-service/internal/mocks"
	"realtime-service/internal/models"
	"realtime-service/internal/repositories"
)

type presenceStub struct {
	online map[int]bool
}

func (p presenceStub) IsOnline(userID int) bool {
	return p.online[userID]
}

func TestReplyOnThreadSuppressesSelf(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	svc := NewService(repo, presenceStub{}, new(mocks.PusherMock))

	repo.On("ThreadAuthor", mock.Anything, 7).Return(3, nil).Once()

	require.NoError(t, svc.ReplyOnThread(context.Background(), 7, 3))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestReplyOnUnknownThreadIsNoop(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	svc := NewService(repo, presenceStub{}, new(mocks.PusherMock))

	repo.On("ThreadAuthor", mock.Anything, 7).Return(0, repositories.ErrThreadNotFound).Once()

	require.NoError(t, svc.ReplyOnThread(context.Background(), 7, 3))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestReplyOnThreadPersistsAndSkipsOfflinePush(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	pusher := new(mocks.PusherMock)
	svc := NewService(repo, presenceStub{online: map[int]bool{}}, pusher)

	threadID := 7
	repo.On("ThreadAuthor", mock.Anything, 7).Return(3, nil).Once()
	repo.On("Insert", mock.Anything, repositories.NotificationInsert{
		UserID:      3,
		ActorUserID: 2,
		ThreadID:    &threadID,
		Type:        models.NotificationReplyOnThread,
	}).Return(99, nil).Once()

	require.NoError(t, svc.ReplyOnThread(context.Background(), 7, 2))
	pusher.AssertNotCalled(t, "PushToUser", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestLikeOnThreadPushesToOnlineAuthor(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	pusher := new(mocks.PusherMock)
	svc := NewService(repo, presenceStub{online: map[int]bool{3: true}}, pusher)

	repo.On("ThreadAuthor", mock.Anything, 7).Return(3, nil).Once()
	repo.On("Insert", mock.Anything, mock.Anything).Return(99, nil).Once()
	repo.On("GetDetailed", mock.Anything, 99).
		Return(models.Notification{ID: 99, Type: models.NotificationLikeOnThread}, nil).Once()
	pusher.On("PushToUser", 3, EventNotificationNew, mock.Anything).Return(nil).Once()

	require.NoError(t, svc.LikeOnThread(context.Background(), 7, 2))
	repo.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestPushFailureIsSwallowed(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	pusher := new(mocks.PusherMock)
	svc := NewService(repo, presenceStub{online: map[int]bool{3: true}}, pusher)

	repo.On("ThreadAuthor", mock.Anything, 7).Return(3, nil).Once()
	repo.On("Insert", mock.Anything, mock.Anything).Return(99, nil).Once()
	repo.On("GetDetailed", mock.Anything, 99).Return(models.Notification{ID: 99}, nil).Once()
	pusher.On("PushToUser", 3, EventNotificationNew, mock.Anything).Return(assert.AnError).Once()

	require.NoError(t, svc.ReplyOnThread(context.Background(), 7, 2))
	pusher.AssertExpectations(t)
}

func TestPersistenceFailureSurfaces(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	svc := NewService(repo, presenceStub{}, new(mocks.PusherMock))

	repo.On("ThreadAuthor", mock.Anything, 7).Return(3, nil).Once()
	repo.On("Insert", mock.Anything, mock.Anything).Return(0, assert.AnError).Once()

	err := svc.ReplyOnThread(context.Background(), 7, 2)
	require.ErrorIs(t, err, assert.AnError)
}

func TestFriendRequestSuppressesSelf(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	svc := NewService(repo, presenceStub{}, new(mocks.PusherMock))

	require.NoError(t, svc.FriendRequest(context.Background(), 5, 1, 1))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestFriendAcceptedPersistsFriendshipReference(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	pusher := new(mocks.PusherMock)
	svc := NewService(repo, presenceStub{online: map[int]bool{2: true}}, pusher)

	friendshipID := 5
	repo.On("Insert", mock.Anything, repositories.NotificationInsert{
		UserID:       2,
		ActorUserID:  1,
		FriendshipID: &friendshipID,
		Type:         models.NotificationFriendAccepted,
	}).Return(42, nil).Once()
	repo.On("GetDetailed", mock.Anything, 42).Return(models.Notification{ID: 42}, nil).Once()
	pusher.On("PushToUser", 2, EventNotificationNew, mock.Anything).Return(nil).Once()

	require.NoError(t, svc.FriendAccepted(context.Background(), 5, 1, 2))
	repo.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	svc := NewService(repo, presenceStub{}, new(mocks.PusherMock))

	repo.On("MarkRead", mock.Anything, 2, 42).Return(nil).Once()

	require.NoError(t, svc.MarkRead(context.Background(), 2, 42))
	repo.AssertExpectations(t)
}
