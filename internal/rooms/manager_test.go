package rooms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realtime-service/internal/mocks"
	"realtime-service/internal/models"
	"realtime-service/internal/repositories"
)

func TestCreateRequiresFields(t *testing.T) {
	mgr := NewManager(new(mocks.RoomRepositoryMock))

	_, err := mgr.Create(context.Background(), 1, "  ", "tech", 30, 0)
	require.ErrorIs(t, err, ErrMissingFields)

	_, err = mgr.Create(context.Background(), 1, "go talk", "", 30, 0)
	require.ErrorIs(t, err, ErrMissingFields)

	_, err = mgr.Create(context.Background(), 1, "go talk", "tech", 0, 0)
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestCreateAppliesDefaultCapacityAndExpiry(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	mgr := NewManager(repo)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mgr.now = func() time.Time { return base }

	repo.On("CreateRoom", mock.Anything, 1, "go talk", "tech", DefaultMaxUsers, base.Add(45*time.Minute)).
		Return(models.TopicRoom{ID: 3, MaxUsers: DefaultMaxUsers}, nil).Once()

	room, err := mgr.Create(context.Background(), 1, "go talk", "tech", 45, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxUsers, room.MaxUsers)
	repo.AssertExpectations(t)
}

func TestJoinUnknownRoom(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	mgr := NewManager(repo)

	repo.On("GetActive", mock.Anything, 9).Return(models.TopicRoom{}, repositories.ErrRoomNotFound).Once()

	_, err := mgr.Join(context.Background(), 9, 1)
	require.ErrorIs(t, err, ErrRoomNotFound)
	repo.AssertExpectations(t)
}

func TestJoinIsIdempotentForParticipants(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	mgr := NewManager(repo)

	repo.On("GetActive", mock.Anything, 3).Return(models.TopicRoom{ID: 3, MaxUsers: 2}, nil).Once()
	repo.On("IsParticipant", mock.Anything, 3, 1).Return(true, nil).Once()

	_, err := mgr.Join(context.Background(), 3, 1)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "AddParticipant", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestJoinFullRoom(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	mgr := NewManager(repo)

	repo.On("GetActive", mock.Anything, 3).Return(models.TopicRoom{ID: 3, MaxUsers: 2}, nil).Once()
	repo.On("IsParticipant", mock.Anything, 3, 1).Return(false, nil).Twice()
	repo.On("AddParticipant", mock.Anything, 3, 1, 2).Return(false, nil).Once()

	_, err := mgr.Join(context.Background(), 3, 1)
	require.ErrorIs(t, err, ErrRoomFull)
	repo.AssertExpectations(t)
}

func TestJoinConcurrentDuplicateWinsMembership(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	mgr := NewManager(repo)

	repo.On("GetActive", mock.Anything, 3).Return(models.TopicRoom{ID: 3, MaxUsers: 2}, nil).Once()
	repo.On("IsParticipant", mock.Anything, 3, 1).Return(false, nil).Once()
	repo.On("AddParticipant", mock.Anything, 3, 1, 2).Return(false, nil).Once()
	// The guard blocked the insert but the user turned out to be a
	// member already, so the join still succeeds.
	repo.On("IsParticipant", mock.Anything, 3, 1).Return(true, nil).Once()

	_, err := mgr.Join(context.Background(), 3, 1)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestJoinAdmitsWithinCapacity(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	mgr := NewManager(repo)

	repo.On("GetActive", mock.Anything, 3).Return(models.TopicRoom{ID: 3, MaxUsers: 10}, nil).Once()
	repo.On("IsParticipant", mock.Anything, 3, 1).Return(false, nil).Once()
	repo.On("AddParticipant", mock.Anything, 3, 1, 10).Return(true, nil).Once()

	room, err := mgr.Join(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, room.ID)
	repo.AssertExpectations(t)
}

func TestPostMessageRejectsEmptyContent(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	mgr := NewManager(repo)

	_, err := mgr.PostMessage(context.Background(), 3, 1, "   ")
	require.ErrorIs(t, err, ErrEmptyContent)
	repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostMessageToExpiredRoom(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	mgr := NewManager(repo)

	repo.On("GetActive", mock.Anything, 3).Return(models.TopicRoom{}, repositories.ErrRoomNotFound).Once()

	_, err := mgr.PostMessage(context.Background(), 3, 1, "hello")
	require.ErrorIs(t, err, ErrRoomNotFound)
	repo.AssertExpectations(t)
}

func TestMessagesReturnsHistory(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	mgr := NewManager(repo)

	repo.On("GetActive", mock.Anything, 3).Return(models.TopicRoom{ID: 3}, nil).Once()
	repo.On("ListMessages", mock.Anything, 3, 50).Return([]models.RoomMessage{{ID: 1, RoomID: 3}}, nil).Once()

	msgs, err := mgr.Messages(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	repo.AssertExpectations(t)
}
