package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realtime-service/internal/mocks"
	"realtime-service/internal/models"
	"realtime-service/internal/repositories"
	"realtime-service/internal/rooms"
)

func setupRoomsRouter(handler *RoomsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/rooms", handler.Create)
	r.GET("/rooms", handler.List)
	r.GET("/rooms/:room_id", handler.Get)
	r.POST("/rooms/:room_id/join", handler.Join)
	r.GET("/rooms/:room_id/messages", handler.Messages)
	return r
}

func TestCreateRoomSuccess(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	handler := NewRoomsHandler(rooms.NewManager(repo))
	router := setupRoomsRouter(handler)

	repo.On("CreateRoom", mock.Anything, 1, "go talk", "tech", 50, mock.Anything).
		Return(models.TopicRoom{ID: 3, Title: "go talk", MaxUsers: 50}, nil).Once()

	body := bytes.NewBufferString(`{"title":"go talk","category":"tech","durationMinutes":30}`)
	req := httptest.NewRequest(http.MethodPost, "/rooms", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	repo.AssertExpectations(t)
}

func TestCreateRoomMissingFields(t *testing.T) {
	handler := NewRoomsHandler(rooms.NewManager(new(mocks.RoomRepositoryMock)))
	router := setupRoomsRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/rooms", bytes.NewBufferString(`{"title":"go talk"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRoomNotFound(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	handler := NewRoomsHandler(rooms.NewManager(repo))
	router := setupRoomsRouter(handler)

	repo.On("GetActive", mock.Anything, 9).Return(models.TopicRoom{}, repositories.ErrRoomNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertExpectations(t)
}

func TestJoinRoomFullConflict(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	handler := NewRoomsHandler(rooms.NewManager(repo))
	router := setupRoomsRouter(handler)

	repo.On("GetActive", mock.Anything, 3).Return(models.TopicRoom{ID: 3, MaxUsers: 2}, nil).Once()
	repo.On("IsParticipant", mock.Anything, 3, 1).Return(false, nil).Twice()
	repo.On("AddParticipant", mock.Anything, 3, 1, 2).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/rooms/3/join", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	repo.AssertExpectations(t)
}

func TestJoinRoomSuccess(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	handler := NewRoomsHandler(rooms.NewManager(repo))
	router := setupRoomsRouter(handler)

	repo.On("GetActive", mock.Anything, 3).Return(models.TopicRoom{ID: 3, MaxUsers: 10}, nil).Once()
	repo.On("IsParticipant", mock.Anything, 3, 1).Return(false, nil).Once()
	repo.On("AddParticipant", mock.Anything, 3, 1, 10).Return(true, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/rooms/3/join", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestListRoomsPassesFilters(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	handler := NewRoomsHandler(rooms.NewManager(repo))
	router := setupRoomsRouter(handler)

	repo.On("ListActive", mock.Anything, "tech", "go").
		Return([]models.TopicRoom{{ID: 3, Title: "go talk"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms?category=tech&search=go", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp["rooms"], 1)
	repo.AssertExpectations(t)
}

func TestRoomMessagesExpiredRoom(t *testing.T) {
	repo := new(mocks.RoomRepositoryMock)
	handler := NewRoomsHandler(rooms.NewManager(repo))
	router := setupRoomsRouter(handler)

	repo.On("GetActive", mock.Anything, 3).Return(models.TopicRoom{}, repositories.ErrRoomNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms/3/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertExpectations(t)
}
