package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realtime-service/internal/mocks"
	"realtime-service/internal/models"
	"realtime-service/internal/notify"
	"realtime-service/internal/repositories"
)

type offlinePresence struct{}

func (offlinePresence) IsOnline(int) bool { return false }

func setupNotificationsRouter(handler *NotificationsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/notifications", handler.List)
	r.POST("/notifications/:id/read", handler.MarkRead)
	return r
}

func newNotificationsHandler(repo *mocks.NotificationRepositoryMock) *NotificationsHandler {
	return NewNotificationsHandler(notify.NewService(repo, offlinePresence{}, new(mocks.PusherMock)))
}

func TestListNotifications(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	router := setupNotificationsRouter(newNotificationsHandler(repo))

	repo.On("ListForUser", mock.Anything, 1, false).
		Return([]models.Notification{{ID: 42, Type: models.NotificationFriendRequest}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp["notifications"], 1)
	repo.AssertExpectations(t)
}

func TestListUnreadNotificationsOnly(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	router := setupNotificationsRouter(newNotificationsHandler(repo))

	repo.On("ListForUser", mock.Anything, 1, true).Return([]models.Notification{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/notifications?unread=true", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestMarkNotificationRead(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	router := setupNotificationsRouter(newNotificationsHandler(repo))

	repo.On("MarkRead", mock.Anything, 1, 42).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/notifications/42/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	repo.AssertExpectations(t)
}

func TestMarkNotificationReadNotFound(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	router := setupNotificationsRouter(newNotificationsHandler(repo))

	repo.On("MarkRead", mock.Anything, 1, 42).Return(repositories.ErrNotificationNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/notifications/42/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertExpectations(t)
}

func TestMarkNotificationReadInvalidID(t *testing.T) {
	router := setupNotificationsRouter(newNotificationsHandler(new(mocks.NotificationRepositoryMock)))

	req := httptest.NewRequest(http.MethodPost, "/notifications/abc/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
