package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realtime-service/internal/notify"
	"realtime-service/internal/repositories"
)

// NotificationsHandler serves the notification inbox.
type NotificationsHandler struct {
	service *notify.Service
}

// NewNotificationsHandler builds a NotificationsHandler.
func NewNotificationsHandler(service *notify.Service) *NotificationsHandler {
	return &NotificationsHandler{service: service}
}

// List returns the caller's notifications, newest first. With
// ?unread=true only unread rows are returned.
func (h *NotificationsHandler) List(c *gin.Context) {
	userID := c.GetInt("userID")
	unreadOnly := c.Query("unread") == "true"

	list, err := h.service.List(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// MarkRead sets the read timestamp of one notification owned by the
// caller. Marking an already-read notification keeps its original
// timestamp.
func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	notificationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	userID := c.GetInt("userID")
	if err := h.service.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to mark notification read"})
		return
	}

	c.Status(http.StatusNoContent)
}
