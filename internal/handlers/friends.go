package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"realtime-service/internal/friends"
	"realtime-service/internal/models"
)

// FriendsHandler manages friendship endpoints.
type FriendsHandler struct {
	service *friends.Service
}

// NewFriendsHandler builds a FriendsHandler.
func NewFriendsHandler(service *friends.Service) *FriendsHandler {
	return &FriendsHandler{service: service}
}

// SendRequest creates a pending friend request toward another user.
func (h *FriendsHandler) SendRequest(c *gin.Context) {
	var req struct {
		UserID int `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	friendship, err := h.service.SendRequest(c.Request.Context(), userID, req.UserID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, friends.ErrSelfRequest):
			status = http.StatusBadRequest
		case errors.Is(err, friends.ErrAlreadyFriends),
			errors.Is(err, friends.ErrRequestPending),
			errors.Is(err, friends.ErrRequestRejected):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, friendship)
}

// Respond accepts or rejects a pending request addressed to the caller.
func (h *FriendsHandler) Respond(c *gin.Context) {
	var req struct {
		RequestID int    `json:"requestId" binding:"required"`
		Status    string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	friendship, err := h.service.Respond(c.Request.Context(), userID, req.RequestID, models.FriendshipStatus(req.Status))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, friends.ErrInvalidStatus):
			status = http.StatusBadRequest
		case errors.Is(err, friends.ErrRequestNotFound):
			status = http.StatusNotFound
		case errors.Is(err, friends.ErrNotAddressee):
			status = http.StatusForbidden
		case errors.Is(err, friends.ErrNotPending):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, friendship)
}

// ListFriends returns the caller's accepted friends.
func (h *FriendsHandler) ListFriends(c *gin.Context) {
	userID := c.GetInt("userID")

	list, err := h.service.Friends(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": list})
}

// ListRequests returns pending requests involving the caller.
func (h *FriendsHandler) ListRequests(c *gin.Context) {
	userID := c.GetInt("userID")

	list, err := h.service.Pending(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": list})
}

// Search finds users the caller has no friendship with.
func (h *FriendsHandler) Search(c *gin.Context) {
	userID := c.GetInt("userID")
	query := strings.TrimSpace(c.Query("q"))

	users, err := h.service.Search(c.Request.Context(), userID, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}
