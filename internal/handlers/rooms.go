package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realtime-service/internal/rooms"
)

// RoomsHandler manages topic room endpoints.
type RoomsHandler struct {
	manager *rooms.Manager
}

// NewRoomsHandler builds a RoomsHandler.
func NewRoomsHandler(manager *rooms.Manager) *RoomsHandler {
	return &RoomsHandler{manager: manager}
}

// Create opens a new room that expires after the requested duration.
func (h *RoomsHandler) Create(c *gin.Context) {
	var req struct {
		Title           string `json:"title" binding:"required"`
		Category        string `json:"category" binding:"required"`
		DurationMinutes int    `json:"durationMinutes" binding:"required"`
		MaxUsers        int    `json:"maxUsers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	room, err := h.manager.Create(c.Request.Context(), userID, req.Title, req.Category, req.DurationMinutes, req.MaxUsers)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, rooms.ErrMissingFields) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// List returns active rooms, optionally filtered by category and title
// search.
func (h *RoomsHandler) List(c *gin.Context) {
	roomList, err := h.manager.List(c.Request.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rooms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": roomList})
}

// Get returns one active room with its participant count.
func (h *RoomsHandler) Get(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	room, err := h.manager.Get(c.Request.Context(), roomID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, rooms.ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "room not found"})
		return
	}

	c.JSON(http.StatusOK, room)
}

// Join admits the caller into the room if capacity allows.
func (h *RoomsHandler) Join(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	room, err := h.manager.Join(c.Request.Context(), roomID, userID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, rooms.ErrRoomNotFound):
			status = http.StatusNotFound
		case errors.Is(err, rooms.ErrRoomFull):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, room)
}

// Messages returns the room's history, oldest first.
func (h *RoomsHandler) Messages(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	msgs, err := h.manager.Messages(c.Request.Context(), roomID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, rooms.ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func roomIDParam(c *gin.Context) (int, bool) {
	roomID, err := strconv.Atoi(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return 0, false
	}
	return roomID, true
}
