package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realtime-service/internal/chat"
	"realtime-service/internal/repositories"
)

// ChatHandler serves direct-message history over HTTP.
type ChatHandler struct {
	chatService *chat.Service
	users       repositories.UserRepository
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(chatService *chat.Service, users repositories.UserRepository) *ChatHandler {
	return &ChatHandler{chatService: chatService, users: users}
}

// ListChatUsers returns the accepted friends the user can message,
// with their last seen timestamps.
func (h *ChatHandler) ListChatUsers(c *gin.Context) {
	userID := c.GetInt("userID")

	users, err := h.users.ListChatUsers(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetMessages returns one page of conversation history with a peer.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID := c.GetInt("userID")

	otherID, err := strconv.Atoi(c.Query("user_id"))
	if err != nil || otherID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	page, err := h.chatService.Conversation(c.Request.Context(), userID, otherID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": page.Messages, "hasMore": page.HasMore})
}
