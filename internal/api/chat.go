package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stanleylima25/ECC-Brasil/internal/middleware"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/service"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chat   *service.ChatService
	logger *zap.Logger
}

func NewChatHandler(chat *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func roomParam(c *gin.Context) models.Room {
	return models.Room(strings.ToUpper(c.Param("room")))
}

// Rooms handles GET /v1/chat/rooms
func (h *ChatHandler) Rooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.chat.Rooms(middleware.GetUser(c)))
}

// List handles GET /v1/chat/:room/messages
func (h *ChatHandler) List(c *gin.Context) {
	messages, err := h.chat.History(c.Request.Context(), middleware.GetUser(c), roomParam(c))
	if err != nil {
		respondError(c, h.logger, err, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

// Create handles POST /v1/chat/:room/messages
func (h *ChatHandler) Create(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	msg, err := h.chat.Send(c.Request.Context(), middleware.GetUser(c), roomParam(c), req.Content)
	if err != nil {
		respondError(c, h.logger, err, "failed to send message")
		return
	}
	c.JSON(http.StatusCreated, msg)
}
