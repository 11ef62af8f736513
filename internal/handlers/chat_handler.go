package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorlink_backend/internal/middleware"
	"tutorlink_backend/internal/services"
	"tutorlink_backend/internal/services/dto"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	chat := r.Group("/chat")
	chat.Use(middleware.AuthMiddleware())
	{
		chat.POST("/conversations", h.StartConversation)
		chat.GET("/conversations", h.ListConversations)
		chat.POST("/conversations/:conversationId/messages", h.SendMessage)
		chat.GET("/conversations/:conversationId/messages", h.GetMessages)
		chat.POST("/conversations/:conversationId/read", h.MarkRead)
	}
}

func (h *ChatHandler) StartConversation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.StartConversationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	conversation, err := h.chatService.StartConversation(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conversation)
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	conversations, err := h.chatService.ListConversations(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"total":         len(conversations),
	})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	message, err := h.chatService.SendMessage(userID, c.Param("conversationId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit := ParseQueryInt(c, "limit", 50)
	offset := ParseQueryInt(c, "offset", 0)

	messages, err := h.chatService.GetMessages(userID, c.Param("conversationId"), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"total":    len(messages),
	})
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	updated, err := h.chatService.MarkRead(userID, c.Param("conversationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_read": updated})
}
