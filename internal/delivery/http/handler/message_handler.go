package handler

import (
	"net/http"

	"github.com/gdugdh24/compatible-backend/internal/usecase/conversation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MessageHandler struct {
	conversationUseCase *conversation.ConversationUseCase
	logger              *zap.Logger
}

func NewMessageHandler(conversationUseCase *conversation.ConversationUseCase, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		conversationUseCase: conversationUseCase,
		logger:              logger,
	}
}

// GetMessages handles GET /messages/match/:match_id
// @Summary Get conversation messages
// @Description Messages of a match in creation order, participants only
// @Tags messages
// @Security BearerAuth
// @Produce json
// @Param match_id path string true "Match id"
// @Success 200 {array} domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /messages/match/{match_id} [get]
func (h *MessageHandler) GetMessages(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	matchID, ok := parseUUIDParam(c, "match_id")
	if !ok {
		return
	}

	messages, err := h.conversationUseCase.GetMessages(c.Request.Context(), matchID, profileID)
	if err != nil {
		respondError(c, h.logger, err, "failed to get messages")
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage handles POST /messages
// @Summary Send a message
// @Description Persist a message on an accepted match and push it to the conversation
// @Tags messages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body conversation.SendMessageRequest true "Message"
// @Success 201 {object} domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	var req conversation.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	matchID, err := uuid.Parse(req.MatchID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid match_id",
		})
		return
	}

	message, err := h.conversationUseCase.SendMessage(c.Request.Context(), matchID, profileID, req.Content)
	if err != nil {
		respondError(c, h.logger, err, "failed to send message")
		return
	}

	c.JSON(http.StatusCreated, message)
}

// SendTyping handles POST /messages/typing
// @Summary Broadcast typing indicator
// @Tags messages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body conversation.TypingRequest true "Typing state"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /messages/typing [post]
func (h *MessageHandler) SendTyping(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	var req conversation.TypingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	matchID, err := uuid.Parse(req.MatchID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid match_id",
		})
		return
	}

	if err := h.conversationUseCase.SendTyping(c.Request.Context(), matchID, profileID, req.IsTyping); err != nil {
		respondError(c, h.logger, err, "failed to send typing indicator")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "ok",
	})
}

// GetUnreadMessages handles GET /messages/unread
// @Summary Get unread messages
// @Description Unread messages addressed to the caller, newest first
// @Tags messages
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Message
// @Router /messages/unread [get]
func (h *MessageHandler) GetUnreadMessages(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	messages, err := h.conversationUseCase.GetUnreadMessages(c.Request.Context(), profileID)
	if err != nil {
		respondError(c, h.logger, err, "failed to get unread messages")
		return
	}

	c.JSON(http.StatusOK, messages)
}

// GetUnreadCount handles GET /messages/unread/count
// @Summary Count unread messages
// @Tags messages
// @Security BearerAuth
// @Produce json
// @Success 200 {object} conversation.UnreadCountResponse
// @Router /messages/unread/count [get]
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	count, err := h.conversationUseCase.GetUnreadCount(c.Request.Context(), profileID)
	if err != nil {
		respondError(c, h.logger, err, "failed to count unread messages")
		return
	}

	c.JSON(http.StatusOK, conversation.UnreadCountResponse{
		Count: count,
	})
}

// MarkRead handles POST /messages/:message_id/read
// @Summary Mark a message as read
// @Tags messages
// @Security BearerAuth
// @Produce json
// @Param message_id path string true "Message id"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /messages/{message_id}/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	messageID, ok := parseUUIDParam(c, "message_id")
	if !ok {
		return
	}

	if err := h.conversationUseCase.MarkRead(c.Request.Context(), messageID, profileID); err != nil {
		respondError(c, h.logger, err, "failed to mark message as read")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "message marked as read",
	})
}
