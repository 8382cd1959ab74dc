package handler

import (
	"github.com/gdugdh24/compatible-backend/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type RealtimeHandler struct {
	hub           *realtime.Hub
	conversations realtime.Conversations
	upgrader      *websocket.Upgrader
	sendBuffer    int
	logger        *zap.Logger
}

func NewRealtimeHandler(
	hub *realtime.Hub,
	conversations realtime.Conversations,
	upgrader *websocket.Upgrader,
	sendBuffer int,
	logger *zap.Logger,
) *RealtimeHandler {
	return &RealtimeHandler{
		hub:           hub,
		conversations: conversations,
		upgrader:      upgrader,
		sendBuffer:    sendBuffer,
		logger:        logger,
	}
}

// Connect handles GET /ws
// @Summary Open realtime stream
// @Description Upgrade to a WebSocket. Send {"action":"join","match_id":...} to subscribe to a conversation.
// @Tags realtime
// @Security BearerAuth
// @Param access_token query string false "Access token when headers cannot be set"
// @Router /ws [get]
func (h *RealtimeHandler) Connect(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Serve(conn, profileID, h.conversations, h.sendBuffer)
}
