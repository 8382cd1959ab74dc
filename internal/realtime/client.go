package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 8192
	actionTimeout  = 5 * time.Second
	DefaultBufSize = 64
)

var (
	ErrClientClosed = errors.New("client closed")
	ErrSendBufFull  = errors.New("send buffer full")
)

const (
	actionJoin   = "join"
	actionLeave  = "leave"
	actionTyping = "typing"

	frameJoined = "joined"
	frameLeft   = "left"
	frameError  = "error"
)

// Conversations authorizes group membership and emits typing indicators on
// behalf of a connection.
type Conversations interface {
	Authorize(ctx context.Context, matchID, profileID uuid.UUID) (*domain.Match, error)
	SendTyping(ctx context.Context, matchID, profileID uuid.UUID, isTyping bool) error
}

type inboundFrame struct {
	Action   string `json:"action"`
	MatchID  string `json:"match_id"`
	IsTyping bool   `json:"is_typing"`
}

type controlFrame struct {
	Type    string     `json:"type"`
	MatchID *uuid.UUID `json:"match_id,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Client is one WebSocket connection owned by an authenticated profile.
type Client struct {
	id            string
	profileID     uuid.UUID
	conn          *websocket.Conn
	hub           *Hub
	conversations Conversations
	logger        *zap.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, profileID uuid.UUID, conversations Conversations, bufSize int) *Client {
	if bufSize <= 0 {
		bufSize = DefaultBufSize
	}
	id := uuid.NewString()
	return &Client{
		id:            id,
		profileID:     profileID,
		conn:          conn,
		hub:           hub,
		conversations: conversations,
		logger:        hub.logger.With(zap.String("client_id", id), zap.String("profile_id", profileID.String())),
		send:          make(chan []byte, bufSize),
		done:          make(chan struct{}),
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) ProfileID() uuid.UUID { return c.profileID }

// Send queues event for the connection. It never blocks: a full buffer drops
// the event for this client only.
func (c *Client) Send(event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.enqueue(payload)
}

func (c *Client) enqueue(payload []byte) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return ErrSendBufFull
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		_ = c.conn.Close()
	})
}

// Serve runs the connection until the peer goes away or the hub closes it.
// It blocks the calling goroutine.
func (h *Hub) Serve(conn *websocket.Conn, profileID uuid.UUID, conversations Conversations, bufSize int) {
	c := newClient(h, conn, profileID, conversations, bufSize)
	h.register(c)
	c.logger.Debug("websocket connected")

	go c.writePump()
	c.readPump()

	h.unregister(c)
	c.Close()
	c.logger.Debug("websocket disconnected")
}

func (c *Client) readPump() {
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.reply(controlFrame{Type: frameError, Error: "malformed frame"})
			continue
		}
		c.handle(frame)
	}
}

func (c *Client) handle(frame inboundFrame) {
	matchID, err := uuid.Parse(frame.MatchID)
	if err != nil {
		c.reply(controlFrame{Type: frameError, Error: domain.ErrInvalidID.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	switch frame.Action {
	case actionJoin:
		if _, err := c.conversations.Authorize(ctx, matchID, c.profileID); err != nil {
			c.reply(controlFrame{Type: frameError, MatchID: &matchID, Error: err.Error()})
			return
		}
		c.hub.Join(c, matchID)
		c.reply(controlFrame{Type: frameJoined, MatchID: &matchID})
	case actionLeave:
		c.hub.Leave(c, matchID)
		c.reply(controlFrame{Type: frameLeft, MatchID: &matchID})
	case actionTyping:
		if err := c.conversations.SendTyping(ctx, matchID, c.profileID, frame.IsTyping); err != nil {
			c.reply(controlFrame{Type: frameError, MatchID: &matchID, Error: err.Error()})
		}
	default:
		c.reply(controlFrame{Type: frameError, Error: "unknown action"})
	}
}

func (c *Client) reply(frame controlFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	if err := c.enqueue(payload); err != nil {
		c.logger.Debug("dropped control frame", zap.String("frame", frame.Type), zap.Error(err))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
