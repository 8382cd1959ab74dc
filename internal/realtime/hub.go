package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const relayPublishTimeout = 2 * time.Second

// Relay forwards events to other processes serving the same conversations.
type Relay interface {
	Publish(ctx context.Context, matchID uuid.UUID, event domain.Event) error
}

type Hub struct {
	registry *Registry
	logger   *zap.Logger

	mu      sync.RWMutex
	relay   Relay
	clients map[string]*Client
}

func NewHub(registry *Registry, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		registry: registry,
		logger:   logger,
		clients:  make(map[string]*Client),
	}
}

// UseRelay makes Broadcast also publish through relay.
func (h *Hub) UseRelay(relay Relay) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relay = relay
}

func (h *Hub) Join(sub Subscriber, matchID uuid.UUID) {
	h.registry.Join(sub, matchID)
}

func (h *Hub) Leave(sub Subscriber, matchID uuid.UUID) {
	h.registry.Leave(sub, matchID)
}

// Disconnect drops every group membership of sub.
func (h *Hub) Disconnect(sub Subscriber) {
	groups := h.registry.LeaveAll(sub)
	h.logger.Debug("subscriber disconnected",
		zap.String("subscriber_id", sub.ID()),
		zap.Int("groups_left", len(groups)),
	)
}

// Broadcast delivers event to the local group of matchID and publishes it to
// the relay when one is configured. It never fails: delivery problems are
// logged per subscriber.
func (h *Hub) Broadcast(ctx context.Context, matchID uuid.UUID, event domain.Event) {
	h.Deliver(matchID, event)

	h.mu.RLock()
	relay := h.relay
	h.mu.RUnlock()
	if relay == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, relayPublishTimeout)
	defer cancel()
	if err := relay.Publish(pubCtx, matchID, event); err != nil {
		h.logger.Warn("failed to relay event",
			zap.String("match_id", matchID.String()),
			zap.String("event", string(event.Type)),
			zap.Error(err),
		)
	}
}

// Deliver sends event to the subscribers currently joined to matchID on this
// process and returns how many accepted it.
func (h *Hub) Deliver(matchID uuid.UUID, event domain.Event) int {
	delivered := 0
	for _, sub := range h.registry.Members(matchID) {
		if err := sub.Send(event); err != nil {
			h.logger.Debug("dropped event for subscriber",
				zap.String("subscriber_id", sub.ID()),
				zap.String("match_id", matchID.String()),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}
	return delivered
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID()] = c
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID())
	h.mu.Unlock()
	h.Disconnect(c)
}

// Close terminates every open connection.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Close()
	}
}
