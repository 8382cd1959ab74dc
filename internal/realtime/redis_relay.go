package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultRelayChannel = "compatible:realtime"

type relayEnvelope struct {
	Origin  string       `json:"origin"`
	MatchID uuid.UUID    `json:"match_id"`
	Event   domain.Event `json:"event"`
}

// RedisRelay shares broadcasts between processes over a Redis pub/sub
// channel. Envelopes published by this process are ignored on receipt since
// the hub already delivered them locally.
type RedisRelay struct {
	client     *redis.Client
	channel    string
	instanceID string
	hub        *Hub
	logger     *zap.Logger

	pubsub *redis.PubSub
	done   chan struct{}
}

func NewRedisRelay(client *redis.Client, channel string, hub *Hub, logger *zap.Logger) *RedisRelay {
	if channel == "" {
		channel = DefaultRelayChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRelay{
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
		hub:        hub,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Start subscribes to the relay channel and waits for the subscription to be
// confirmed before returning.
func (r *RedisRelay) Start(ctx context.Context) error {
	r.pubsub = r.client.Subscribe(ctx, r.channel)
	if _, err := r.pubsub.Receive(ctx); err != nil {
		_ = r.pubsub.Close()
		return fmt.Errorf("failed to subscribe to relay channel: %w", err)
	}

	go r.run()
	r.logger.Info("realtime relay started",
		zap.String("channel", r.channel),
		zap.String("instance_id", r.instanceID),
	)
	return nil
}

func (r *RedisRelay) run() {
	defer close(r.done)

	for msg := range r.pubsub.Channel() {
		var env relayEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			r.logger.Warn("discarding malformed relay envelope", zap.Error(err))
			continue
		}
		if env.Origin == r.instanceID {
			continue
		}
		r.hub.Deliver(env.MatchID, env.Event)
	}
}

func (r *RedisRelay) Publish(ctx context.Context, matchID uuid.UUID, event domain.Event) error {
	payload, err := json.Marshal(relayEnvelope{
		Origin:  r.instanceID,
		MatchID: matchID,
		Event:   event,
	})
	if err != nil {
		return fmt.Errorf("failed to encode relay envelope: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish relay envelope: %w", err)
	}
	return nil
}

func (r *RedisRelay) Close() error {
	if r.pubsub == nil {
		return nil
	}
	err := r.pubsub.Close()
	<-r.done
	return err
}
