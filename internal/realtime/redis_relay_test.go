package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newRelayedHub(t *testing.T, mr *miniredis.Miniredis) *Hub {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hub := NewHub(NewRegistry(), nil)
	relay := NewRedisRelay(client, "test:realtime", hub, nil)
	if err := relay.Start(context.Background()); err != nil {
		t.Fatalf("start relay: %v", err)
	}
	t.Cleanup(func() { _ = relay.Close() })
	hub.UseRelay(relay)
	return hub
}

func waitForEvents(t *testing.T, sub *fakeSubscriber, n int) []domain.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		events := sub.received()
		if len(events) >= n {
			return events
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected %d events, got %d", n, len(events))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRedisRelayDeliversAcrossHubs(t *testing.T) {
	mr := miniredis.RunT(t)
	hubA := newRelayedHub(t, mr)
	hubB := newRelayedHub(t, mr)

	matchID := uuid.New()
	local := newFakeSubscriber()
	remote := newFakeSubscriber()
	hubA.Join(local, matchID)
	hubB.Join(remote, matchID)

	msg := &domain.Message{ID: uuid.New(), MatchID: matchID, Content: "across"}
	hubA.Broadcast(context.Background(), matchID, domain.NewMessageReceivedEvent(msg))

	events := waitForEvents(t, remote, 1)
	if events[0].Message == nil || events[0].Message.Content != "across" {
		t.Fatalf("unexpected relayed event %+v", events[0])
	}

	// the origin hub must not deliver its own envelope a second time
	time.Sleep(100 * time.Millisecond)
	if got := len(local.received()); got != 1 {
		t.Fatalf("expected exactly one local delivery, got %d", got)
	}
}

func TestRedisRelayIgnoresOtherGroups(t *testing.T) {
	mr := miniredis.RunT(t)
	hubA := newRelayedHub(t, mr)
	hubB := newRelayedHub(t, mr)

	joined := uuid.New()
	sub := newFakeSubscriber()
	hubB.Join(sub, joined)

	other := uuid.New()
	hubA.Broadcast(context.Background(), other, domain.NewTypingChangedEvent(other, uuid.New(), true))
	hubA.Broadcast(context.Background(), joined, domain.NewTypingChangedEvent(joined, uuid.New(), true))

	events := waitForEvents(t, sub, 1)
	if events[0].MatchID != joined {
		t.Fatalf("received event for wrong group %s", events[0].MatchID)
	}
}
