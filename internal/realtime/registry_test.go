package realtime

import (
	"sync"
	"testing"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/google/uuid"
)

type fakeSubscriber struct {
	id  string
	err error

	mu     sync.Mutex
	events []domain.Event
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{id: uuid.NewString()}
}

func (s *fakeSubscriber) ID() string { return s.id }

func (s *fakeSubscriber) Send(event domain.Event) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *fakeSubscriber) received() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Event, len(s.events))
	copy(out, s.events)
	return out
}

func TestRegistryJoinLeave(t *testing.T) {
	r := NewRegistry()
	sub := newFakeSubscriber()
	matchID := uuid.New()

	r.Join(sub, matchID)
	r.Join(sub, matchID)
	if got := len(r.Members(matchID)); got != 1 {
		t.Fatalf("expected 1 member after double join, got %d", got)
	}
	if !r.IsMember(sub, matchID) {
		t.Fatalf("expected subscriber to be a member")
	}

	r.Leave(sub, matchID)
	if got := len(r.Members(matchID)); got != 0 {
		t.Fatalf("expected empty group after leave, got %d", got)
	}
	if r.GroupCount() != 0 {
		t.Fatalf("expected empty groups to be dropped, got %d", r.GroupCount())
	}

	// leaving a group never joined is a no-op
	r.Leave(sub, uuid.New())
}

func TestRegistryLeaveAll(t *testing.T) {
	r := NewRegistry()
	sub := newFakeSubscriber()
	other := newFakeSubscriber()
	m1, m2 := uuid.New(), uuid.New()

	r.Join(sub, m1)
	r.Join(sub, m2)
	r.Join(other, m2)

	left := r.LeaveAll(sub)
	if len(left) != 2 {
		t.Fatalf("expected to leave 2 groups, got %d", len(left))
	}
	if len(r.Members(m1)) != 0 {
		t.Fatalf("expected m1 to be empty")
	}
	members := r.Members(m2)
	if len(members) != 1 || members[0].ID() != other.ID() {
		t.Fatalf("expected only other subscriber in m2, got %v", members)
	}
	if len(r.Subscribers()) != 1 {
		t.Fatalf("expected 1 tracked subscriber, got %d", len(r.Subscribers()))
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	matchID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := newFakeSubscriber()
			r.Join(sub, matchID)
			_ = r.Members(matchID)
			r.LeaveAll(sub)
		}()
	}
	wg.Wait()

	if got := len(r.Members(matchID)); got != 0 {
		t.Fatalf("expected empty group, got %d", got)
	}
}
