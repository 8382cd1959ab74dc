// Package realtime keeps per-conversation subscriber groups for live
// connections and fans events out to them. Membership is in memory only and
// starts empty on every process start.
package realtime

import (
	"sync"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/google/uuid"
)

// Subscriber is a live connection that can receive events.
type Subscriber interface {
	ID() string
	Send(event domain.Event) error
}

// Registry maps conversations to their joined subscribers. Join, Leave and
// LeaveAll take the write lock; lookups take the read lock and return
// snapshots.
type Registry struct {
	mu      sync.RWMutex
	groups  map[uuid.UUID]map[string]Subscriber
	members map[string]map[uuid.UUID]struct{}
	subs    map[string]Subscriber
}

func NewRegistry() *Registry {
	return &Registry{
		groups:  make(map[uuid.UUID]map[string]Subscriber),
		members: make(map[string]map[uuid.UUID]struct{}),
		subs:    make(map[string]Subscriber),
	}
}

// Join adds sub to the group of matchID. Joining twice is a no-op.
func (r *Registry) Join(sub Subscriber, matchID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	group, ok := r.groups[matchID]
	if !ok {
		group = make(map[string]Subscriber)
		r.groups[matchID] = group
	}
	group[sub.ID()] = sub

	joined, ok := r.members[sub.ID()]
	if !ok {
		joined = make(map[uuid.UUID]struct{})
		r.members[sub.ID()] = joined
	}
	joined[matchID] = struct{}{}
	r.subs[sub.ID()] = sub
}

// Leave removes sub from the group of matchID. Leaving a group that was never
// joined is a no-op.
func (r *Registry) Leave(sub Subscriber, matchID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(sub.ID(), matchID)
}

// LeaveAll removes sub from every group it holds and returns those groups.
func (r *Registry) LeaveAll(sub Subscriber) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	joined := r.members[sub.ID()]
	left := make([]uuid.UUID, 0, len(joined))
	for matchID := range joined {
		left = append(left, matchID)
	}
	for _, matchID := range left {
		r.leaveLocked(sub.ID(), matchID)
	}
	delete(r.members, sub.ID())
	delete(r.subs, sub.ID())
	return left
}

func (r *Registry) leaveLocked(subID string, matchID uuid.UUID) {
	if group, ok := r.groups[matchID]; ok {
		delete(group, subID)
		if len(group) == 0 {
			delete(r.groups, matchID)
		}
	}
	if joined, ok := r.members[subID]; ok {
		delete(joined, matchID)
	}
}

// Members returns a snapshot of the subscribers joined to matchID.
func (r *Registry) Members(matchID uuid.UUID) []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group := r.groups[matchID]
	out := make([]Subscriber, 0, len(group))
	for _, sub := range group {
		out = append(out, sub)
	}
	return out
}

// IsMember reports whether sub is joined to matchID.
func (r *Registry) IsMember(sub Subscriber, matchID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.groups[matchID][sub.ID()]
	return ok
}

// Subscribers returns a snapshot of every subscriber holding at least one
// group.
func (r *Registry) Subscribers() []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Subscriber, 0, len(r.subs))
	for _, sub := range r.subs {
		out = append(out, sub)
	}
	return out
}

func (r *Registry) GroupCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups)
}
