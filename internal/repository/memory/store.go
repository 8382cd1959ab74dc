// Package memory is a process-local implementation of the repository
// interfaces. A single mutex guards every table, which gives the per-pair
// atomicity the match repository contract requires.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/gdugdh24/compatible-backend/internal/repository"
	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	profiles []*domain.Profile
	photos   []domain.Photo
	matches  []*domain.Match
	messages []*domain.Message
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Profiles() repository.ProfileRepository { return profileRepository{s} }
func (s *Store) Photos() repository.PhotoRepository     { return photoRepository{s} }
func (s *Store) Matches() repository.MatchRepository    { return matchRepository{s} }
func (s *Store) Messages() repository.MessageRepository { return messageRepository{s} }

// AddProfile stores a copy of p, assigning an id and creation time when unset.
func (s *Store) AddProfile(p domain.Profile) domain.Profile {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append(s.profiles, &p)
	return p
}

func (s *Store) AddPhoto(p domain.Photo) domain.Photo {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos = append(s.photos, p)
	return p
}

type profileRepository struct{ s *Store }

func (r profileRepository) GetActiveExcept(_ context.Context, id uuid.UUID) ([]*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Profile{}
	for _, p := range r.s.profiles {
		if p.ID == id || !p.IsActive() {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r profileRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Profile, error) {
	wanted := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Profile{}
	for _, p := range r.s.profiles {
		if _, ok := wanted[p.ID]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type photoRepository struct{ s *Store }

func (r photoRepository) GetByProfileIDs(_ context.Context, profileIDs []uuid.UUID) (map[uuid.UUID][]domain.Photo, error) {
	wanted := make(map[uuid.UUID]struct{}, len(profileIDs))
	for _, id := range profileIDs {
		wanted[id] = struct{}{}
	}

	r.s.mu.RLock()
	var photos []domain.Photo
	for _, p := range r.s.photos {
		if _, ok := wanted[p.ProfileID]; ok && p.RetiredAt == nil {
			photos = append(photos, p)
		}
	}
	r.s.mu.RUnlock()

	sort.SliceStable(photos, func(i, j int) bool {
		if photos[i].IsMain != photos[j].IsMain {
			return photos[i].IsMain
		}
		return photos[i].CreatedAt.Before(photos[j].CreatedAt)
	})

	byProfile := make(map[uuid.UUID][]domain.Photo)
	for _, p := range photos {
		byProfile[p.ProfileID] = append(byProfile[p.ProfileID], p)
	}
	return byProfile, nil
}

type matchRepository struct{ s *Store }

func (r matchRepository) Get(_ context.Context, profileID, matchedProfileID uuid.UUID) (*domain.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.matches {
		if m.ProfileID == profileID && m.MatchedProfileID == matchedProfileID && m.RetiredAt == nil {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrMatchNotFound
}

func (r matchRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if m := r.s.findMatch(id); m != nil {
		cp := *m
		return &cp, nil
	}
	return nil, domain.ErrMatchNotFound
}

func (r matchRepository) GetForProfile(_ context.Context, profileID uuid.UUID, accepted *bool) ([]*domain.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Match{}
	for _, m := range r.s.matches {
		if !m.HasProfile(profileID) || m.RetiredAt != nil {
			continue
		}
		if accepted != nil && m.IsAccepted != *accepted {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r matchRepository) Create(_ context.Context, match *domain.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.pairExists(match.ProfileID, match.MatchedProfileID) {
		return domain.ErrMatchAlreadyExists
	}
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}
	cp := *match
	r.s.matches = append(r.s.matches, &cp)
	return nil
}

func (r matchRepository) Update(_ context.Context, match *domain.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m := r.s.findMatch(match.ID)
	if m == nil {
		return domain.ErrMatchNotFound
	}
	m.IsAccepted = match.IsAccepted
	m.IsRejected = match.IsRejected
	m.MatchedAt = match.MatchedAt
	m.UpdatedAt = match.UpdatedAt
	return nil
}

func (r matchRepository) ExistsEitherOrder(_ context.Context, a, b uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.pairExists(a, b), nil
}

// MatchCount returns the number of stored match records.
func (s *Store) MatchCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}

func (s *Store) findMatch(id uuid.UUID) *domain.Match {
	for _, m := range s.matches {
		if m.ID == id && m.RetiredAt == nil {
			return m
		}
	}
	return nil
}

func (s *Store) pairExists(a, b uuid.UUID) bool {
	for _, m := range s.matches {
		if m.RetiredAt != nil {
			continue
		}
		if (m.ProfileID == a && m.MatchedProfileID == b) || (m.ProfileID == b && m.MatchedProfileID == a) {
			return true
		}
	}
	return false
}

type messageRepository struct{ s *Store }

func (r messageRepository) Create(_ context.Context, message *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	cp := *message
	r.s.messages = append(r.s.messages, &cp)
	return nil
}

func (r messageRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.messages {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrMessageNotFound
}

func (r messageRepository) GetByMatch(_ context.Context, matchID uuid.UUID) ([]*domain.Message, error) {
	r.s.mu.RLock()
	out := []*domain.Message{}
	for _, m := range r.s.messages {
		if m.MatchID == matchID {
			cp := *m
			out = append(out, &cp)
		}
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r messageRepository) GetUnread(_ context.Context, profileID uuid.UUID) ([]*domain.Message, error) {
	r.s.mu.RLock()
	out := r.s.unreadFor(profileID)
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r messageRepository) CountUnread(_ context.Context, profileID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.unreadFor(profileID)), nil
}

func (r messageRepository) MarkRead(_ context.Context, id uuid.UUID, readAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, m := range r.s.messages {
		if m.ID == id {
			m.IsRead = true
			m.ReadAt = &readAt
			return nil
		}
	}
	return domain.ErrMessageNotFound
}

func (s *Store) unreadFor(profileID uuid.UUID) []*domain.Message {
	participating := make(map[uuid.UUID]struct{})
	for _, m := range s.matches {
		if m.HasProfile(profileID) {
			participating[m.ID] = struct{}{}
		}
	}

	out := []*domain.Message{}
	for _, m := range s.messages {
		if _, ok := participating[m.MatchID]; !ok {
			continue
		}
		if m.SenderProfileID == profileID || m.IsRead {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out
}
