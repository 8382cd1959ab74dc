package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/google/uuid"
)

func TestMatchCreateRejectsEitherOrdering(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	if err := s.Matches().Create(ctx, &domain.Match{ProfileID: a, MatchedProfileID: b}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := s.Matches().Create(ctx, &domain.Match{ProfileID: b, MatchedProfileID: a})
	if !errors.Is(err, domain.ErrMatchAlreadyExists) {
		t.Fatalf("expected ErrMatchAlreadyExists, got %v", err)
	}

	exists, _ := s.Matches().ExistsEitherOrder(ctx, b, a)
	if !exists {
		t.Fatalf("expected pair to exist in reverse order")
	}
}

func TestMatchConcurrentCreateKeepsOneRecord(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := &domain.Match{ProfileID: a, MatchedProfileID: b}
			if i%2 == 1 {
				m.ProfileID, m.MatchedProfileID = b, a
			}
			_ = s.Matches().Create(ctx, m)
		}(i)
	}
	wg.Wait()

	if s.MatchCount() != 1 {
		t.Fatalf("expected one record, got %d", s.MatchCount())
	}
}

func TestReadsReturnCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	m := &domain.Match{ProfileID: uuid.New(), MatchedProfileID: uuid.New()}
	if err := s.Matches().Create(ctx, m); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Matches().GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	got.IsAccepted = true

	again, _ := s.Matches().GetByID(ctx, m.ID)
	if again.IsAccepted {
		t.Fatalf("mutating a read result changed the stored record")
	}
}

func TestMatchGetForProfileFilter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	me := uuid.New()
	_ = s.Matches().Create(ctx, &domain.Match{ProfileID: me, MatchedProfileID: uuid.New(), IsAccepted: true})
	_ = s.Matches().Create(ctx, &domain.Match{ProfileID: uuid.New(), MatchedProfileID: me, IsRejected: true})
	_ = s.Matches().Create(ctx, &domain.Match{ProfileID: uuid.New(), MatchedProfileID: uuid.New(), IsAccepted: true})

	all, _ := s.Matches().GetForProfile(ctx, me, nil)
	if len(all) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(all))
	}
	accepted := true
	onlyAccepted, _ := s.Matches().GetForProfile(ctx, me, &accepted)
	if len(onlyAccepted) != 1 {
		t.Fatalf("expected 1 accepted match, got %d", len(onlyAccepted))
	}
}

func TestUnreadExcludesOwnAndRead(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	m := &domain.Match{ProfileID: a, MatchedProfileID: b, IsAccepted: true}
	_ = s.Matches().Create(ctx, m)

	base := time.Now().UTC()
	first := &domain.Message{MatchID: m.ID, SenderProfileID: a, Content: "one", CreatedAt: base}
	second := &domain.Message{MatchID: m.ID, SenderProfileID: a, Content: "two", CreatedAt: base.Add(time.Second)}
	reply := &domain.Message{MatchID: m.ID, SenderProfileID: b, Content: "re", CreatedAt: base.Add(2 * time.Second)}
	for _, msg := range []*domain.Message{first, second, reply} {
		_ = s.Messages().Create(ctx, msg)
	}

	unread, _ := s.Messages().GetUnread(ctx, b)
	if len(unread) != 2 || unread[0].Content != "two" {
		t.Fatalf("expected newest-first unread for b, got %+v", unread)
	}

	if err := s.Messages().MarkRead(ctx, first.ID, base); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	count, _ := s.Messages().CountUnread(ctx, b)
	if count != 1 {
		t.Fatalf("expected 1 unread after mark, got %d", count)
	}

	history, _ := s.Messages().GetByMatch(ctx, m.ID)
	if len(history) != 3 || history[0].Content != "one" || history[2].Content != "re" {
		t.Fatalf("expected creation-ordered history, got %+v", history)
	}

	if err := s.Messages().MarkRead(ctx, uuid.New(), base); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestPhotosMainFirst(t *testing.T) {
	s := NewStore()
	p := s.AddProfile(domain.Profile{Name: "Alice"})
	s.AddPhoto(domain.Photo{ProfileID: p.ID, URL: "b.jpg"})
	s.AddPhoto(domain.Photo{ProfileID: p.ID, URL: "main.jpg", IsMain: true})

	photos, err := s.Photos().GetByProfileIDs(context.Background(), []uuid.UUID{p.ID, uuid.New()})
	if err != nil {
		t.Fatalf("GetByProfileIDs: %v", err)
	}
	if len(photos[p.ID]) != 2 || !photos[p.ID][0].IsMain {
		t.Fatalf("expected main photo first, got %+v", photos[p.ID])
	}
}
