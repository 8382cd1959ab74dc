package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/gdugdh24/compatible-backend/internal/repository/memory"
	"github.com/google/uuid"
)

type stubGenerator struct {
	reply  string
	err    error
	prompt string
}

func (g *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.reply, g.err
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "87", want: 87},
		{in: "Score: 42/100", want: 42},
		{in: "150", want: 100},
		{in: "-5", want: 0},
		{in: "no idea", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseScore(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseScore(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("parseScore(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestScorerUsesBothProfiles(t *testing.T) {
	store := memory.NewStore()
	alice := store.AddProfile(domain.Profile{Name: "Alice", Age: 27, Bio: "climbing"})
	bob := store.AddProfile(domain.Profile{Name: "Bob", Age: 29, Bio: "chess"})

	gen := &stubGenerator{reply: "73"}
	scorer := NewCompatibilityScorer(gen, store.Profiles())

	score, err := scorer.Score(context.Background(), alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 73 {
		t.Fatalf("expected 73, got %d", score)
	}
	if !strings.Contains(gen.prompt, "Alice") || !strings.Contains(gen.prompt, "chess") {
		t.Fatalf("prompt does not describe both profiles: %s", gen.prompt)
	}
}

func TestScorerErrors(t *testing.T) {
	store := memory.NewStore()
	alice := store.AddProfile(domain.Profile{Name: "Alice"})
	bob := store.AddProfile(domain.Profile{Name: "Bob"})

	failing := NewCompatibilityScorer(&stubGenerator{err: errors.New("quota")}, store.Profiles())
	if _, err := failing.Score(context.Background(), alice.ID, bob.ID); err == nil {
		t.Fatalf("expected generator error to propagate")
	}

	missing := NewCompatibilityScorer(&stubGenerator{reply: "50"}, store.Profiles())
	if _, err := missing.Score(context.Background(), alice.ID, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown profile, got %v", err)
	}
}
