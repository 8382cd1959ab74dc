package gemini

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/gdugdh24/compatible-backend/internal/repository"
	"github.com/google/uuid"
)

const scoreTimeout = 5 * time.Second

var scorePattern = regexp.MustCompile(`-?\d+`)

type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// CompatibilityScorer asks the model for a 0..100 compatibility estimate of
// two profiles.
type CompatibilityScorer struct {
	generator   TextGenerator
	profileRepo repository.ProfileRepository
}

func NewCompatibilityScorer(generator TextGenerator, profileRepo repository.ProfileRepository) *CompatibilityScorer {
	return &CompatibilityScorer{
		generator:   generator,
		profileRepo: profileRepo,
	}
}

func (s *CompatibilityScorer) Score(ctx context.Context, profileID, targetID uuid.UUID) (int, error) {
	profiles, err := s.profileRepo.GetByIDs(ctx, []uuid.UUID{profileID, targetID})
	if err != nil {
		return 0, fmt.Errorf("failed to load profiles: %w", err)
	}

	var first, second *domain.Profile
	for _, p := range profiles {
		switch p.ID {
		case profileID:
			first = p
		case targetID:
			second = p
		}
	}
	if first == nil || second == nil {
		return 0, domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, scoreTimeout)
	defer cancel()

	text, err := s.generator.GenerateText(ctx, buildScorePrompt(first, second))
	if err != nil {
		return 0, err
	}
	return parseScore(text)
}

func buildScorePrompt(a, b *domain.Profile) string {
	return fmt.Sprintf(`
		Estimate how compatible two dating app users are.
		User 1: name=%q age=%d bio=%q
		User 2: name=%q age=%d bio=%q

		Output: a single integer from 0 to 100 and nothing else.
	`, a.Name, a.Age, a.Bio, b.Name, b.Age, b.Bio)
}

// parseScore takes the first integer in text and clamps it to 0..100.
func parseScore(text string) (int, error) {
	raw := scorePattern.FindString(text)
	if raw == "" {
		return 0, fmt.Errorf("no score in model output %q", text)
	}
	score, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse score: %w", err)
	}
	switch {
	case score < 0:
		return 0, nil
	case score > 100:
		return 100, nil
	}
	return score, nil
}
