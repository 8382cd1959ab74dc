package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/gdugdh24/compatible-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultPotentialCount = 20
	MaxPotentialCount     = 100
)

// CompatibilityScorer assigns the opaque compatibility score of a new match.
type CompatibilityScorer interface {
	Score(ctx context.Context, profileID, targetID uuid.UUID) (int, error)
}

type MatchUseCase struct {
	matchRepo   repository.MatchRepository
	profileRepo repository.ProfileRepository
	photoRepo   repository.PhotoRepository
	scorer      CompatibilityScorer
	logger      *zap.Logger
	now         func() time.Time
}

func NewMatchUseCase(
	matchRepo repository.MatchRepository,
	profileRepo repository.ProfileRepository,
	photoRepo repository.PhotoRepository,
	scorer CompatibilityScorer,
	logger *zap.Logger,
) *MatchUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchUseCase{
		matchRepo:   matchRepo,
		profileRepo: profileRepo,
		photoRepo:   photoRepo,
		scorer:      scorer,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GetPotentialMatches returns up to count active profiles that have no match
// record with profileID in either ordering.
func (uc *MatchUseCase) GetPotentialMatches(ctx context.Context, profileID uuid.UUID, count int) ([]*domain.ProfileWithPhotos, error) {
	count = normalizeCount(count)

	existing, err := uc.matchRepo.GetForProfile(ctx, profileID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile matches: %w", err)
	}
	paired := make(map[uuid.UUID]struct{}, len(existing))
	for _, m := range existing {
		if other, ok := m.GetOtherProfileID(profileID); ok {
			paired[other] = struct{}{}
		}
	}

	candidates, err := uc.profileRepo.GetActiveExcept(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate profiles: %w", err)
	}

	pool := make([]*domain.Profile, 0, count)
	for _, candidate := range candidates {
		if candidate.ID == profileID || !candidate.IsActive() {
			continue
		}
		if _, ok := paired[candidate.ID]; ok {
			continue
		}
		pool = append(pool, candidate)
		if len(pool) == count {
			break
		}
	}

	return uc.withPhotos(ctx, pool)
}

func (uc *MatchUseCase) Like(ctx context.Context, profileID, targetID uuid.UUID) (*domain.Match, error) {
	return uc.SetMatchOutcome(ctx, profileID, targetID, true)
}

func (uc *MatchUseCase) Dislike(ctx context.Context, profileID, targetID uuid.UUID) (*domain.Match, error) {
	return uc.SetMatchOutcome(ctx, profileID, targetID, false)
}

// SetMatchOutcome records the latest like or dislike between the pair. The
// existing record is overwritten in place; otherwise a new one is created.
// If a concurrent caller creates the record first, the outcome is applied to
// that record instead.
func (uc *MatchUseCase) SetMatchOutcome(ctx context.Context, profileID, targetID uuid.UUID, accepted bool) (*domain.Match, error) {
	if profileID == targetID {
		return nil, domain.ErrCannotMatchSelf
	}

	for attempt := 0; attempt < 2; attempt++ {
		existing, err := uc.findPair(ctx, profileID, targetID)
		if err == nil {
			existing.ApplyOutcome(accepted, uc.now())
			if err := uc.matchRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("failed to update match: %w", err)
			}
			return existing, nil
		}
		if !errors.Is(err, domain.ErrMatchNotFound) {
			return nil, fmt.Errorf("failed to get match: %w", err)
		}

		match := uc.newMatch(ctx, profileID, targetID, accepted)
		err = uc.matchRepo.Create(ctx, match)
		if err == nil {
			return match, nil
		}
		if !errors.Is(err, domain.ErrMatchAlreadyExists) {
			return nil, fmt.Errorf("failed to create match: %w", err)
		}
	}

	return nil, domain.ErrMatchAlreadyExists
}

// GetProfileMatches returns every match record the profile is part of,
// whatever its outcome.
func (uc *MatchUseCase) GetProfileMatches(ctx context.Context, profileID uuid.UUID) ([]*domain.Match, error) {
	matches, err := uc.matchRepo.GetForProfile(ctx, profileID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile matches: %w", err)
	}
	return matches, nil
}

// GetAcceptedMatches returns the accepted matches of profileID with both
// participants resolved.
func (uc *MatchUseCase) GetAcceptedMatches(ctx context.Context, profileID uuid.UUID) ([]*domain.MatchWithProfiles, error) {
	accepted := true
	matches, err := uc.matchRepo.GetForProfile(ctx, profileID, &accepted)
	if err != nil {
		return nil, fmt.Errorf("failed to get accepted matches: %w", err)
	}
	result := make([]*domain.MatchWithProfiles, 0, len(matches))
	if len(matches) == 0 {
		return result, nil
	}

	seen := map[uuid.UUID]struct{}{profileID: {}}
	ids := []uuid.UUID{profileID}
	for _, m := range matches {
		for _, id := range []uuid.UUID{m.ProfileID, m.MatchedProfileID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	profiles, err := uc.profileRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get match profiles: %w", err)
	}
	enriched, err := uc.withPhotos(ctx, profiles)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*domain.ProfileWithPhotos, len(enriched))
	for _, p := range enriched {
		byID[p.ID] = p
	}

	for _, m := range matches {
		result = append(result, &domain.MatchWithProfiles{
			Match:          *m,
			Profile:        byID[m.ProfileID],
			MatchedProfile: byID[m.MatchedProfileID],
		})
	}
	return result, nil
}

// GetMatchByID returns the match if requesterID is one of its participants.
func (uc *MatchUseCase) GetMatchByID(ctx context.Context, matchID, requesterID uuid.UUID) (*domain.Match, error) {
	match, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, domain.ErrMatchNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if !match.HasProfile(requesterID) {
		return nil, domain.ErrNotParticipant
	}
	return match, nil
}

// findPair looks the pair up in both stored orderings.
func (uc *MatchUseCase) findPair(ctx context.Context, a, b uuid.UUID) (*domain.Match, error) {
	match, err := uc.matchRepo.Get(ctx, a, b)
	if err == nil || !errors.Is(err, domain.ErrMatchNotFound) {
		return match, err
	}
	return uc.matchRepo.Get(ctx, b, a)
}

func (uc *MatchUseCase) newMatch(ctx context.Context, profileID, targetID uuid.UUID, accepted bool) *domain.Match {
	now := uc.now()
	match := &domain.Match{
		ID:               uuid.New(),
		ProfileID:        profileID,
		MatchedProfileID: targetID,
		IsAccepted:       accepted,
		IsRejected:       !accepted,
		CreatedAt:        now,
	}
	if accepted {
		match.MatchedAt = &now
	}

	if uc.scorer != nil {
		score, err := uc.scorer.Score(ctx, profileID, targetID)
		if err != nil {
			uc.logger.Warn("compatibility scoring failed, storing zero score",
				zap.String("profile_id", profileID.String()),
				zap.String("target_id", targetID.String()),
				zap.Error(err),
			)
		} else {
			match.Compatibility = score
		}
	}
	return match
}

// withPhotos returns enriched copies of profiles. Inputs are not modified.
func (uc *MatchUseCase) withPhotos(ctx context.Context, profiles []*domain.Profile) ([]*domain.ProfileWithPhotos, error) {
	result := make([]*domain.ProfileWithPhotos, 0, len(profiles))
	if len(profiles) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	photos, err := uc.photoRepo.GetByProfileIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get photos: %w", err)
	}

	for _, p := range profiles {
		result = append(result, p.WithPhotos(photos[p.ID]))
	}
	return result, nil
}

func normalizeCount(count int) int {
	if count <= 0 {
		return DefaultPotentialCount
	}
	if count > MaxPotentialCount {
		return MaxPotentialCount
	}
	return count
}
