package repository

import (
	"context"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/google/uuid"
)

// MatchRepository is the durable store for match records.
//
// Get looks up the pair in the given order only. Create must perform the
// symmetric existence check atomically with the insert and return
// domain.ErrMatchAlreadyExists when a record exists in either ordering.
type MatchRepository interface {
	Get(ctx context.Context, profileID, matchedProfileID uuid.UUID) (*domain.Match, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error)
	GetForProfile(ctx context.Context, profileID uuid.UUID, accepted *bool) ([]*domain.Match, error)
	Create(ctx context.Context, match *domain.Match) error
	Update(ctx context.Context, match *domain.Match) error
	ExistsEitherOrder(ctx context.Context, a, b uuid.UUID) (bool, error)
}
