package repository

import (
	"context"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/google/uuid"
)

type ProfileRepository interface {
	// GetActiveExcept returns every non-retired profile other than id.
	GetActiveExcept(ctx context.Context, id uuid.UUID) ([]*domain.Profile, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Profile, error)
}

type PhotoRepository interface {
	// GetByProfileIDs returns the non-retired photos of each profile, main
	// photo first. Profiles without photos are absent from the map.
	GetByProfileIDs(ctx context.Context, profileIDs []uuid.UUID) (map[uuid.UUID][]domain.Photo, error)
}
