package postgres

import (
	"context"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/gdugdh24/compatible-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetActiveExcept(ctx context.Context, id uuid.UUID) ([]*domain.Profile, error) {
	profiles := []*domain.Profile{}
	query := `
		SELECT * FROM profiles
		WHERE id <> $1 AND retired_at IS NULL
		ORDER BY created_at ASC
	`
	err := r.db.SelectContext(ctx, &profiles, query, id)
	return profiles, err
}

func (r *profileRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Profile, error) {
	profiles := []*domain.Profile{}
	if len(ids) == 0 {
		return profiles, nil
	}
	query := `SELECT * FROM profiles WHERE id = ANY($1::uuid[])`
	err := r.db.SelectContext(ctx, &profiles, query, pq.Array(uuidStrings(ids)))
	return profiles, err
}

type photoRepository struct {
	db *sqlx.DB
}

func NewPhotoRepository(db *sqlx.DB) repository.PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) GetByProfileIDs(ctx context.Context, profileIDs []uuid.UUID) (map[uuid.UUID][]domain.Photo, error) {
	byProfile := make(map[uuid.UUID][]domain.Photo)
	if len(profileIDs) == 0 {
		return byProfile, nil
	}

	var photos []domain.Photo
	query := `
		SELECT * FROM photos
		WHERE profile_id = ANY($1::uuid[]) AND retired_at IS NULL
		ORDER BY is_main DESC, created_at ASC
	`
	if err := r.db.SelectContext(ctx, &photos, query, pq.Array(uuidStrings(profileIDs))); err != nil {
		return nil, err
	}

	for _, photo := range photos {
		byProfile[photo.ProfileID] = append(byProfile[photo.ProfileID], photo)
	}
	return byProfile, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
