package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/gdugdh24/compatible-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const matchColumns = `id, profile_id, matched_profile_id, is_accepted, is_rejected,
	matched_at, compatibility, created_at, updated_at, retired_at`

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

// Create inserts the match unless a record exists for the pair in either
// ordering. The check and the insert run under a transaction-scoped advisory
// lock keyed on the unordered pair, so concurrent creators serialize.
func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	lockKey := pairLockKey(match.ProfileID, match.MatchedProfileID)
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey); err != nil {
		return fmt.Errorf("failed to lock match pair: %w", err)
	}

	var exists bool
	if err := tx.GetContext(ctx, &exists, existsEitherOrderQuery, match.ProfileID, match.MatchedProfileID); err != nil {
		return fmt.Errorf("failed to check match pair: %w", err)
	}
	if exists {
		return domain.ErrMatchAlreadyExists
	}

	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}

	query := `
		INSERT INTO matches (id, profile_id, matched_profile_id, is_accepted, is_rejected, matched_at, compatibility, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, query,
		match.ID, match.ProfileID, match.MatchedProfileID,
		match.IsAccepted, match.IsRejected, match.MatchedAt,
		match.Compatibility, match.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}

	return tx.Commit()
}

func (r *matchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	var match domain.Match
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 AND retired_at IS NULL`
	err := r.db.GetContext(ctx, &match, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) Get(ctx context.Context, profileID, matchedProfileID uuid.UUID) (*domain.Match, error) {
	var match domain.Match
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE profile_id = $1 AND matched_profile_id = $2 AND retired_at IS NULL
	`
	err := r.db.GetContext(ctx, &match, query, profileID, matchedProfileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetForProfile(ctx context.Context, profileID uuid.UUID, accepted *bool) ([]*domain.Match, error) {
	matches := []*domain.Match{}
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE (profile_id = $1 OR matched_profile_id = $1)
		  AND retired_at IS NULL
		  AND ($2::boolean IS NULL OR is_accepted = $2)
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &matches, query, profileID, accepted)
	return matches, err
}

func (r *matchRepository) Update(ctx context.Context, match *domain.Match) error {
	query := `
		UPDATE matches
		SET is_accepted = $1, is_rejected = $2, matched_at = $3, updated_at = $4
		WHERE id = $5 AND retired_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		match.IsAccepted, match.IsRejected, match.MatchedAt, match.UpdatedAt, match.ID,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}

const existsEitherOrderQuery = `
	SELECT EXISTS (
		SELECT 1 FROM matches
		WHERE ((profile_id = $1 AND matched_profile_id = $2)
		    OR (profile_id = $2 AND matched_profile_id = $1))
		  AND retired_at IS NULL
	)
`

func (r *matchRepository) ExistsEitherOrder(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, existsEitherOrderQuery, a, b)
	return exists, err
}

// pairLockKey maps an unordered pair to a stable advisory lock key.
func pairLockKey(a, b uuid.UUID) int64 {
	if bytesLess(b, a) {
		a, b = b, a
	}
	h := fnv.New64a()
	_, _ = h.Write(a[:])
	_, _ = h.Write(b[:])
	return int64(h.Sum64())
}

func bytesLess(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
