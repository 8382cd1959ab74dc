package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/gdugdh24/compatible-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	query := `
		INSERT INTO messages (id, match_id, sender_profile_id, content, is_read, read_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		message.ID, message.MatchID, message.SenderProfileID,
		message.Content, message.IsRead, message.ReadAt, message.CreatedAt,
	)
	return err
}

func (r *messageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	var message domain.Message
	query := `SELECT * FROM messages WHERE id = $1`
	err := r.db.GetContext(ctx, &message, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) GetByMatch(ctx context.Context, matchID uuid.UUID) ([]*domain.Message, error) {
	messages := []*domain.Message{}
	query := `SELECT * FROM messages WHERE match_id = $1 ORDER BY created_at ASC`
	err := r.db.SelectContext(ctx, &messages, query, matchID)
	return messages, err
}

func (r *messageRepository) GetUnread(ctx context.Context, profileID uuid.UUID) ([]*domain.Message, error) {
	messages := []*domain.Message{}
	query := `
		SELECT m.* FROM messages m
		JOIN matches mt ON mt.id = m.match_id
		WHERE (mt.profile_id = $1 OR mt.matched_profile_id = $1)
		  AND m.sender_profile_id <> $1
		  AND m.is_read = false
		ORDER BY m.created_at DESC
	`
	err := r.db.SelectContext(ctx, &messages, query, profileID)
	return messages, err
}

func (r *messageRepository) CountUnread(ctx context.Context, profileID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM messages m
		JOIN matches mt ON mt.id = m.match_id
		WHERE (mt.profile_id = $1 OR mt.matched_profile_id = $1)
		  AND m.sender_profile_id <> $1
		  AND m.is_read = false
	`
	err := r.db.GetContext(ctx, &count, query, profileID)
	return count, err
}

func (r *messageRepository) MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) error {
	query := `UPDATE messages SET is_read = true, read_at = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, readAt, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}
