package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/google/uuid"
)

type MessageRepository interface {
	GetByMatch(ctx context.Context, matchID uuid.UUID) ([]*domain.Message, error)
	Create(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	GetUnread(ctx context.Context, profileID uuid.UUID) ([]*domain.Message, error)
	MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) error
	CountUnread(ctx context.Context, profileID uuid.UUID) (int, error)
}
