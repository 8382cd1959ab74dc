package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/gdugdh24/compatible-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Broadcaster fans realtime events out to the subscribers of a conversation.
// Delivery is best-effort; implementations never report per-subscriber
// failures to the caller.
type Broadcaster interface {
	Broadcast(ctx context.Context, matchID uuid.UUID, event domain.Event)
}

type ConversationUseCase struct {
	messageRepo repository.MessageRepository
	matchRepo   repository.MatchRepository
	broadcaster Broadcaster
	logger      *zap.Logger
	now         func() time.Time
}

func NewConversationUseCase(
	messageRepo repository.MessageRepository,
	matchRepo repository.MatchRepository,
	broadcaster Broadcaster,
	logger *zap.Logger,
) *ConversationUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationUseCase{
		messageRepo: messageRepo,
		matchRepo:   matchRepo,
		broadcaster: broadcaster,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SendMessageRequest represents a message send
type SendMessageRequest struct {
	MatchID string `json:"match_id" binding:"required,uuid"`
	Content string `json:"content"`
}

// TypingRequest represents a typing indicator change
type TypingRequest struct {
	MatchID  string `json:"match_id" binding:"required,uuid"`
	IsTyping bool   `json:"is_typing"`
}

// UnreadCountResponse represents unread counter
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// Authorize returns the match if profileID participates in it. A missing
// match is reported as unauthorized so ids cannot be probed.
func (uc *ConversationUseCase) Authorize(ctx context.Context, matchID, profileID uuid.UUID) (*domain.Match, error) {
	match, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, domain.ErrMatchNotFound) {
			return nil, domain.ErrNotParticipant
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if !match.HasProfile(profileID) {
		return nil, domain.ErrNotParticipant
	}
	return match, nil
}

// GetMessages returns the conversation in creation order.
func (uc *ConversationUseCase) GetMessages(ctx context.Context, matchID, requesterID uuid.UUID) ([]*domain.Message, error) {
	if _, err := uc.Authorize(ctx, matchID, requesterID); err != nil {
		return nil, err
	}
	messages, err := uc.messageRepo.GetByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}

// SendMessage persists a message on an accepted match and broadcasts it to
// the conversation group. Once validation passes, the write is detached from
// ctx cancellation so a dropped caller does not lose the message.
func (uc *ConversationUseCase) SendMessage(ctx context.Context, matchID, senderID uuid.UUID, content string) (*domain.Message, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, domain.ErrEmptyContent
	}
	if utf8.RuneCountInString(trimmed) > domain.MaxMessageLength {
		return nil, domain.ErrContentTooLong
	}

	ctx = context.WithoutCancel(ctx)

	match, err := uc.Authorize(ctx, matchID, senderID)
	if err != nil {
		return nil, err
	}
	if !match.IsAccepted {
		return nil, domain.ErrMatchNotAccepted
	}

	message := &domain.Message{
		ID:              uuid.New(),
		MatchID:         matchID,
		SenderProfileID: senderID,
		Content:         trimmed,
		IsRead:          false,
		CreatedAt:       uc.now(),
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if uc.broadcaster != nil {
		broadcast := *message
		uc.broadcaster.Broadcast(ctx, matchID, domain.NewMessageReceivedEvent(&broadcast))
	}

	return message, nil
}

// SendTyping broadcasts a transient typing indicator. Nothing is persisted.
func (uc *ConversationUseCase) SendTyping(ctx context.Context, matchID, profileID uuid.UUID, isTyping bool) error {
	if _, err := uc.Authorize(ctx, matchID, profileID); err != nil {
		return err
	}
	if uc.broadcaster != nil {
		uc.broadcaster.Broadcast(ctx, matchID, domain.NewTypingChangedEvent(matchID, profileID, isTyping))
	}
	return nil
}

func (uc *ConversationUseCase) GetUnreadMessages(ctx context.Context, profileID uuid.UUID) ([]*domain.Message, error) {
	messages, err := uc.messageRepo.GetUnread(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unread messages: %w", err)
	}
	return messages, nil
}

func (uc *ConversationUseCase) GetUnreadCount(ctx context.Context, profileID uuid.UUID) (int, error) {
	count, err := uc.messageRepo.CountUnread(ctx, profileID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// MarkRead marks a received message as read. Senders cannot mark their own
// messages.
func (uc *ConversationUseCase) MarkRead(ctx context.Context, messageID, requesterID uuid.UUID) error {
	message, err := uc.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return err
		}
		return fmt.Errorf("failed to get message: %w", err)
	}

	if _, err := uc.Authorize(ctx, message.MatchID, requesterID); err != nil {
		return err
	}
	if message.SenderProfileID == requesterID {
		return domain.ErrCannotReadOwn
	}

	if err := uc.messageRepo.MarkRead(ctx, messageID, uc.now()); err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return err
		}
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}
