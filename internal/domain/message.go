package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessageLength bounds message content, counted in runes after trimming.
const MaxMessageLength = 4000

type Message struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	MatchID         uuid.UUID  `json:"match_id" db:"match_id"`
	SenderProfileID uuid.UUID  `json:"sender_profile_id" db:"sender_profile_id"`
	Content         string     `json:"content" db:"content"`
	IsRead          bool       `json:"is_read" db:"is_read"`
	ReadAt          *time.Time `json:"read_at" db:"read_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}
