package domain

import "github.com/google/uuid"

type EventType string

const (
	EventMessageReceived EventType = "message.received"
	EventTypingChanged   EventType = "typing.changed"
)

// Event is a transient realtime payload delivered to a conversation group.
// It is never persisted.
type Event struct {
	Type      EventType  `json:"type"`
	MatchID   uuid.UUID  `json:"match_id"`
	Message   *Message   `json:"message,omitempty"`
	ProfileID *uuid.UUID `json:"profile_id,omitempty"`
	IsTyping  *bool      `json:"is_typing,omitempty"`
}

func NewMessageReceivedEvent(msg *Message) Event {
	return Event{
		Type:    EventMessageReceived,
		MatchID: msg.MatchID,
		Message: msg,
	}
}

func NewTypingChangedEvent(matchID, profileID uuid.UUID, isTyping bool) Event {
	return Event{
		Type:      EventTypingChanged,
		MatchID:   matchID,
		ProfileID: &profileID,
		IsTyping:  &isTyping,
	}
}
