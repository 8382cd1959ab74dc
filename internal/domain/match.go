package domain

import (
	"time"

	"github.com/google/uuid"
)

type Match struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	ProfileID        uuid.UUID  `json:"profile_id" db:"profile_id"`
	MatchedProfileID uuid.UUID  `json:"matched_profile_id" db:"matched_profile_id"`
	IsAccepted       bool       `json:"is_accepted" db:"is_accepted"`
	IsRejected       bool       `json:"is_rejected" db:"is_rejected"`
	MatchedAt        *time.Time `json:"matched_at" db:"matched_at"`
	Compatibility    int        `json:"compatibility" db:"compatibility"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at" db:"updated_at"`
	RetiredAt        *time.Time `json:"-" db:"retired_at"`
}

// MatchWithProfiles is a match enriched with both participants.
type MatchWithProfiles struct {
	Match
	Profile        *ProfileWithPhotos `json:"profile"`
	MatchedProfile *ProfileWithPhotos `json:"matched_profile"`
}

func (m *Match) HasProfile(profileID uuid.UUID) bool {
	return m.ProfileID == profileID || m.MatchedProfileID == profileID
}

func (m *Match) GetOtherProfileID(profileID uuid.UUID) (uuid.UUID, bool) {
	if m.ProfileID == profileID {
		return m.MatchedProfileID, true
	}
	if m.MatchedProfileID == profileID {
		return m.ProfileID, true
	}
	return uuid.Nil, false
}

// ApplyOutcome overwrites the outcome of the match. MatchedAt moves only
// when the match transitions into the accepted state.
func (m *Match) ApplyOutcome(accepted bool, now time.Time) {
	if accepted && !m.IsAccepted {
		m.MatchedAt = &now
	}
	m.IsAccepted = accepted
	m.IsRejected = !accepted
	m.UpdatedAt = &now
}
