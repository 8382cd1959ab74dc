package domain

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Age       int        `json:"age" db:"age"`
	Bio       string     `json:"bio" db:"bio"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
	RetiredAt *time.Time `json:"-" db:"retired_at"`
}

func (p *Profile) IsActive() bool {
	return p.RetiredAt == nil
}

type Photo struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ProfileID uuid.UUID  `json:"profile_id" db:"profile_id"`
	URL       string     `json:"url" db:"url"`
	IsMain    bool       `json:"is_main" db:"is_main"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	RetiredAt *time.Time `json:"-" db:"retired_at"`
}

// ProfileWithPhotos is a profile together with its ordered photo set.
// Photos is never nil.
type ProfileWithPhotos struct {
	Profile
	Photos []Photo `json:"photos"`
}

// WithPhotos returns an enriched copy of p. The photo slice is copied so the
// result shares no backing storage with photos.
func (p Profile) WithPhotos(photos []Photo) *ProfileWithPhotos {
	out := make([]Photo, len(photos))
	copy(out, photos)
	return &ProfileWithPhotos{Profile: p, Photos: out}
}
