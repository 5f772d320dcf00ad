package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-tracked authorization record bound to one user.
// The token column holds the signed bearer token verbatim; a session is
// valid while the current time is before ExpiresAt and the row exists.
type Session struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
