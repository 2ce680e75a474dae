package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Session is a server-side credential record. A session is valid only while
// IsActive is true and the current time is before ExpiresAt. A user may hold
// any number of concurrent sessions.
type Session struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"userId"`
	SessionToken string      `json:"-"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	IPAddress    null.String `json:"-"`
	UserAgent    null.String `json:"-"`
	IsActive     bool        `json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Valid reports whether the session is usable at the given instant.
func (s *Session) Valid(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}
