package types

import "time"

// Session is a login session. Its ID doubles as the bearer token.
type Session struct {
	// ID is the opaque session token.
	ID string `json:"id" db:"id"`

	// UserID references the user the session was issued to.
	UserID string `json:"userId" db:"user_id"`

	// ExpiresAt is the advisory expiry of the session. Nothing in this
	// service rejects or purges expired sessions.
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
}

// Expired reports whether the session expiry lies before t.
func (s Session) Expired(t time.Time) bool {
	return !s.ExpiresAt.After(t)
}
