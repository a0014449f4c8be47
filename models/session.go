package models

import "time"

// Session represents an authenticated session record. The row has the same
// lifetime as the session itself: created at claim/login, destroyed at logout
// or expiry. It is the only place an unwrapped data key may appear outside
// process memory, and the backing table must be treated as ephemeral,
// session-scoped storage rather than a durable backup.
type Session struct {
	// SessionID is the opaque session identifier (UUID).
	SessionID string `json:"-"`

	// AccountID is the account the session belongs to.
	AccountID int64 `json:"-"`

	// DataKey is the base64 encoding of the raw unwrapped data key, or empty
	// when no key is available for the session (degraded state).
	DataKey string `json:"-"`

	// ExpiresAt is the moment after which the session (and any key it holds)
	// must no longer be served.
	ExpiresAt time.Time `json:"-"`

	// CreatedAt is the timestamp when the session was established.
	CreatedAt time.Time `json:"-"`
}

// Expired reports whether the session is past its expiry at the given moment.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}
