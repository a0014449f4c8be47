package service

import (
	"context"

	"github.com/avdeevlv/go-pii-vault/models"
)

// AccountService drives the account lifecycle: claim (first password set),
// login, password change, and logout, plus session token issue and
// verification. There is no persisted account state machine; which records
// exist on the account row determines which transitions are legal.
type AccountService interface {
	// Claim sets the first password on an account, establishes its data key,
	// and opens a session. Returns a signed session token.
	Claim(ctx context.Context, email, password string) (models.Token, error)

	// Login verifies credentials, unwraps the account data key, places it in
	// the session key cache, and returns a signed session token.
	Login(ctx context.Context, email, password string) (models.Token, error)

	// ChangePassword re-wraps the account data key under a key derived from
	// the new password. Stored field ciphertexts are untouched.
	ChangePassword(ctx context.Context, accountID int64, sessionID, oldPassword, newPassword string) error

	// Logout destroys the session and evicts its cached data key.
	Logout(ctx context.Context, sessionID string) error

	// ParseToken validates a raw session token string.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// FieldService reads and writes protected PII field values, applying the
// graceful degradation policy when no data key is available for the session.
type FieldService interface {
	// WriteField stores a field value, encrypted when the session data key
	// is available. The returned flag reports whether the write was degraded
	// (stored as marked plaintext).
	WriteField(ctx context.Context, accountID int64, sessionID, name, value string) (degraded bool, err error)

	// ReadField returns one field value, decrypted when possible, or the
	// degradation sentinel when the value is encrypted and no key is
	// available. Returns store.ErrFieldNotFound for an absent field.
	ReadField(ctx context.Context, accountID int64, sessionID, name string) (string, error)

	// ReadFields returns the requested fields in request order, applying the
	// degradation policy per field. Names with no stored value are skipped.
	ReadFields(ctx context.Context, accountID int64, sessionID string, names ...string) ([]models.FieldResponse, error)
}
