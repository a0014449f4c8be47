package store

import (
	"context"
	"time"

	"github.com/avdeevlv/go-pii-vault/models"
)

// AccountRepository is the data-access layer for account records, including
// the email lookup index columns (email_hash, email).
type AccountRepository interface {
	// CreateAccount persists a new account and returns it with
	// server-assigned fields populated. Returns [ErrDuplicateEmail] when the
	// email hash is already indexed.
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)

	// FindByEmailHash locates an account through the deterministic email
	// index. Returns [ErrAccountNotFound] when no record matches.
	FindByEmailHash(ctx context.Context, emailHash string) (models.Account, error)

	// FindByEmail locates a pre-migration account whose email column still
	// holds legacy plaintext. Returns [ErrAccountNotFound] when no record
	// matches.
	FindByEmail(ctx context.Context, email string) (models.Account, error)

	// FindByID retrieves an account by its internal identifier.
	FindByID(ctx context.Context, accountID int64) (models.Account, error)

	// UpdateCredentials atomically replaces the password hash and wrapped
	// data key of an account (a single UPDATE statement, so a reader never
	// observes a hash from one password and a wrap from another).
	UpdateCredentials(ctx context.Context, accountID int64, passwordHash, wrappedDataKey string) error

	// UpdateEmailIndex upgrades a legacy account to the hashed index:
	// sets the email hash and replaces the plaintext email with its
	// encrypted form.
	UpdateEmailIndex(ctx context.Context, accountID int64, emailHash, encryptedEmail string) error
}

// SessionRepository is the data-access layer for session records. Rows have
// the same lifetime as the session; the table is session-scoped, ephemeral
// storage, never a durable backup.
//
// SaveDataKey/GetDataKey/ClearDataKey satisfy keycache.SessionKeyStore.
type SessionRepository interface {
	// CreateSession persists a new session row.
	CreateSession(ctx context.Context, session models.Session) error

	// GetSession retrieves a session row. Returns [ErrSessionNotFound] when
	// no record matches.
	GetSession(ctx context.Context, sessionID string) (models.Session, error)

	// DeleteSession removes a session row. Deleting an absent session is a
	// no-op.
	DeleteSession(ctx context.Context, sessionID string) error

	// DeleteExpired removes all sessions expired at the given moment and
	// returns how many rows were dropped.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// SaveDataKey stores the base64 data key on an existing session row.
	SaveDataKey(ctx context.Context, sessionID, dataKey string) error

	// GetDataKey returns the base64 data key of a non-expired session, or
	// the empty string when the session is unknown, expired, or holds no key.
	GetDataKey(ctx context.Context, sessionID string) (string, error)

	// ClearDataKey drops the data key from a session row, keeping the row.
	ClearDataKey(ctx context.Context, sessionID string) error
}

// FieldRepository is the data-access layer for protected PII field values.
type FieldRepository interface {
	// UpsertField inserts or replaces a field value. A field update is a new
	// record replacing the old one; stored values are never patched in place.
	UpsertField(ctx context.Context, field models.PIIField) error

	// GetField retrieves one field. Returns [ErrFieldNotFound] when the
	// account has no value stored under that name.
	GetField(ctx context.Context, accountID int64, name string) (models.PIIField, error)

	// GetFields retrieves the named fields of an account. Names with no
	// stored value are simply absent from the result.
	GetFields(ctx context.Context, accountID int64, names ...string) ([]models.PIIField, error)
}
