package models

import "time"

// Account represents a tenant user record together with its credential and
// key-management material. Sensitive fields must never be exposed outside
// trusted boundaries.
type Account struct {
	// AccountID is the internal unique identifier of the account.
	// It is not exposed via JSON and is used only at the persistence layer.
	AccountID int64 `json:"-"`

	// EmailHash is the deterministic one-way digest of the normalized
	// (trimmed, lowercased) email. It is the only value used for server-side
	// account lookup; plaintext email is never queried once migrated.
	EmailHash string `json:"-"`

	// Email holds the stored email value. For migrated accounts this is a
	// serialized EncryptedField; for pre-migration accounts it is legacy
	// plaintext. Use [IsEncryptedField] to distinguish the two.
	Email string `json:"-"`

	// PasswordHash is the adaptive salted hash of the account password,
	// used for login verification only. Empty until the account is claimed.
	PasswordHash string `json:"-"`

	// WrappedDataKey is the account data key wrapped under the
	// password-derived wrapping key, in "<b64 salt>:<b64 blob>" form.
	// Empty until the account is claimed.
	WrappedDataKey string `json:"-"`

	// CreatedAt is the timestamp when the account record was created.
	CreatedAt time.Time `json:"-"`
}

// Claimed reports whether the account has completed the claim flow,
// i.e. has a password set and a wrapped data key stored.
func (a Account) Claimed() bool {
	return a.PasswordHash != "" && a.WrappedDataKey != ""
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}
