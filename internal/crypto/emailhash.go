package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// EmailIndexer produces the deterministic one-way lookup digest of an email
// address: HMAC-SHA256 under a deployment-wide index key. The digest locates
// an account without storing or comparing plaintext email on the server.
// Uniqueness of the digest enforces email uniqueness across accounts.
//
// The index key must stay stable for the lifetime of the stored index;
// rotating it requires rebuilding every email_hash column value.
type EmailIndexer struct {
	indexKey []byte
}

// NewEmailIndexer constructs an [EmailIndexer] keyed with indexKey.
func NewEmailIndexer(indexKey string) *EmailIndexer {
	return &EmailIndexer{indexKey: []byte(indexKey)}
}

// Normalize returns the canonical form of an email address used for both
// hashing and encryption: surrounding whitespace trimmed, lowercased.
func (e *EmailIndexer) Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Hash returns the hex-encoded HMAC-SHA256 digest of the normalized email.
// Deterministic: equal emails (after normalization) always produce equal
// digests, so " Foo@Example.com " and "foo@example.com" collide by design.
func (e *EmailIndexer) Hash(email string) string {
	mac := hmac.New(sha256.New, e.indexKey)
	mac.Write([]byte(e.Normalize(email)))
	return hex.EncodeToString(mac.Sum(nil))
}
