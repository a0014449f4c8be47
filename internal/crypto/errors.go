package crypto

import "errors"

// Sentinel errors returned by cryptographic operations. Callers should use
// [errors.Is] to match against these values; the wrapped causes are for
// internal logs only and must never reach user-facing responses.
var (
	// ErrDecryptionFailed is returned when AEAD authentication fails: tag
	// mismatch, wrong key, or corrupted nonce/ciphertext. The three cases are
	// deliberately indistinguishable.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrUnknownFieldVersion is returned when an EncryptedField carries a
	// version this build does not understand. Unknown versions are a hard
	// failure, never a silent fallback to another algorithm.
	ErrUnknownFieldVersion = errors.New("unknown encrypted field version")

	// ErrInvalidKeyLength is returned when a supplied key is not KeySize
	// bytes long.
	ErrInvalidKeyLength = errors.New("invalid key length")
)
