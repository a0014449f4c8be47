package crypto

// Sizes fixed for the current subsystem version. Changing any of them
// requires bumping models.FieldVersion so old records stay decryptable.
const (
	// KeySize is the byte length of data keys and wrapping keys (AES-256).
	KeySize = 32

	// SaltSize is the byte length of per-account KDF salts.
	SaltSize = 16
)

// CipherProvider is the platform cryptographic capability injected into every
// component that needs randomness, AEAD sealing, or key derivation. Holding
// it as an explicit dependency (rather than reaching for package-level
// primitives) lets the account lifecycle and field services run against a
// deterministic fake in tests.
//
// All methods are pure and safe for concurrent use; each call touches only
// its own inputs.
type CipherProvider interface {
	// RandomBytes returns n bytes from a cryptographically secure source.
	RandomBytes(n int) ([]byte, error)

	// Seal encrypts plaintext under key with a fresh random nonce and returns
	// the nonce and the authenticated ciphertext separately. The nonce is not
	// secret and must be stored alongside the ciphertext.
	Seal(key, plaintext []byte) (nonce, ciphertext []byte, err error)

	// Open decrypts and authenticates ciphertext produced by Seal. It fails
	// closed: any tag mismatch, wrong key, or corrupted input yields an error
	// and never partial plaintext.
	Open(key, nonce, ciphertext []byte) ([]byte, error)

	// DeriveKey deterministically derives a KeySize-byte wrapping key from a
	// password and salt. Identical inputs always yield the identical key; a
	// wrong password is detected downstream when unwrapping fails, not here.
	// The derivation is deliberately CPU-slow and should be kept off
	// latency-sensitive paths.
	DeriveKey(password string, salt []byte) []byte
}
