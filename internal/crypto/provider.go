// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// DefaultKDFIterations is the PBKDF2-SHA256 iteration count for the current
// subsystem version (OWASP 2023 recommendation). It is configurable per
// deployment but fixed for the lifetime of any stored wrapped key: the salt
// string format carries no iteration count, so raising it only affects keys
// wrapped after the change.
const DefaultKDFIterations = 210_000

// gcmProvider is the production [CipherProvider]: OS CSPRNG randomness,
// AES-256-GCM sealing, and PBKDF2-SHA256 key derivation.
type gcmProvider struct {
	// kdfIterations is the PBKDF2 iteration count. Stored in the struct so it
	// can be tuned per deployment target (e.g. constrained test environments).
	kdfIterations int
}

// NewAESGCMProvider constructs the production AES-256-GCM [CipherProvider]
// with the given PBKDF2 iteration count. Passing a non-positive count falls
// back to [DefaultKDFIterations].
func NewAESGCMProvider(kdfIterations int) CipherProvider {
	if kdfIterations <= 0 {
		kdfIterations = DefaultKDFIterations
	}
	return &gcmProvider{kdfIterations: kdfIterations}
}

// RandomBytes implements [CipherProvider]. It reads n bytes from the OS
// CSPRNG. Returns an error if the random read fails.
func (p *gcmProvider) RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Seal implements [CipherProvider]. It encrypts plaintext with AES-256-GCM
// under key, drawing a fresh random nonce of the cipher's required length
// (12 bytes). Returns an error if cipher creation or the nonce read fails.
func (p *gcmProvider) Seal(key, plaintext []byte) ([]byte, []byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}

	return nonce, gcm.Seal(nil, nonce, plaintext, nil), nil
}

// Open implements [CipherProvider]. It decrypts ciphertext with AES-256-GCM
// and verifies the authentication tag. The nonce must match the cipher's
// required length exactly; anything else is treated as a corrupted record.
func (p *gcmProvider) Open(key, nonce, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("%w: nonce length %d", ErrDecryptionFailed, len(nonce))
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// Wrong key and tampered ciphertext are indistinguishable here;
		// callers map this to their own taxonomy.
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	return plaintext, nil
}

// DeriveKey implements [CipherProvider]. It stretches password and salt into
// a KeySize-byte wrapping key with PBKDF2-SHA256 using the configured
// iteration count. Deterministic; garbage-in/garbage-out is acceptable since
// a wrong key is caught by the authenticated unwrap downstream.
func (p *gcmProvider) DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, p.kdfIterations, KeySize, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}
