// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package crypto

import (
	"fmt"

	"github.com/avdeevlv/go-pii-vault/models"
)

// Keyring manages account data keys: generation, wrapping under a
// password-derived wrapping key, and unwrapping.
//
// Wrapping uses the same AEAD scheme as field encryption, which is what makes
// password rotation cheap: wrapping the same data key under two different
// passwords produces two unrelated [models.WrappedDataKey] values, yet
// unwrapping either with its matching password yields the identical data key,
// so no stored field record ever needs re-encryption.
//
// Keyring is stateless and safe for concurrent use.
type Keyring struct {
	provider CipherProvider
}

// NewKeyring constructs a [Keyring] backed by the given provider.
func NewKeyring(provider CipherProvider) *Keyring {
	return &Keyring{provider: provider}
}

// GenerateDataKey returns a fresh cryptographically random data key of
// KeySize bytes. Generated once per account at claim time; the key never
// changes for the lifetime of the account.
func (k *Keyring) GenerateDataKey() ([]byte, error) {
	return k.provider.RandomBytes(KeySize)
}

// GenerateSalt returns a fresh random KDF salt of SaltSize bytes. A new salt
// is drawn at claim and at every password change; salts are never reused
// across accounts.
func (k *Keyring) GenerateSalt() ([]byte, error) {
	return k.provider.RandomBytes(SaltSize)
}

// DeriveWrappingKey derives the wrapping key from a password and salt via the
// provider's KDF. Deterministic; a wrong password surfaces later as an
// [ErrDecryptionFailed] from Unwrap, never here.
func (k *Keyring) DeriveWrappingKey(password string, salt []byte) []byte {
	return k.provider.DeriveKey(password, salt)
}

// Wrap encrypts dataKey under wrappingKey and records the salt the wrapping
// key was derived from, so that login can re-derive it. The blob is
// nonce ‖ ciphertext with a fresh nonce per call.
func (k *Keyring) Wrap(dataKey, wrappingKey, salt []byte) (models.WrappedDataKey, error) {
	if len(dataKey) != KeySize {
		return models.WrappedDataKey{}, fmt.Errorf("%w: data key %d", ErrInvalidKeyLength, len(dataKey))
	}

	nonce, ciphertext, err := k.provider.Seal(wrappingKey, dataKey)
	if err != nil {
		return models.WrappedDataKey{}, fmt.Errorf("wrap data key: %w", err)
	}

	return models.WrappedDataKey{
		Salt: salt,
		Blob: append(nonce, ciphertext...),
	}, nil
}

// Unwrap decrypts a wrapped data key with wrappingKey. It fails closed with
// [ErrDecryptionFailed] on authentication failure; this is how a wrong
// password is detected downstream of login, not via a separate check.
func (k *Keyring) Unwrap(wrapped models.WrappedDataKey, wrappingKey []byte) ([]byte, error) {
	// The GCM nonce is a fixed 12 bytes for the current version.
	const nonceSize = 12
	if len(wrapped.Blob) < nonceSize {
		return nil, fmt.Errorf("%w: wrapped blob too short", ErrDecryptionFailed)
	}

	nonce, ciphertext := wrapped.Blob[:nonceSize], wrapped.Blob[nonceSize:]

	dataKey, err := k.provider.Open(wrappingKey, nonce, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("unwrap data key: %w", err)
	}

	return dataKey, nil
}
