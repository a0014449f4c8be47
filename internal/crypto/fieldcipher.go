// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package crypto

import (
	"encoding/base64"
	"fmt"

	"github.com/avdeevlv/go-pii-vault/models"
)

// FieldCipher encrypts and decrypts individual PII field values with the
// account data key. Every encryption call draws a fresh nonce through the
// injected [CipherProvider]; the result is a versioned, self-describing
// [models.EncryptedField] record.
//
// FieldCipher is stateless and safe for concurrent use.
type FieldCipher struct {
	provider CipherProvider
}

// NewFieldCipher constructs a [FieldCipher] backed by the given provider.
func NewFieldCipher(provider CipherProvider) *FieldCipher {
	return &FieldCipher{provider: provider}
}

// Encrypt seals plaintext under key and returns the versioned field record.
// Returns an error if the key has the wrong length or nonce generation fails.
func (c *FieldCipher) Encrypt(plaintext, key []byte) (models.EncryptedField, error) {
	if len(key) != KeySize {
		return models.EncryptedField{}, fmt.Errorf("%w: %d", ErrInvalidKeyLength, len(key))
	}

	nonce, ciphertext, err := c.provider.Seal(key, plaintext)
	if err != nil {
		return models.EncryptedField{}, fmt.Errorf("seal field: %w", err)
	}

	return models.EncryptedField{
		Version:    models.FieldVersion,
		IV:         base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// Decrypt opens a field record with key and returns the original plaintext.
//
// It fails closed:
//   - [ErrUnknownFieldVersion] if the record's version is not recognised
//     (checked before any cipher work);
//   - [ErrDecryptionFailed] on tag mismatch, wrong key, or corrupted input;
//   - a wrapped decoding error if the nonce or ciphertext is not valid base64.
func (c *FieldCipher) Decrypt(field models.EncryptedField, key []byte) ([]byte, error) {
	if field.Version != models.FieldVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFieldVersion, field.Version)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKeyLength, len(key))
	}

	nonce, err := base64.StdEncoding.DecodeString(field.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding iv: %w", models.ErrMalformedEncryptedField, err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(field.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding ciphertext: %w", models.ErrMalformedEncryptedField, err)
	}

	plaintext, err := c.provider.Open(key, nonce, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("open field: %w", err)
	}

	return plaintext, nil
}
