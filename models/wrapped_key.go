// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package models

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedWrappedKey is returned when a stored wrapped-data-key string
// cannot be parsed back into its salt and blob parts.
var ErrMalformedWrappedKey = errors.New("malformed wrapped data key")

// WrappedDataKey is an account data key encrypted under a password-derived
// wrapping key. The salt is the KDF input used to derive that wrapping key;
// it is unique per account and replaced on every password change. The blob is
// the AEAD output in nonce ‖ ciphertext form.
//
// The persisted representation is a single delimited string
// "<base64 salt>:<base64 blob>" stored alongside the password hash.
type WrappedDataKey struct {
	Salt []byte
	Blob []byte
}

// String returns the persisted "<base64 salt>:<base64 blob>" form.
func (w WrappedDataKey) String() string {
	return base64.StdEncoding.EncodeToString(w.Salt) + ":" + base64.StdEncoding.EncodeToString(w.Blob)
}

// ParseWrappedDataKey parses the persisted "<base64 salt>:<base64 blob>"
// string form. Returns [ErrMalformedWrappedKey] if the delimiter is missing
// or either part is not valid base64.
func ParseWrappedDataKey(value string) (WrappedDataKey, error) {
	salt64, blob64, found := strings.Cut(value, ":")
	if !found {
		return WrappedDataKey{}, ErrMalformedWrappedKey
	}

	salt, err := base64.StdEncoding.DecodeString(salt64)
	if err != nil {
		return WrappedDataKey{}, fmt.Errorf("%w: decoding salt: %w", ErrMalformedWrappedKey, err)
	}

	blob, err := base64.StdEncoding.DecodeString(blob64)
	if err != nil {
		return WrappedDataKey{}, fmt.Errorf("%w: decoding blob: %w", ErrMalformedWrappedKey, err)
	}

	return WrappedDataKey{Salt: salt, Blob: blob}, nil
}
