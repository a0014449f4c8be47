// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FieldVersion is the current EncryptedField format version. Records carrying
// any other version are rejected at decryption time rather than silently
// reinterpreted.
const FieldVersion = 1

// EncryptedField is the serialized form of a single AEAD-protected PII value.
// The nonce (iv) is not secret and is stored alongside the ciphertext; both
// are base64 (standard encoding). The wire shape {v, iv, ciphertext} is fixed:
// existing stored records must round-trip through the same encoding.
type EncryptedField struct {
	// Version allows the cipher suite to rotate without breaking old records.
	Version int `json:"v"`

	// IV is the base64-encoded nonce drawn fresh for this encryption call.
	IV string `json:"iv"`

	// Ciphertext is the base64-encoded AEAD output (ciphertext plus tag).
	Ciphertext string `json:"ciphertext"`
}

// ErrMalformedEncryptedField is returned when a stored value expected to be a
// serialized EncryptedField cannot be parsed as one.
var ErrMalformedEncryptedField = errors.New("malformed encrypted field record")

// String returns the canonical JSON serialization of the field.
func (f EncryptedField) String() string {
	b, _ := json.Marshal(f)
	return string(b)
}

// ParseEncryptedField decodes a stored value into an EncryptedField.
// Returns [ErrMalformedEncryptedField] if the value is not valid JSON or is
// missing any of the three expected keys.
func ParseEncryptedField(value string) (EncryptedField, error) {
	probe, ok := sniffEncryptedField(value)
	if !ok {
		return EncryptedField{}, fmt.Errorf("%w: %q", ErrMalformedEncryptedField, value)
	}

	return EncryptedField{
		Version:    *probe.Version,
		IV:         *probe.IV,
		Ciphertext: *probe.Ciphertext,
	}, nil
}

// IsEncryptedField reports whether a stored value is a serialized
// EncryptedField, as opposed to legacy plaintext kept during the migration
// window. The check requires valid JSON with all three expected keys and a
// numeric "v".
func IsEncryptedField(value string) bool {
	_, ok := sniffEncryptedField(value)
	return ok
}

// fieldProbe mirrors EncryptedField with pointer fields so that key presence
// can be distinguished from zero values during type sniffing.
type fieldProbe struct {
	Version    *int    `json:"v"`
	IV         *string `json:"iv"`
	Ciphertext *string `json:"ciphertext"`
}

func sniffEncryptedField(value string) (fieldProbe, bool) {
	var probe fieldProbe
	if err := json.Unmarshal([]byte(value), &probe); err != nil {
		return fieldProbe{}, false
	}
	if probe.Version == nil || probe.IV == nil || probe.Ciphertext == nil {
		return fieldProbe{}, false
	}
	return probe, true
}
