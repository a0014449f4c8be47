// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avdeevlv/go-pii-vault/internal/crypto"
	"github.com/avdeevlv/go-pii-vault/internal/keycache"
	"github.com/avdeevlv/go-pii-vault/internal/logger"
	"github.com/avdeevlv/go-pii-vault/internal/store"
	"github.com/avdeevlv/go-pii-vault/models"
)

// fieldService is the concrete implementation of FieldService.
// Every read and write goes through the session key cache first; a missing
// key is never an error, it selects the degraded path. Batch reads apply the
// policy per field, so one inaccessible record cannot abort the rest.
type fieldService struct {
	fields      store.FieldRepository
	keyCache    keycache.Cache
	fieldCipher *crypto.FieldCipher
	logger      *logger.Logger
}

// NewFieldService constructs a FieldService wired to the field repository
// and session key cache.
func NewFieldService(fields store.FieldRepository, keyCache keycache.Cache,
	provider crypto.CipherProvider, logger *logger.Logger) FieldService {
	return &fieldService{
		fields:      fields,
		keyCache:    keyCache,
		fieldCipher: crypto.NewFieldCipher(provider),
		logger:      logger,
	}
}

// WriteField stores a field value for the account.
//
// With a data key in the session cache the value is encrypted and stored as
// a serialized envelope. Without one, the plaintext is stored with the
// degraded marker set: a bounded, logged state that the next keyed read
// repairs. The write itself never fails for lack of a key.
func (f *fieldService) WriteField(ctx context.Context, accountID int64, sessionID, name, value string) (bool, error) {
	log := logger.FromContext(ctx)

	if name == "" {
		return false, ErrInvalidDataProvided
	}

	field := models.PIIField{
		AccountID: accountID,
		Name:      name,
		UpdatedAt: time.Now(),
	}

	dataKey, ok := f.keyCache.Get(ctx, sessionID)
	if ok {
		encrypted, err := f.fieldCipher.Encrypt([]byte(value), dataKey)
		if err != nil {
			log.Err(err).Str("field", name).Msg("field encryption failed")
			return false, fmt.Errorf("field encryption failed: %w", err)
		}
		field.Value = encrypted.String()
	} else {
		log.Warn().Int64("account_id", accountID).Str("field", name).
			Msg("no session data key available, storing field degraded")
		field.Value = value
		field.Degraded = true
	}

	if err := f.fields.UpsertField(ctx, field); err != nil {
		log.Err(err).Str("field", name).Msg("field write failed")
		return false, fmt.Errorf("field write failed: %w", err)
	}

	return field.Degraded, nil
}

// ReadField returns one field value.
//
// Encrypted values are decrypted when the session data key is available;
// with no key (or a record that fails authentication) the degradation
// sentinel is returned instead of an error. Plaintext values, legacy or
// degraded, are returned unchanged, and when a key is at hand they are
// re-encrypted in place so the degraded state stays bounded.
func (f *fieldService) ReadField(ctx context.Context, accountID int64, sessionID, name string) (string, error) {
	field, err := f.fields.GetField(ctx, accountID, name)
	if err != nil {
		return "", err
	}

	dataKey, haveKey := f.keyCache.Get(ctx, sessionID)

	return f.renderField(ctx, field, dataKey, haveKey), nil
}

// ReadFields returns the requested fields, decrypting per field. Fields with
// no stored value are absent from the result; inaccessible encrypted values
// come back as the sentinel. The request never fails as a whole because one
// record is unreadable.
func (f *fieldService) ReadFields(ctx context.Context, accountID int64, sessionID string, names ...string) ([]models.FieldResponse, error) {
	fields, err := f.fields.GetFields(ctx, accountID, names...)
	if err != nil {
		return nil, err
	}

	dataKey, haveKey := f.keyCache.Get(ctx, sessionID)

	responses := make([]models.FieldResponse, 0, len(fields))
	for _, field := range fields {
		responses = append(responses, models.FieldResponse{
			Name:  field.Name,
			Value: f.renderField(ctx, field, dataKey, haveKey),
		})
	}

	return responses, nil
}

// renderField resolves a stored value to what the caller should see.
//
// The stored value is type-sniffed: a well-formed encrypted envelope is
// decrypted (key available) or replaced by the sentinel (no key, or a
// decryption failure, which is logged and downgraded rather than surfaced).
// Anything else is plaintext from the migration window or a degraded write
// and is returned as-is, with an opportunistic re-encryption when a key is
// available.
func (f *fieldService) renderField(ctx context.Context, field models.PIIField, dataKey []byte, haveKey bool) string {
	log := logger.FromContext(ctx)

	if !models.IsEncryptedField(field.Value) {
		if haveKey {
			f.repairField(ctx, field, dataKey)
		}
		return field.Value
	}

	if !haveKey {
		return EncryptedPlaceholder
	}

	encrypted, err := models.ParseEncryptedField(field.Value)
	if err != nil {
		log.Err(err).Int64("account_id", field.AccountID).Str("field", field.Name).
			Msg("stored field envelope is malformed")
		return EncryptedPlaceholder
	}

	plaintext, err := f.fieldCipher.Decrypt(encrypted, dataKey)
	if err != nil {
		log.Err(err).Int64("account_id", field.AccountID).Str("field", field.Name).
			Msg("field decryption failed")
		return EncryptedPlaceholder
	}

	return string(plaintext)
}

// repairField re-encrypts a plaintext record now that a data key is
// available. Best effort: a failure leaves the record plaintext and the
// repair is retried on the next keyed read.
func (f *fieldService) repairField(ctx context.Context, field models.PIIField, dataKey []byte) {
	log := logger.FromContext(ctx)

	encrypted, err := f.fieldCipher.Encrypt([]byte(field.Value), dataKey)
	if err != nil {
		log.Warn().Err(err).Str("field", field.Name).Msg("field re-encryption failed")
		return
	}

	field.Value = encrypted.String()
	field.Degraded = false
	field.UpdatedAt = time.Now()

	if err := f.fields.UpsertField(ctx, field); err != nil {
		log.Warn().Err(err).Str("field", field.Name).Msg("field re-encryption write failed")
		return
	}

	log.Info().Int64("account_id", field.AccountID).Str("field", field.Name).
		Msg("plaintext field re-encrypted")
}
