// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdeevlv/go-pii-vault/internal/config"
	"github.com/avdeevlv/go-pii-vault/internal/crypto"
	"github.com/avdeevlv/go-pii-vault/internal/keycache"
	"github.com/avdeevlv/go-pii-vault/internal/logger"
	"github.com/avdeevlv/go-pii-vault/internal/store"
	"github.com/avdeevlv/go-pii-vault/internal/utils"
	"github.com/avdeevlv/go-pii-vault/internal/validators"
	"github.com/avdeevlv/go-pii-vault/models"
)

// accountService is the concrete implementation of AccountService.
// It orchestrates the claim/login/change-password state machine: password
// hashing, wrapping-key derivation, data-key wrap/unwrap, the email lookup
// index, session rows, and the session key cache.
//
// All cryptographic work goes through the injected primitives; the service
// holds no ambient crypto state and is safe for concurrent use.
type accountService struct {
	accounts store.AccountRepository
	sessions store.SessionRepository
	keyCache keycache.Cache

	hasher      *crypto.PasswordHasher
	keyring     *crypto.Keyring
	fieldCipher *crypto.FieldCipher
	emails      *crypto.EmailIndexer
	passwords   validators.PasswordValidator
	uuid        *utils.UUIDGenerator

	// tokenSignKey is the HMAC secret used to sign and verify session JWTs.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// sessionDuration controls session row, cached key, and token lifetime.
	sessionDuration time.Duration

	logger *logger.Logger
}

// NewAccountService constructs an AccountService wired to the given
// repositories and key cache, with cryptographic parameters from cfg.
// The provider supplies randomness, AEAD, and the KDF; injecting it keeps
// the orchestrator testable with a deterministic fake.
func NewAccountService(accounts store.AccountRepository, sessions store.SessionRepository,
	keyCache keycache.Cache, provider crypto.CipherProvider, cfg config.App, logger *logger.Logger) AccountService {
	return &accountService{
		accounts:        accounts,
		sessions:        sessions,
		keyCache:        keyCache,
		hasher:          crypto.NewPasswordHasher(cfg.PasswordHashCost),
		keyring:         crypto.NewKeyring(provider),
		fieldCipher:     crypto.NewFieldCipher(provider),
		emails:          crypto.NewEmailIndexer(cfg.EmailIndexKey),
		passwords:       validators.NewPasswordValidator(),
		uuid:            utils.NewUUIDGenerator(),
		tokenSignKey:    cfg.TokenSignKey,
		tokenIssuer:     cfg.TokenIssuer,
		sessionDuration: cfg.SessionDuration,
		logger:          logger,
	}
}

// Claim sets the first password on an account.
//
// The flow: validate password strength, hash the password, generate a fresh
// data key and salt, derive the wrapping key from the new password, wrap the
// data key, encrypt the normalized email under the data key, and persist
// everything. A brand-new row is created when no account matches the email;
// a pre-provisioned or legacy unclaimed row is upgraded in place.
//
// Returns:
//   - A validation error (specific, user-actionable) for a weak password.
//   - ErrDuplicateAccount if the email already belongs to a claimed account.
//   - A signed session token on success; the fresh data key is already in
//     the session key cache.
func (a *accountService) Claim(ctx context.Context, email, password string) (models.Token, error) {
	log := logger.FromContext(ctx)

	if email == "" || password == "" {
		return models.Token{}, ErrInvalidDataProvided
	}
	if err := a.passwords.Validate(password); err != nil {
		return models.Token{}, err
	}

	normalized := a.emails.Normalize(email)
	emailHash := a.emails.Hash(email)

	account, err := a.findAccount(ctx, normalized, emailHash)
	switch {
	case err == nil:
		if account.Claimed() {
			return models.Token{}, ErrDuplicateAccount
		}
	case errors.Is(err, store.ErrAccountNotFound):
		account = models.Account{}
	default:
		log.Err(err).Msg("account lookup failed during claim")
		return models.Token{}, fmt.Errorf("account lookup failed: %w", err)
	}

	passwordHash, err := a.hasher.Hash(password)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.Token{}, fmt.Errorf("password hashing failed: %w", err)
	}

	dataKey, wrapped, err := a.establishDataKey(password)
	if err != nil {
		log.Err(err).Msg("data key establishment failed")
		return models.Token{}, fmt.Errorf("data key establishment failed: %w", err)
	}

	encryptedEmail, err := a.fieldCipher.Encrypt([]byte(normalized), dataKey)
	if err != nil {
		log.Err(err).Msg("email encryption failed")
		return models.Token{}, fmt.Errorf("email encryption failed: %w", err)
	}

	if account.AccountID == 0 {
		account, err = a.accounts.CreateAccount(ctx, models.Account{
			EmailHash:      emailHash,
			Email:          encryptedEmail.String(),
			PasswordHash:   passwordHash,
			WrappedDataKey: wrapped.String(),
			CreatedAt:      time.Now(),
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				return models.Token{}, ErrDuplicateAccount
			}
			log.Err(err).Msg("account creation failed")
			return models.Token{}, fmt.Errorf("account creation failed: %w", err)
		}
	} else {
		if err := a.accounts.UpdateCredentials(ctx, account.AccountID, passwordHash, wrapped.String()); err != nil {
			log.Err(err).Int64("account_id", account.AccountID).Msg("credential upgrade failed")
			return models.Token{}, fmt.Errorf("credential upgrade failed: %w", err)
		}
		if account.EmailHash == "" {
			if err := a.accounts.UpdateEmailIndex(ctx, account.AccountID, emailHash, encryptedEmail.String()); err != nil {
				if errors.Is(err, store.ErrDuplicateEmail) {
					return models.Token{}, ErrDuplicateAccount
				}
				log.Err(err).Int64("account_id", account.AccountID).Msg("email index upgrade failed")
				return models.Token{}, fmt.Errorf("email index upgrade failed: %w", err)
			}
		}
	}

	return a.openSession(ctx, account.AccountID, dataKey)
}

// Login authenticates an existing claimed account.
//
// It looks the account up through the email index (with a legacy plaintext
// fallback for pre-migration rows), verifies the password hash, derives the
// wrapping key from the supplied password and the stored salt, and unwraps
// the data key. Any mismatch along the way, including an unwrap failure that
// would indicate stored-data corruption rather than user error, yields the
// single generic ErrInvalidCredentials so the caller cannot tell which check
// failed.
//
// A successful login against a legacy plaintext row also upgrades the row to
// the hashed email index, now that the data key is in hand.
func (a *accountService) Login(ctx context.Context, email, password string) (models.Token, error) {
	log := logger.FromContext(ctx)

	if email == "" || password == "" {
		return models.Token{}, ErrInvalidDataProvided
	}

	normalized := a.emails.Normalize(email)
	emailHash := a.emails.Hash(email)

	account, err := a.findAccount(ctx, normalized, emailHash)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.Token{}, ErrInvalidCredentials
		}
		log.Err(err).Msg("account lookup failed during login")
		return models.Token{}, fmt.Errorf("account lookup failed: %w", err)
	}
	if !account.Claimed() {
		log.Warn().Int64("account_id", account.AccountID).Msg("login attempt on unclaimed account")
		return models.Token{}, ErrInvalidCredentials
	}

	if !a.hasher.Verify(password, account.PasswordHash) {
		return models.Token{}, ErrInvalidCredentials
	}

	dataKey, err := a.unwrapDataKey(account, password)
	if err != nil {
		// A verified password with a failed unwrap means the stored wrap is
		// corrupt. Logged here in full; the caller still sees only the
		// generic credential error.
		log.Err(err).Int64("account_id", account.AccountID).Msg("data key unwrap failed after password match")
		return models.Token{}, ErrInvalidCredentials
	}

	if account.EmailHash == "" {
		a.upgradeEmailIndex(ctx, account.AccountID, normalized, emailHash, dataKey)
	}

	return a.openSession(ctx, account.AccountID, dataKey)
}

// ChangePassword re-wraps the account data key under the new password.
//
// The old password must verify and successfully unwrap the current data key.
// A new salt and wrapping key are generated for the new password, the same
// data key is wrapped again, and the password hash and wrapped key are
// replaced in one atomic update. Every EncryptedField ever written stays
// valid because the data key itself never changes.
func (a *accountService) ChangePassword(ctx context.Context, accountID int64, sessionID, oldPassword, newPassword string) error {
	log := logger.FromContext(ctx)

	if oldPassword == "" || newPassword == "" {
		return ErrInvalidDataProvided
	}
	if err := a.passwords.Validate(newPassword); err != nil {
		return err
	}

	account, err := a.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return ErrInvalidCredentials
		}
		log.Err(err).Int64("account_id", accountID).Msg("account lookup failed during password change")
		return fmt.Errorf("account lookup failed: %w", err)
	}
	if !account.Claimed() {
		return ErrAccountNotClaimed
	}

	if !a.hasher.Verify(oldPassword, account.PasswordHash) {
		return ErrInvalidCredentials
	}

	dataKey, err := a.unwrapDataKey(account, oldPassword)
	if err != nil {
		log.Err(err).Int64("account_id", accountID).Msg("data key unwrap failed during password change")
		return ErrInvalidCredentials
	}

	newPasswordHash, err := a.hasher.Hash(newPassword)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return fmt.Errorf("password hashing failed: %w", err)
	}

	salt, err := a.keyring.GenerateSalt()
	if err != nil {
		return fmt.Errorf("salt generation failed: %w", err)
	}
	wrappingKey := a.keyring.DeriveWrappingKey(newPassword, salt)
	wrapped, err := a.keyring.Wrap(dataKey, wrappingKey, salt)
	if err != nil {
		return fmt.Errorf("data key wrap failed: %w", err)
	}

	if err := a.accounts.UpdateCredentials(ctx, accountID, newPasswordHash, wrapped.String()); err != nil {
		log.Err(err).Int64("account_id", accountID).Msg("credential replacement failed")
		return fmt.Errorf("credential replacement failed: %w", err)
	}

	// Refresh the cached key so the current session keeps working without a
	// fresh login. A cache failure only degrades, never fails, the change.
	if sessionID != "" {
		if err := a.keyCache.Put(ctx, sessionID, dataKey); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("session key cache refresh failed")
		}
	}

	return nil
}

// Logout evicts the session's cached data key and destroys the session row.
// Logging out an already-absent session is a no-op.
func (a *accountService) Logout(ctx context.Context, sessionID string) error {
	log := logger.FromContext(ctx)

	if sessionID == "" {
		return ErrInvalidDataProvided
	}

	if err := a.keyCache.Evict(ctx, sessionID); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("session key eviction failed")
	}

	if err := a.sessions.DeleteSession(ctx, sessionID); err != nil {
		log.Err(err).Str("session_id", sessionID).Msg("session deletion failed")
		return fmt.Errorf("session deletion failed: %w", err)
	}

	return nil
}

// ParseToken validates and parses a raw session token string. Any validation
// failure (expired, wrong issuer, bad signature, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid so callers never inspect low-level JWT errors.
func (a *accountService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseSessionToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// findAccount resolves an account through the email index first and falls
// back to the legacy plaintext email column for pre-migration rows.
func (a *accountService) findAccount(ctx context.Context, normalizedEmail, emailHash string) (models.Account, error) {
	account, err := a.accounts.FindByEmailHash(ctx, emailHash)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, store.ErrAccountNotFound) {
		return models.Account{}, err
	}

	return a.accounts.FindByEmail(ctx, normalizedEmail)
}

// establishDataKey generates a fresh data key and wraps it under a key
// derived from password and a fresh salt.
func (a *accountService) establishDataKey(password string) ([]byte, models.WrappedDataKey, error) {
	dataKey, err := a.keyring.GenerateDataKey()
	if err != nil {
		return nil, models.WrappedDataKey{}, err
	}

	salt, err := a.keyring.GenerateSalt()
	if err != nil {
		return nil, models.WrappedDataKey{}, err
	}

	wrappingKey := a.keyring.DeriveWrappingKey(password, salt)
	wrapped, err := a.keyring.Wrap(dataKey, wrappingKey, salt)
	if err != nil {
		return nil, models.WrappedDataKey{}, err
	}

	return dataKey, wrapped, nil
}

// unwrapDataKey derives the wrapping key from the supplied password and the
// salt stored inside the wrapped-key string, then unwraps the data key.
func (a *accountService) unwrapDataKey(account models.Account, password string) ([]byte, error) {
	wrapped, err := models.ParseWrappedDataKey(account.WrappedDataKey)
	if err != nil {
		return nil, err
	}

	wrappingKey := a.keyring.DeriveWrappingKey(password, wrapped.Salt)

	return a.keyring.Unwrap(wrapped, wrappingKey)
}

// upgradeEmailIndex moves a legacy plaintext row onto the hashed email
// index: the email is encrypted under the account data key and the hash is
// written alongside. Best effort; a failure leaves the row on the legacy
// lookup path and is retried at the next login.
func (a *accountService) upgradeEmailIndex(ctx context.Context, accountID int64, normalizedEmail, emailHash string, dataKey []byte) {
	log := logger.FromContext(ctx)

	encryptedEmail, err := a.fieldCipher.Encrypt([]byte(normalizedEmail), dataKey)
	if err != nil {
		log.Warn().Err(err).Int64("account_id", accountID).Msg("email encryption for index upgrade failed")
		return
	}

	if err := a.accounts.UpdateEmailIndex(ctx, accountID, emailHash, encryptedEmail.String()); err != nil {
		log.Warn().Err(err).Int64("account_id", accountID).Msg("email index upgrade failed")
		return
	}

	log.Info().Int64("account_id", accountID).Msg("legacy account upgraded to hashed email index")
}

// openSession creates the session row, places the unwrapped data key into
// the session key cache, and issues the signed token. A cache failure is
// logged and tolerated: the session then simply operates degraded until the
// next login.
func (a *accountService) openSession(ctx context.Context, accountID int64, dataKey []byte) (models.Token, error) {
	log := logger.FromContext(ctx)

	now := time.Now()
	session := models.Session{
		SessionID: a.uuid.Generate(),
		AccountID: accountID,
		ExpiresAt: now.Add(a.sessionDuration),
		CreatedAt: now,
	}

	if err := a.sessions.CreateSession(ctx, session); err != nil {
		log.Err(err).Int64("account_id", accountID).Msg("session creation failed")
		return models.Token{}, fmt.Errorf("session creation failed: %w", err)
	}

	if err := a.keyCache.Put(ctx, session.SessionID, dataKey); err != nil {
		log.Warn().Err(err).Str("session_id", session.SessionID).Msg("session key cache put failed")
	}

	token, err := utils.GenerateSessionToken(a.tokenIssuer, accountID, session.SessionID, a.sessionDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}
