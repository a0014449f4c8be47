// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeevlv/go-pii-vault/internal/logger"
	"github.com/avdeevlv/go-pii-vault/models"
)

// accountRepository is the SQL-backed implementation of [AccountRepository].
// It handles account creation, lookup via the email index, and atomic
// credential replacement against the "accounts" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository constructs an [AccountRepository] backed by the
// provided database connection and logger.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAccount persists a new account record and returns the fully populated
// [models.Account] with server-assigned fields (AccountID).
//
// Error handling:
//   - unique-constraint violation on email_hash → [ErrDuplicateEmail].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createAccount,
		account.EmailHash, account.Email, account.PasswordHash, account.WrappedDataKey, account.CreatedAt)

	if err := row.Scan(&account.AccountID, &account.EmailHash, &account.Email,
		&account.PasswordHash, &account.WrappedDataKey, &account.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return models.Account{}, ErrDuplicateEmail
		}

		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: scanning created account")
		return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return account, nil
}

// FindByEmailHash retrieves the account matching the deterministic email
// digest. Returns [ErrAccountNotFound] if no record matches.
func (r *accountRepository) FindByEmailHash(ctx context.Context, emailHash string) (models.Account, error) {
	return r.findOne(ctx, findAccountByEmailHash, emailHash)
}

// FindByEmail retrieves a pre-migration account by its legacy plaintext
// email column. Returns [ErrAccountNotFound] if no record matches.
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	return r.findOne(ctx, findAccountByEmail, email)
}

// FindByID retrieves an account by its internal identifier.
// Returns [ErrAccountNotFound] if no record matches.
func (r *accountRepository) FindByID(ctx context.Context, accountID int64) (models.Account, error) {
	return r.findOne(ctx, findAccountByID, accountID)
}

func (r *accountRepository) findOne(ctx context.Context, query string, arg any) (models.Account, error) {
	log := logger.FromContext(ctx)

	var account models.Account
	row := r.db.QueryRowContext(ctx, query, arg)

	if err := row.Scan(&account.AccountID, &account.EmailHash, &account.Email,
		&account.PasswordHash, &account.WrappedDataKey, &account.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}

		log.Err(err).Str("func", "*accountRepository.findOne").Msg("error: scanning account row")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return account, nil
}

// UpdateCredentials atomically replaces the password hash and wrapped data
// key in one UPDATE statement. Returns [ErrAccountNotFound] if the account
// does not exist.
func (r *accountRepository) UpdateCredentials(ctx context.Context, accountID int64, passwordHash, wrappedDataKey string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, updateAccountCredentials, accountID, passwordHash, wrappedDataKey)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.UpdateCredentials").Msg("error: updating credentials")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return requireAffectedRow(result, ErrAccountNotFound)
}

// UpdateEmailIndex upgrades a legacy account to the hashed email index.
// Returns [ErrDuplicateEmail] if another account already owns the hash.
func (r *accountRepository) UpdateEmailIndex(ctx context.Context, accountID int64, emailHash, encryptedEmail string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, updateAccountEmailIndex, accountID, emailHash, encryptedEmail)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}

		log.Err(err).Str("func", "*accountRepository.UpdateEmailIndex").Msg("error: upgrading email index")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return requireAffectedRow(result, ErrAccountNotFound)
}

// requireAffectedRow converts a zero-rows-affected result into notFound.
// Drivers that cannot report affected rows are trusted to have applied the
// statement.
func requireAffectedRow(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return nil
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
