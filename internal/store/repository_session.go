// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avdeevlv/go-pii-vault/internal/logger"
	"github.com/avdeevlv/go-pii-vault/models"
)

// sessionRepository is the SQL-backed implementation of [SessionRepository].
// Session rows carry the per-session cached data key in the hosted
// environment; the key column is nullable and cleared on logout.
type sessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection and logger.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session models.Session) error {
	log := logger.FromContext(ctx)

	dataKey := sql.NullString{String: session.DataKey, Valid: session.DataKey != ""}
	_, err := r.db.ExecContext(ctx, createSession,
		session.SessionID, session.AccountID, dataKey, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Msg("error: inserting session")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	log := logger.FromContext(ctx)

	var (
		session models.Session
		dataKey sql.NullString
	)
	row := r.db.QueryRowContext(ctx, getSession, sessionID)

	if err := row.Scan(&session.SessionID, &session.AccountID, &dataKey,
		&session.ExpiresAt, &session.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}

		log.Err(err).Str("func", "*sessionRepository.GetSession").Msg("error: scanning session row")
		return models.Session{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	session.DataKey = dataKey.String

	return session, nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteSession, sessionID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteSession").Msg("error: deleting session")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteExpiredSessions, now)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteExpired").Msg("error: deleting expired sessions")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}

	return affected, nil
}

// SaveDataKey stores the base64 data key on an existing session row.
// Returns [ErrSessionNotFound] when the row does not exist.
func (r *sessionRepository) SaveDataKey(ctx context.Context, sessionID, dataKey string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, saveSessionDataKey, sessionID, dataKey)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.SaveDataKey").Msg("error: saving session data key")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return requireAffectedRow(result, ErrSessionNotFound)
}

// GetDataKey returns the base64 data key of a live session. An unknown,
// expired, or keyless session yields the empty string without error: a
// missing key is an expected state, not a failure.
func (r *sessionRepository) GetDataKey(ctx context.Context, sessionID string) (string, error) {
	log := logger.FromContext(ctx)

	var dataKey sql.NullString
	row := r.db.QueryRowContext(ctx, getSessionDataKey, sessionID, time.Now())

	if err := row.Scan(&dataKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		log.Err(err).Str("func", "*sessionRepository.GetDataKey").Msg("error: scanning session data key")
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return dataKey.String, nil
}

func (r *sessionRepository) ClearDataKey(ctx context.Context, sessionID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, clearSessionDataKey, sessionID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.ClearDataKey").Msg("error: clearing session data key")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}
