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

// fieldRepository is the SQL-backed implementation of [FieldRepository].
// Stored values are either serialized encrypted envelopes or, for records
// written while the data key was unavailable, plaintext marked degraded.
// The repository treats both uniformly as opaque text.
type fieldRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewFieldRepository constructs a [FieldRepository] backed by the provided
// database connection and logger.
func NewFieldRepository(db *DB, logger *logger.Logger) FieldRepository {
	logger.Debug().Msg("creating field repository")
	return &fieldRepository{
		db:     db,
		logger: logger,
	}
}

// UpsertField inserts or replaces a field value. A write is always a whole
// record; stored values are never patched in place.
func (r *fieldRepository) UpsertField(ctx context.Context, field models.PIIField) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertFieldQuery(field)
	if err != nil {
		log.Err(err).Str("func", "*fieldRepository.UpsertField").Msg("error: building upsert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*fieldRepository.UpsertField").Msg("error: upserting field")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// GetField retrieves one field value. Returns [ErrFieldNotFound] when the
// account has nothing stored under the requested name.
func (r *fieldRepository) GetField(ctx context.Context, accountID int64, name string) (models.PIIField, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetFieldQuery(accountID, name)
	if err != nil {
		log.Err(err).Str("func", "*fieldRepository.GetField").Msg("error: building select query")
		return models.PIIField{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var field models.PIIField
	row := r.db.QueryRowContext(ctx, query, args...)

	if err := row.Scan(&field.AccountID, &field.Name, &field.Value,
		&field.Degraded, &field.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PIIField{}, ErrFieldNotFound
		}

		log.Err(err).Str("func", "*fieldRepository.GetField").Msg("error: scanning field row")
		return models.PIIField{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return field, nil
}

// GetFields retrieves the named fields of an account in one query. Names
// with no stored value are simply absent from the result; with no names
// given, every field of the account is returned.
func (r *fieldRepository) GetFields(ctx context.Context, accountID int64, names ...string) ([]models.PIIField, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetFieldsQuery(accountID, names)
	if err != nil {
		log.Err(err).Str("func", "*fieldRepository.GetFields").Msg("error: building select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*fieldRepository.GetFields").Msg("error: selecting fields")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var fields []models.PIIField
	for rows.Next() {
		var field models.PIIField
		if err := rows.Scan(&field.AccountID, &field.Name, &field.Value,
			&field.Degraded, &field.UpdatedAt); err != nil {
			log.Err(err).Str("func", "*fieldRepository.GetFields").Msg("error: scanning field row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		fields = append(fields, field)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*fieldRepository.GetFields").Msg("error: iterating field rows")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return fields, nil
}
