// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/avdeevlv/go-pii-vault/models"
)

var fieldColumns = []string{"account_id", "name", "value", "degraded", "updated_at"}

// psql is the shared statement builder with PostgreSQL-style placeholders
// ($1, $2, ...), which the SQLite driver accepts as well.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildUpsertFieldQuery produces an insert-or-replace statement for one
// field value. A conflicting (account_id, name) pair overwrites the stored
// value, degradation flag, and timestamp.
func buildUpsertFieldQuery(field models.PIIField) (string, []any, error) {
	query, args, err := psql.
		Insert("pii_fields").
		Columns(fieldColumns...).
		Values(field.AccountID, field.Name, field.Value, field.Degraded, field.UpdatedAt).
		Suffix(`ON CONFLICT (account_id, name)
			DO UPDATE SET value = EXCLUDED.value,
				degraded = EXCLUDED.degraded,
				updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return "", nil, err
	}

	return query, args, nil
}

// buildGetFieldQuery produces a single-field lookup by account and name.
func buildGetFieldQuery(accountID int64, name string) (string, []any, error) {
	query, args, err := psql.
		Select(fieldColumns...).
		From("pii_fields").
		Where(sq.Eq{"account_id": accountID, "name": name}).
		ToSql()
	if err != nil {
		return "", nil, err
	}

	return query, args, nil
}

// buildGetFieldsQuery produces a batch lookup. With no names given, all
// fields of the account are selected; otherwise squirrel expands the slice
// into an IN clause.
func buildGetFieldsQuery(accountID int64, names []string) (string, []any, error) {
	builder := psql.
		Select(fieldColumns...).
		From("pii_fields").
		Where(sq.Eq{"account_id": accountID})

	if len(names) > 0 {
		builder = builder.Where(sq.Eq{"name": names})
	}

	query, args, err := builder.OrderBy("name").ToSql()
	if err != nil {
		return "", nil, err
	}

	return query, args, nil
}
