package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avdeevlv/go-pii-vault/internal/logger"
	"github.com/avdeevlv/go-pii-vault/models"
)

func newTestFieldRepo(t *testing.T) (*fieldRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &fieldRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func TestUpsertField_Success(t *testing.T) {
	repo, mock, db := newTestFieldRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	field := models.PIIField{
		AccountID: 42,
		Name:      "phone",
		Value:     `{"v":1,"iv":"aXY=","ciphertext":"Y3Q="}`,
		Degraded:  false,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO pii_fields").
		WithArgs(field.AccountID, field.Name, field.Value, field.Degraded, field.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpsertField(ctx, field); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpsertField_DegradedPlaintext(t *testing.T) {
	repo, mock, db := newTestFieldRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	field := models.PIIField{
		AccountID: 42,
		Name:      "phone",
		Value:     "+1-555-0100",
		Degraded:  true,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO pii_fields").
		WithArgs(field.AccountID, field.Name, field.Value, true, field.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpsertField(ctx, field); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpsertField_ExecError(t *testing.T) {
	repo, mock, db := newTestFieldRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("INSERT INTO pii_fields").
		WillReturnError(errors.New("db network error"))

	err := repo.UpsertField(ctx, models.PIIField{AccountID: 42, Name: "phone"})
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}

func TestGetField_Success(t *testing.T) {
	repo, mock, db := newTestFieldRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(fieldColumns).
		AddRow(42, "phone", `{"v":1,"iv":"aXY=","ciphertext":"Y3Q="}`, false, now)

	mock.ExpectQuery("SELECT account_id, name, value").
		WithArgs(int64(42), "phone").
		WillReturnRows(rows)

	field, err := repo.GetField(ctx, 42, "phone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if field.Name != "phone" {
		t.Errorf("expected name phone, got %q", field.Name)
	}
	if field.Degraded {
		t.Error("expected non-degraded field")
	}
}

func TestGetField_NotFound(t *testing.T) {
	repo, mock, db := newTestFieldRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT account_id, name, value").
		WithArgs(int64(42), "missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetField(ctx, 42, "missing")
	if !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestGetFields_SubsetReturned(t *testing.T) {
	repo, mock, db := newTestFieldRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	// Three names requested, only two stored.
	rows := sqlmock.NewRows(fieldColumns).
		AddRow(42, "address", `{"v":1,"iv":"aXY=","ciphertext":"YWRkcg=="}`, false, now).
		AddRow(42, "phone", "+1-555-0100", true, now)

	mock.ExpectQuery("SELECT account_id, name, value").
		WithArgs(int64(42), "phone", "address", "ssn").
		WillReturnRows(rows)

	fields, err := repo.GetFields(ctx, 42, "phone", "address", "ssn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Name != "address" || fields[1].Name != "phone" {
		t.Errorf("unexpected field order: %q, %q", fields[0].Name, fields[1].Name)
	}
	if !fields[1].Degraded {
		t.Error("expected phone to be degraded")
	}
}

func TestGetFields_NoNamesSelectsAll(t *testing.T) {
	repo, mock, db := newTestFieldRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(fieldColumns).
		AddRow(42, "phone", "enc", false, now)

	mock.ExpectQuery("SELECT account_id, name, value").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	fields, err := repo.GetFields(ctx, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
}

func TestGetFields_QueryError(t *testing.T) {
	repo, mock, db := newTestFieldRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT account_id, name, value").
		WillReturnError(errors.New("db failure"))

	_, err := repo.GetFields(ctx, 42, "phone")
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}
