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

func newTestSessionRepo(t *testing.T) (*sessionRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &sessionRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

var sessionColumns = []string{"session_id", "account_id", "data_key", "expires_at", "created_at"}

func TestCreateSession_Success(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	session := models.Session{
		SessionID: "sess-1",
		AccountID: 7,
		DataKey:   "a2V5",
		ExpiresAt: now.Add(12 * time.Hour),
		CreatedAt: now,
	}

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(session.SessionID, session.AccountID, sql.NullString{String: "a2V5", Valid: true},
			session.ExpiresAt, session.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.CreateSession(ctx, session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateSession_EmptyDataKeyStoredAsNull(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	session := models.Session{
		SessionID: "sess-2",
		AccountID: 7,
		ExpiresAt: now.Add(12 * time.Hour),
		CreatedAt: now,
	}

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(session.SessionID, session.AccountID, sql.NullString{},
			session.ExpiresAt, session.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.CreateSession(ctx, session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetSession_Success(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(sessionColumns).
		AddRow("sess-1", 7, "a2V5", now.Add(time.Hour), now)

	mock.ExpectQuery("SELECT session_id").
		WithArgs("sess-1").
		WillReturnRows(rows)

	session, err := repo.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.AccountID != 7 {
		t.Errorf("expected AccountID=7, got %d", session.AccountID)
	}
	if session.DataKey != "a2V5" {
		t.Errorf("expected data key a2V5, got %q", session.DataKey)
	}
}

func TestGetSession_NullDataKey(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(sessionColumns).
		AddRow("sess-1", 7, nil, now.Add(time.Hour), now)

	mock.ExpectQuery("SELECT session_id").
		WithArgs("sess-1").
		WillReturnRows(rows)

	session, err := repo.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.DataKey != "" {
		t.Errorf("expected empty data key, got %q", session.DataKey)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT session_id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetSession(ctx, "missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDeleteSession_AbsentIsNoOp(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("DELETE FROM sessions").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteSession(ctx, "missing"); err != nil {
		t.Fatalf("expected no error deleting absent session, got %v", err)
	}
}

func TestDeleteExpired_ReturnsCount(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectExec("DELETE FROM sessions").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	dropped, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dropped != 3 {
		t.Errorf("expected 3 dropped sessions, got %d", dropped)
	}
}

func TestSaveDataKey_SessionMissing(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE sessions").
		WithArgs("missing", "a2V5").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveDataKey(ctx, "missing", "a2V5")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestGetDataKey_Success(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"data_key"}).AddRow("a2V5")

	mock.ExpectQuery("SELECT data_key").
		WithArgs("sess-1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	dataKey, err := repo.GetDataKey(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dataKey != "a2V5" {
		t.Errorf("expected a2V5, got %q", dataKey)
	}
}

func TestGetDataKey_MissingSessionIsNotAnError(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT data_key").
		WithArgs("missing", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	dataKey, err := repo.GetDataKey(ctx, "missing")
	if err != nil {
		t.Fatalf("expected no error for missing session, got %v", err)
	}
	if dataKey != "" {
		t.Errorf("expected empty key, got %q", dataKey)
	}
}

func TestGetDataKey_NullKey(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"data_key"}).AddRow(nil)

	mock.ExpectQuery("SELECT data_key").
		WithArgs("sess-1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	dataKey, err := repo.GetDataKey(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dataKey != "" {
		t.Errorf("expected empty key for NULL column, got %q", dataKey)
	}
}

func TestClearDataKey_Success(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE sessions").
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ClearDataKey(ctx, "sess-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
