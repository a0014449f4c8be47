// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeevlv/go-pii-vault/internal/config"
	"github.com/avdeevlv/go-pii-vault/internal/logger"
	"github.com/avdeevlv/go-pii-vault/internal/service"
	"github.com/avdeevlv/go-pii-vault/internal/store"
	"github.com/avdeevlv/go-pii-vault/models"
)

// ─────────────────────────────────────────────
// Mock FieldService
// ─────────────────────────────────────────────

// mockFieldService implements service.FieldService for unit tests.
// Each method field can be overridden per test case.
type mockFieldService struct {
	writeFieldFn func(ctx context.Context, accountID int64, sessionID, name, value string) (bool, error)
	readFieldFn  func(ctx context.Context, accountID int64, sessionID, name string) (string, error)
	readFieldsFn func(ctx context.Context, accountID int64, sessionID string, names ...string) ([]models.FieldResponse, error)
}

func (m *mockFieldService) WriteField(ctx context.Context, accountID int64, sessionID, name, value string) (bool, error) {
	return m.writeFieldFn(ctx, accountID, sessionID, name, value)
}

func (m *mockFieldService) ReadField(ctx context.Context, accountID int64, sessionID, name string) (string, error) {
	return m.readFieldFn(ctx, accountID, sessionID, name)
}

func (m *mockFieldService) ReadFields(ctx context.Context, accountID int64, sessionID string, names ...string) ([]models.FieldResponse, error) {
	return m.readFieldsFn(ctx, accountID, sessionID, names...)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newHandlerWithFields builds a Handler with the given FieldService mock.
func newHandlerWithFields(t *testing.T, fields service.FieldService) *Handler {
	t.Helper()
	svcs := &service.Services{
		FieldService: fields,
	}
	return NewHandler(svcs, config.App{Version: "test"}, logger.Nop())
}

// fieldRequest builds an authenticated request carrying the chi URL parameter
// {name}, matching what the router would produce.
func fieldRequest(method, target, name, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req = req.WithContext(authedContext(42, "session-42"))

	if name != "" {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("name", name)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	}

	return req
}

// ─────────────────────────────────────────────
// writeField
// ─────────────────────────────────────────────

// TestWriteField_Success verifies the happy path: the field name, value, and
// identity reach the service, and the response reports a non-degraded write.
func TestWriteField_Success(t *testing.T) {
	var gotAccountID int64
	var gotSessionID, gotName, gotValue string

	fields := &mockFieldService{
		writeFieldFn: func(_ context.Context, accountID int64, sessionID, name, value string) (bool, error) {
			gotAccountID = accountID
			gotSessionID = sessionID
			gotName = name
			gotValue = value
			return false, nil
		},
	}

	h := newHandlerWithFields(t, fields)
	body := jsonBody(t, models.WriteFieldRequest{Value: "4111 1111 1111 1111"})
	req := fieldRequest(http.MethodPut, "/api/fields/card_number", "card_number", body)
	rec := httptest.NewRecorder()

	h.writeField(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotAccountID)
	assert.Equal(t, "session-42", gotSessionID)
	assert.Equal(t, "card_number", gotName)
	assert.Equal(t, "4111 1111 1111 1111", gotValue)

	var resp models.WriteFieldResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "card_number", resp.Name)
	assert.False(t, resp.Degraded)
}

// TestWriteField_Degraded verifies that a keyless write succeeds with the
// degraded flag set rather than failing.
func TestWriteField_Degraded(t *testing.T) {
	fields := &mockFieldService{
		writeFieldFn: func(_ context.Context, _ int64, _, _, _ string) (bool, error) {
			return true, nil
		},
	}

	h := newHandlerWithFields(t, fields)
	body := jsonBody(t, models.WriteFieldRequest{Value: "some pii"})
	req := fieldRequest(http.MethodPut, "/api/fields/phone", "phone", body)
	rec := httptest.NewRecorder()

	h.writeField(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.WriteFieldResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Degraded)
}

// TestWriteField_InvalidJSON verifies that a malformed request body results
// in 400 Bad Request.
func TestWriteField_InvalidJSON(t *testing.T) {
	h := newHandlerWithFields(t, &mockFieldService{})

	req := fieldRequest(http.MethodPut, "/api/fields/phone", "phone", "{bad json")
	rec := httptest.NewRecorder()

	h.writeField(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON was passed")
}

// TestWriteField_NoIdentity verifies that a request without the auth
// middleware's context values results in 401 Unauthorized.
func TestWriteField_NoIdentity(t *testing.T) {
	h := newHandlerWithFields(t, &mockFieldService{})

	body := jsonBody(t, models.WriteFieldRequest{Value: "some pii"})
	req := httptest.NewRequest(http.MethodPut, "/api/fields/phone", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.writeField(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestWriteField_InvalidDataProvided verifies that
// service.ErrInvalidDataProvided maps to 400 Bad Request.
func TestWriteField_InvalidDataProvided(t *testing.T) {
	fields := &mockFieldService{
		writeFieldFn: func(_ context.Context, _ int64, _, _, _ string) (bool, error) {
			return false, service.ErrInvalidDataProvided
		},
	}

	h := newHandlerWithFields(t, fields)
	body := jsonBody(t, models.WriteFieldRequest{Value: ""})
	req := fieldRequest(http.MethodPut, "/api/fields/phone", "phone", body)
	rec := httptest.NewRecorder()

	h.writeField(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestWriteField_UnexpectedError verifies that an unknown error from
// WriteField maps to 500 Internal Server Error.
func TestWriteField_UnexpectedError(t *testing.T) {
	fields := &mockFieldService{
		writeFieldFn: func(_ context.Context, _ int64, _, _, _ string) (bool, error) {
			return false, errors.New("db connection lost")
		},
	}

	h := newHandlerWithFields(t, fields)
	body := jsonBody(t, models.WriteFieldRequest{Value: "some pii"})
	req := fieldRequest(http.MethodPut, "/api/fields/phone", "phone", body)
	rec := httptest.NewRecorder()

	h.writeField(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ─────────────────────────────────────────────
// readField
// ─────────────────────────────────────────────

// TestReadField_Success verifies the happy path for a single field read.
func TestReadField_Success(t *testing.T) {
	fields := &mockFieldService{
		readFieldFn: func(_ context.Context, _ int64, _, name string) (string, error) {
			require.Equal(t, "card_number", name)
			return "4111 1111 1111 1111", nil
		},
	}

	h := newHandlerWithFields(t, fields)
	req := fieldRequest(http.MethodGet, "/api/fields/card_number", "card_number", "")
	rec := httptest.NewRecorder()

	h.readField(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.FieldResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "card_number", resp.Name)
	assert.Equal(t, "4111 1111 1111 1111", resp.Value)
}

// TestReadField_Sentinel verifies that the degradation sentinel travels
// through the handler as an ordinary value, not an error.
func TestReadField_Sentinel(t *testing.T) {
	fields := &mockFieldService{
		readFieldFn: func(_ context.Context, _ int64, _, _ string) (string, error) {
			return service.EncryptedPlaceholder, nil
		},
	}

	h := newHandlerWithFields(t, fields)
	req := fieldRequest(http.MethodGet, "/api/fields/ssn", "ssn", "")
	rec := httptest.NewRecorder()

	h.readField(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.FieldResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, service.EncryptedPlaceholder, resp.Value)
}

// TestReadField_NotFound verifies that store.ErrFieldNotFound maps to
// 404 Not Found.
func TestReadField_NotFound(t *testing.T) {
	fields := &mockFieldService{
		readFieldFn: func(_ context.Context, _ int64, _, _ string) (string, error) {
			return "", store.ErrFieldNotFound
		},
	}

	h := newHandlerWithFields(t, fields)
	req := fieldRequest(http.MethodGet, "/api/fields/missing", "missing", "")
	rec := httptest.NewRecorder()

	h.readField(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestReadField_UnexpectedError verifies that an unknown error from ReadField
// maps to 500 Internal Server Error.
func TestReadField_UnexpectedError(t *testing.T) {
	fields := &mockFieldService{
		readFieldFn: func(_ context.Context, _ int64, _, _ string) (string, error) {
			return "", errors.New("db connection lost")
		},
	}

	h := newHandlerWithFields(t, fields)
	req := fieldRequest(http.MethodGet, "/api/fields/phone", "phone", "")
	rec := httptest.NewRecorder()

	h.readField(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ─────────────────────────────────────────────
// readFields
// ─────────────────────────────────────────────

// TestReadFields_ParsesNamesQuery verifies that the comma-separated names
// query parameter is split, trimmed, and forwarded in order.
func TestReadFields_ParsesNamesQuery(t *testing.T) {
	var gotNames []string

	fields := &mockFieldService{
		readFieldsFn: func(_ context.Context, _ int64, _ string, names ...string) ([]models.FieldResponse, error) {
			gotNames = names
			return []models.FieldResponse{}, nil
		},
	}

	h := newHandlerWithFields(t, fields)
	req := fieldRequest(http.MethodGet, "/api/fields/?names=ssn,%20phone%20,card_number", "", "")
	rec := httptest.NewRecorder()

	h.readFields(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"ssn", "phone", "card_number"}, gotNames)
}

// TestReadFields_NoNamesMeansAll verifies that omitting the names parameter
// forwards an empty name list, which the service treats as "all fields".
func TestReadFields_NoNamesMeansAll(t *testing.T) {
	called := false

	fields := &mockFieldService{
		readFieldsFn: func(_ context.Context, _ int64, _ string, names ...string) ([]models.FieldResponse, error) {
			called = true
			assert.Empty(t, names)
			return []models.FieldResponse{}, nil
		},
	}

	h := newHandlerWithFields(t, fields)
	req := fieldRequest(http.MethodGet, "/api/fields/", "", "")
	rec := httptest.NewRecorder()

	h.readFields(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

// TestReadFields_MixedBatch verifies that a batch containing both readable
// values and sentinels is serialised as-is with 200 OK.
func TestReadFields_MixedBatch(t *testing.T) {
	batch := []models.FieldResponse{
		{Name: "ssn", Value: service.EncryptedPlaceholder},
		{Name: "phone", Value: "+1 555 0100"},
	}

	fields := &mockFieldService{
		readFieldsFn: func(_ context.Context, _ int64, _ string, _ ...string) ([]models.FieldResponse, error) {
			return batch, nil
		},
	}

	h := newHandlerWithFields(t, fields)
	req := fieldRequest(http.MethodGet, "/api/fields/?names=ssn,phone", "", "")
	rec := httptest.NewRecorder()

	h.readFields(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.FieldsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, batch, resp.Fields)
}

// TestReadFields_UnexpectedError verifies that an unknown error from
// ReadFields maps to 500 Internal Server Error.
func TestReadFields_UnexpectedError(t *testing.T) {
	fields := &mockFieldService{
		readFieldsFn: func(_ context.Context, _ int64, _ string, _ ...string) ([]models.FieldResponse, error) {
			return nil, errors.New("db connection lost")
		},
	}

	h := newHandlerWithFields(t, fields)
	req := fieldRequest(http.MethodGet, "/api/fields/", "", "")
	rec := httptest.NewRecorder()

	h.readFields(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
