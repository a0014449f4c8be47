// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avdeevlv/go-pii-vault/internal/logger"
	"github.com/avdeevlv/go-pii-vault/internal/service"
	"github.com/avdeevlv/go-pii-vault/internal/store"
	"github.com/avdeevlv/go-pii-vault/internal/utils"
	"github.com/avdeevlv/go-pii-vault/models"
)

// writeField stores one PII field value for the authenticated account.
// The response reports whether the write was degraded (stored unencrypted
// because no session data key was available); the request itself never fails
// for lack of a key.
func (h *Handler) writeField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, sessionID, ok := identityFromContext(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")

	var req models.WriteFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	degraded, err := h.services.FieldService.WriteField(ctx, accountID, sessionID, name, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			writeError(w, "invalid data provided", http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during field write")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	utils.WriteJSON(w, models.WriteFieldResponse{Name: name, Degraded: degraded}, http.StatusOK)
}

func (h *Handler) readField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, sessionID, ok := identityFromContext(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")

	value, err := h.services.FieldService.ReadField(ctx, accountID, sessionID, name)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrFieldNotFound):
			log.Err(err).Str("field", name).Msg("field not found")
			writeError(w, store.ErrFieldNotFound.Error(), http.StatusNotFound)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during field read")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	utils.WriteJSON(w, models.FieldResponse{Name: name, Value: value}, http.StatusOK)
}

// readFields reads a batch of fields named in the "names" query parameter
// (comma-separated); with no parameter every field of the account is
// returned. Inaccessible encrypted values come back as the degradation
// sentinel, so the batch never aborts part-way.
func (h *Handler) readFields(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, sessionID, ok := identityFromContext(w, r)
	if !ok {
		return
	}

	var names []string
	if raw := r.URL.Query().Get("names"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}

	fields, err := h.services.FieldService.ReadFields(ctx, accountID, sessionID, names...)
	if err != nil {
		log.Err(err).Msg("unexpected error occurred during batch field read")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, models.FieldsResponse{Fields: fields}, http.StatusOK)
}

// identityFromContext pulls the authenticated account and session from the
// request context, writing 401 when the auth middleware did not run.
func identityFromContext(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return 0, "", false
	}
	sessionID, _ := utils.GetSessionIDFromContext(r.Context())

	return accountID, sessionID, true
}
