// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/avdeevlv/go-pii-vault/internal/logger"
	"github.com/avdeevlv/go-pii-vault/internal/service"
	"github.com/avdeevlv/go-pii-vault/internal/utils"
	"github.com/avdeevlv/go-pii-vault/internal/validators"
	"github.com/avdeevlv/go-pii-vault/models"
)

// claim handles the first password set on an account. On success the signed
// session token is returned in the Authorization header, same as login.
func (h *Handler) claim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.AccountService.Claim(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			writeError(w, "invalid data provided", http.StatusBadRequest)
			return
		case isPasswordValidationError(err):
			// Password policy violations are the one class of auth error that
			// stays specific and user-actionable.
			log.Err(err).Msg("password rejected by policy")
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrDuplicateAccount):
			log.Err(err).Msg("account already exists")
			writeError(w, service.ErrDuplicateAccount.Error(), http.StatusConflict)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during account claim")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.AccountService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			writeError(w, "invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Err(err).Msg("login rejected")
			writeError(w, service.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during login")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, ok := utils.GetAccountIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	sessionID, _ := utils.GetSessionIDFromContext(ctx)

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	err := h.services.AccountService.ChangePassword(ctx, accountID, sessionID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			writeError(w, "invalid data provided", http.StatusBadRequest)
			return
		case isPasswordValidationError(err):
			log.Err(err).Msg("new password rejected by policy")
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Err(err).Msg("password change rejected")
			writeError(w, service.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
			return
		case errors.Is(err, service.ErrAccountNotClaimed):
			log.Err(err).Msg("password change on unclaimed account")
			writeError(w, service.ErrAccountNotClaimed.Error(), http.StatusConflict)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during password change")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	sessionID, ok := utils.GetSessionIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.AccountService.Logout(ctx, sessionID); err != nil {
		log.Err(err).Msg("unexpected error occurred during logout")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(h.version))
}

// isPasswordValidationError reports whether err is a password policy
// violation, which is surfaced to the caller verbatim.
func isPasswordValidationError(err error) bool {
	return errors.Is(err, validators.ErrPasswordTooShort) ||
		errors.Is(err, validators.ErrPasswordNeedsLetter) ||
		errors.Is(err, validators.ErrPasswordNeedsDigit)
}

// writeError emits the JSON error envelope. Falls back to http.Error when
// serialization fails.
func writeError(w http.ResponseWriter, message string, statusCode int) {
	utils.WriteJSON(w, models.ErrorResponse{Error: message}, statusCode)
}
