package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/dto"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/oauth"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/observability/middleware"
)

const maxBodyBytes = 1 << 20

type apiError struct {
	status  int
	code    string
	message string
}

var errServer = apiError{http.StatusInternalServerError, "SERVER_ERROR", "Internal server error."}

// errorTable maps domain sentinels onto the public error codes.
var errorTable = []struct {
	err error
	api apiError
}{
	{domain.ErrInvalidBody, apiError{http.StatusBadRequest, "AUTH_021", "Invalid authentication request body."}},
	{oauth.ErrCodeMissing, apiError{http.StatusBadRequest, "AUTH_021", "Invalid authentication request body."}},
	{domain.ErrDuplicateIdentity, apiError{http.StatusBadRequest, "AUTH_012", "User already exists."}},
	{domain.ErrInvalidCredentials, apiError{http.StatusUnauthorized, "AUTH_001", "Invalid email or password."}},
	{domain.ErrAccountDisabled, apiError{http.StatusForbidden, "AUTH_010", "Account is disabled."}},
	{domain.ErrUnauthorized, apiError{http.StatusUnauthorized, "AUTH_002", "Unauthorized."}},
	{domain.ErrTokenExpired, apiError{http.StatusBadRequest, "AUTH_004", "Token has expired."}},
	{domain.ErrTokenInvalid, apiError{http.StatusBadRequest, "AUTH_003", "Token is invalid."}},
	{domain.ErrActivationTokenInvalid, apiError{http.StatusBadRequest, "AUTH_003", "Invalid or expired activation token."}},
	{domain.ErrResetTokenInvalid, apiError{http.StatusBadRequest, "AUTH_014", "Invalid or expired reset token."}},
	{domain.ErrUserNotFound, apiError{http.StatusNotFound, "AUTH_007", "User not found."}},
	{domain.ErrSocialLoginNoPassword, apiError{http.StatusBadRequest, "AUTH_023", "Cannot change password for social login."}},
	{domain.ErrProviderNotSupported, apiError{http.StatusBadRequest, "AUTH_018", "Authentication provider not supported."}},
	{domain.ErrOAuthStateMismatch, apiError{http.StatusBadRequest, "AUTH_020", "OAuth state mismatch."}},
	{domain.ErrRateLimited, apiError{http.StatusTooManyRequests, "AUTH_019", "Too many requests. Try again later."}},
	{domain.ErrContactNotFound, apiError{http.StatusNotFound, "CONTACT_001", "Contact not found."}},
}

func lookupError(err error) (apiError, bool) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.api, true
		}
	}
	return errServer, false
}

// writeError renders err as the JSON error envelope. Unmapped errors are
// logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	api, known := lookupError(err)
	if !known {
		slog.Error("request failed", append(middleware.LogAttrs(r.Context()),
			"method", r.Method, "path", r.URL.Path, "error", err)...)
	}
	writeAPIError(w, api)
}

func writeAPIError(w http.ResponseWriter, api apiError) {
	writeJSON(w, api.status, dto.ErrorResponse{
		Success: false,
		Error:   dto.ErrorBody{Code: api.code, Message: api.message},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// decodeJSON reads one JSON object into dst; any syntax, type or size
// problem is domain.ErrInvalidBody.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return domain.ErrInvalidBody
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return domain.ErrInvalidBody
	}
	return nil
}
