package http

import (
	"net/http"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/dto"

	"github.com/go-chi/chi/v5"
)

const (
	msgSignup          = "User registered successfully. Activation email sent."
	msgForgotPassword  = "If the email exists, a reset link has been sent."
	msgPasswordReset   = "Password reset successful."
	msgPasswordChanged = "Password updated."
	msgActivated       = "Account activated successfully."
	msgAlreadyActive   = "Account already activated."
	msgActivationSent  = "Activation email sent."
)

func (d Deps) signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := d.Auth.Signup(r.Context(), req, d.clientIP(r), r.UserAgent())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.SignupResponse{Success: true, Message: msgSignup, User: user})
}

func (d Deps) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := d.Auth.Login(r.Context(), req, d.clientIP(r), r.UserAgent())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (d Deps) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := d.Auth.ForgotPassword(r.Context(), req.Email, d.clientIP(r), r.UserAgent()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: msgForgotPassword})
}

func (d Deps) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := d.Auth.ResetPassword(r.Context(), req, d.clientIP(r), r.UserAgent()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: msgPasswordReset})
}

func (d Deps) changePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := d.Auth.ChangePassword(r.Context(), userID, req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: msgPasswordChanged})
}

func (d Deps) activate(w http.ResponseWriter, r *http.Request) {
	already, err := d.Auth.ActivateAccount(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	msg := msgActivated
	if already {
		msg = msgAlreadyActive
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: msg})
}

func (d Deps) sendActivationEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.SendActivationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	already, err := d.Auth.ResendActivation(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	msg := msgActivationSent
	if already {
		msg = msgAlreadyActive
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: msg})
}

func (d Deps) me(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := d.Auth.Me(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		User *dto.UserResponse `json:"user"`
	}{User: user})
}
