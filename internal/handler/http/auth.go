package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/utils"
	"github.com/MKhiriev/ai-pills/models"
)

const forgotPasswordDetail = "If the email is registered, a password reset link has been sent."

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, "*Handler.register", &req) {
		return
	}

	user, err := h.services.AuthService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "*Handler.register", err)
		return
	}

	writeJSON(w, r, user.Public(), http.StatusCreated)
}

// login accepts {"login", "password"} where login is an email or a
// username.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, "*Handler.login", &req) {
		return
	}
	h.issueSession(w, r, req)
}

// loginForm is the OAuth2 password-flow variant: form fields username and
// password, where username may also be an email.
func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.loginForm").Msg("invalid form was passed")
		utils.WriteError(w, "invalid form was passed", http.StatusBadRequest)
		return
	}
	h.issueSession(w, r, models.LoginRequest{
		Login:    r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	})
}

func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, req models.LoginRequest) {
	user, token, err := h.services.AuthService.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "*Handler.login", err)
		return
	}

	logger.FromRequest(r).Debug().Str("user_id", user.ID).Msg("user successfully logged in")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.AccessToken))
	writeJSON(w, r, token, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.services.AuthService.Logout(r.Context(), caller(r))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, caller(r).Public(), http.StatusOK)
}

// forgotPassword answers 202 whether or not the email is registered.
func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if !decodeJSON(w, r, "*Handler.forgotPassword", &req) {
		return
	}

	token, err := h.services.AuthService.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, "*Handler.forgotPassword", err)
		return
	}

	writeJSON(w, r, models.ForgotPasswordResponse{Detail: forgotPasswordDetail, ResetToken: token}, http.StatusAccepted)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decodeJSON(w, r, "*Handler.resetPassword", &req) {
		return
	}

	if err := h.services.AuthService.ResetPassword(r.Context(), req); err != nil {
		writeServiceError(w, r, "*Handler.resetPassword", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
