package api

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"cfb-poll/internal/domain/user"
	"cfb-poll/internal/platform/apperr"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type authResponse struct {
	User  *user.User `json:"user"`
	Token string     `json:"token"`
}

// @Summary     Register a new account
// @Description Creates an unverified account and emails a verification link.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request  body      registerRequest  true  "Name, email and password (8+ chars)"
// @Success     201      {object}  map[string]any
// @Failure     400      {object}  map[string]string  "invalid input"
// @Failure     409      {object}  map[string]string  "email taken"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/auth/register [post]
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	u, err := h.userSvc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully. Please check your email to verify your account.",
		"user":    u,
	})
}

// @Summary     Sign in
// @Description Returns a JWT and also sets it as an http-only cookie.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request  body      authRequest  true  "Credentials"
// @Success     200      {object}  authResponse
// @Failure     401      {object}  map[string]string  "invalid credentials"
// @Failure     403      {object}  map[string]string  "email not verified"
// @Failure     404      {object}  map[string]string  "email not found"
// @Router      /api/v1/auth/login [post]
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	u, err := h.userSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		errorResponse(w, err)
		return
	}

	token, err := h.jwtMgr.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		errorResponse(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.jwtMgr.TTL() / time.Second),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, authResponse{User: u, Token: token})
}

// @Summary     Sign out
// @Tags        auth
// @Success     204
// @Router      /api/v1/auth/logout [post]
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.clearTokenCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// @Summary     Confirm an email address
// @Description Redirects to the sign-in page with the outcome in the query string.
// @Tags        auth
// @Param       token  query  string  true  "Verification token"
// @Success     302
// @Router      /api/v1/auth/verify-email [get]
func (h *Handler) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	q := url.Values{}
	_, err := h.userSvc.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	switch {
	case err == nil:
		q.Set("verified", "success")
	case errors.Is(err, user.ErrAlreadyVerified):
		q.Set("verified", "already")
	case errors.Is(err, user.ErrInvalidToken):
		q.Set("error", "invalid_token")
	default:
		slogLogger.Error("email verification failed", "error", err)
		q.Set("error", "verification_failed")
	}
	http.Redirect(w, r, h.appURL+"/signin?"+q.Encode(), http.StatusFound)
}

// @Summary     Resend the verification email
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request  body      emailRequest  true  "Account email"
// @Success     200      {object}  messageResponse
// @Failure     400      {object}  map[string]string  "already verified"
// @Failure     404      {object}  map[string]string  "email not found"
// @Router      /api/v1/auth/resend-verification [post]
func (h *Handler) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}
	if err := h.userSvc.ResendVerification(r.Context(), req.Email); err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Verification email sent. Please check your inbox."})
}

// @Summary     Request a password reset link
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request  body      emailRequest  true  "Account email"
// @Success     200      {object}  messageResponse
// @Failure     400      {object}  map[string]string  "email required"
// @Router      /api/v1/auth/forgot-password [post]
func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}
	if err := h.userSvc.ForgotPassword(r.Context(), req.Email); err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "If an account exists for this email, a password reset link has been sent."})
}

// @Summary     Set a new password with a reset token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request  body      resetPasswordRequest  true  "Token and new password"
// @Success     200      {object}  messageResponse
// @Failure     400      {object}  map[string]string  "invalid token or password"
// @Router      /api/v1/auth/reset-password [post]
func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}
	if err := h.userSvc.ResetPassword(r.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Password updated successfully. You can now sign in."})
}
