package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/middleware"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleVerifyRequest struct {
	IDToken string `json:"id_token"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userDTO   `json:"user"`
}

func (a *App) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decode(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email and password required")
		return
	}
	u, err := a.Users.GetByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		a.fail(w, r, err)
		return
	}
	if u == nil || !middleware.CheckPassword(u.PasswordHash, req.Password) {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}
	a.issueToken(w, r, u)
}

// AuthGoogleVerify exchanges a Google ID token for a session token. Only
// existing back-office users may sign in this way.
func (a *App) AuthGoogleVerify(w http.ResponseWriter, r *http.Request) {
	if a.Google == nil || !a.Google.Enabled() {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "google sign-in is not configured")
		return
	}
	var req googleVerifyRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.IDToken == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id_token required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	claims, err := a.Google.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("google verify failed")
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid google token")
		return
	}
	u, err := a.Users.GetByEmail(r.Context(), strings.ToLower(claims.Email))
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusForbidden, "forbidden", "no back-office account for this email")
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !u.Role.CanManageContent() {
		a.error(w, http.StatusForbidden, "forbidden", "insufficient role")
		return
	}
	a.issueToken(w, r, u)
}

func (a *App) issueToken(w http.ResponseWriter, r *http.Request, u *domain.User) {
	token, exp, err := middleware.SignToken(a.JWTSecret, *u, a.now())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("user signed in")
	a.json(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: exp, User: toUserDTO(u)})
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := a.currentUser(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	u, err := a.Users.GetByID(r.Context(), p.UserID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toUserDTO(u))
}
