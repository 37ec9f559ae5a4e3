package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
	"github.com/ReyMursuli/assets-api/internal/assets/service"
	"github.com/ReyMursuli/assets-api/pkg/cryptox"
	"github.com/ReyMursuli/assets-api/pkg/httpx"
	"github.com/ReyMursuli/assets-api/pkg/slogx"
)

// AuthHandler serves the login, refresh, logout and two-factor endpoints.
type AuthHandler struct {
	AuthService      *service.AuthService
	TwoFactorService *service.TwoFactorService
}

type loginRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	TwoFactorCode string `json:"twoFactorCode"`
}

type tokenResponse struct {
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	User         domain.PublicUser `json:"user"`
	ExpiresIn    int64             `json:"expiresIn"`
}

// HandleLogin handles POST /auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ValidationError("invalid JSON body").Write(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.ValidationError("email and password are required").Write(w)
		return
	}

	res, err := h.AuthService.Login(ctx, req.Email, req.Password, req.TwoFactorCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.Unauthenticated("invalid email or password").Write(w)
		case errors.Is(err, service.ErrInvalidTwoFactorCode):
			httpx.Unauthenticated("invalid two-factor code").Write(w)
		default:
			l.Error("login failed", slog.Any("error", err))
			httpx.Internal().Write(w)
		}
		return
	}

	httpx.NoCache(w)

	if res.RequiresTwoFactor {
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"requiresTwoFactor": true})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		User:         res.User,
		ExpiresIn:    res.Tokens.ExpiresIn,
	})
}

// HandleRefresh handles POST /auth/refresh.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ValidationError("invalid JSON body").Write(w)
		return
	}
	if req.RefreshToken == "" {
		httpx.ValidationError("refreshToken is required").Write(w)
		return
	}

	pair, user, err := h.AuthService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh):
			httpx.Unauthenticated("invalid or expired refresh token").Write(w)
		case errors.Is(err, service.ErrUserNotFound):
			httpx.Unauthenticated("user no longer exists").Write(w)
		default:
			l.Error("refresh failed", slog.Any("error", err))
			httpx.Internal().Write(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// HandleLogout handles POST /auth/logout.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, ok := UserFromContext(ctx)
	if !ok {
		httpx.Unauthenticated("missing bearer token").Write(w)
		return
	}

	if err := h.AuthService.Logout(ctx, u.ID); err != nil {
		httpx.Internal().Write(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleTwoFactorSetup handles POST /auth/2fa/setup.
func (h *AuthHandler) HandleTwoFactorSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	u, ok := UserFromContext(ctx)
	if !ok {
		httpx.Unauthenticated("missing bearer token").Write(w)
		return
	}

	enroll, err := h.TwoFactorService.Setup(ctx, u.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.NotFound("user not found").Write(w)
			return
		}
		l.Error("two-factor setup failed", slog.Int64("user_id", u.ID), slog.Any("error", err))
		httpx.Internal().Write(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, enroll)
}

// HandleTwoFactorVerify handles POST /auth/2fa/verify.
func (h *AuthHandler) HandleTwoFactorVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	u, ok := UserFromContext(ctx)
	if !ok {
		httpx.Unauthenticated("missing bearer token").Write(w)
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ValidationError("invalid JSON body").Write(w)
		return
	}
	if req.Token == "" {
		httpx.ValidationError("token is required").Write(w)
		return
	}

	if err := h.TwoFactorService.Verify(ctx, u.ID, req.Token); err != nil {
		switch {
		case errors.Is(err, service.ErrNoPendingSecret):
			httpx.ValidationError("two-factor setup has not been started").Write(w)
		case errors.Is(err, service.ErrInvalidTwoFactorCode):
			httpx.ValidationError("invalid two-factor code").Write(w)
		case errors.Is(err, service.ErrUserNotFound):
			httpx.NotFound("user not found").Write(w)
		default:
			l.Error("two-factor verify failed", slog.Int64("user_id", u.ID), slog.Any("error", err))
			httpx.Internal().Write(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "two-factor authentication enabled"})
}

// HandleTwoFactorDisable handles POST /auth/2fa/disable.
func (h *AuthHandler) HandleTwoFactorDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	u, ok := UserFromContext(ctx)
	if !ok {
		httpx.Unauthenticated("missing bearer token").Write(w)
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ValidationError("invalid JSON body").Write(w)
		return
	}
	if req.Password == "" {
		httpx.ValidationError("password is required").Write(w)
		return
	}

	if err := h.TwoFactorService.Disable(ctx, u.ID, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, cryptox.ErrMismatch):
			httpx.Unauthenticated("incorrect password").Write(w)
		case errors.Is(err, service.ErrUserNotFound):
			httpx.NotFound("user not found").Write(w)
		default:
			l.Error("two-factor disable failed", slog.Int64("user_id", u.ID), slog.Any("error", err))
			httpx.Internal().Write(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "two-factor authentication disabled"})
}
