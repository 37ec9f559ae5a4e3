package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
	"github.com/ReyMursuli/assets-api/internal/assets/store"
	"github.com/ReyMursuli/assets-api/pkg/cryptox"
	"github.com/ReyMursuli/assets-api/pkg/jwtx"
	"github.com/ReyMursuli/assets-api/pkg/slogx"
	"github.com/ReyMursuli/assets-api/pkg/totpx"
)

var (
	ErrInvalidCredentials   = errors.New("invalid_credentials")
	ErrInvalidTwoFactorCode = errors.New("invalid_two_factor_code")
	ErrInvalidRefresh       = errors.New("invalid_refresh_token")
	ErrUserNotFound         = errors.New("user_not_found")
)

// LoginResult is the outcome of a credential check. When the account has
// two-factor enabled and no code was supplied, RequiresTwoFactor is set and
// the token fields are empty: the caller must retry with a code.
type LoginResult struct {
	RequiresTwoFactor bool
	Tokens            domain.TokenPair
	User              domain.PublicUser
}

type AuthService struct {
	Store  store.Store
	Issuer *jwtx.Issuer
}

// Login authenticates a user by email and password, and by TOTP code when
// the account has two-factor enabled.
//
// The password is always verified before the two-factor state is consulted,
// so a caller cannot probe whether an account has 2FA without knowing its
// password. All credential failures collapse into ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password, twoFactorCode string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("password verification failed", slog.Int64("user_id", u.ID))
		return LoginResult{}, ErrInvalidCredentials
	}

	if u.TwoFactorEnabled {
		if twoFactorCode == "" {
			// Password was correct; tell the caller to come back with a code.
			return LoginResult{RequiresTwoFactor: true}, nil
		}
		if u.TwoFactorSecret == nil || !totpx.Validate(twoFactorCode, *u.TwoFactorSecret, totpx.LoginSkew) {
			l.Info("two-factor verification failed", slog.Int64("user_id", u.ID))
			return LoginResult{}, ErrInvalidTwoFactorCode
		}
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return LoginResult{}, err
	}

	// Last-activity marker; a failure here must not fail the login.
	if err := s.Store.Users().TouchUser(ctx, u.ID); err != nil {
		l.Warn("failed to touch user on login", slog.Int64("user_id", u.ID), slog.Any("error", err))
	}

	return LoginResult{Tokens: pair, User: u.Redacted()}, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair. The user
// is re-loaded so the new access token reflects the current role and
// department, not the ones in force when the refresh token was minted.
// Tokens are stateless so the old pair stays valid until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, domain.PublicUser, error) {
	claims, err := s.Issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return domain.TokenPair{}, domain.PublicUser{}, ErrInvalidRefresh
	}

	userID, err := claims.UserID()
	if err != nil {
		return domain.TokenPair{}, domain.PublicUser{}, ErrInvalidRefresh
	}

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, domain.PublicUser{}, ErrUserNotFound
		}
		return domain.TokenPair{}, domain.PublicUser{}, err
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return domain.TokenPair{}, domain.PublicUser{}, err
	}

	return pair, u.Redacted(), nil
}

// Logout is a bookkeeping no-op. Tokens are stateless so there is nothing
// to revoke server-side; clients discard their copies.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	slogx.FromContext(ctx).Info("user logged out", slog.Int64("user_id", userID))
	return nil
}

// DepartmentID resolves the department a user is responsible for, nil when
// there is none.
func (s *AuthService) DepartmentID(ctx context.Context, userID int64) (*int64, error) {
	d, err := s.Store.Departments().GetDepartmentByResponsible(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d.ID, nil
}

func (s *AuthService) issuePair(ctx context.Context, u domain.User) (domain.TokenPair, error) {
	deptID, err := s.DepartmentID(ctx, u.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}

	access, err := s.Issuer.IssueAccessToken(u.ID, u.Username, u.Email, u.Role.String(), deptID)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := s.Issuer.IssueRefreshToken(u.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.Issuer.ExpiresIn(),
	}, nil
}
