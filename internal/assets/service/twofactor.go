package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
	"github.com/ReyMursuli/assets-api/internal/assets/store"
	"github.com/ReyMursuli/assets-api/pkg/cryptox"
	"github.com/ReyMursuli/assets-api/pkg/totpx"
)

var ErrNoPendingSecret = errors.New("no_pending_two_factor_secret")

type TwoFactorService struct {
	Store  store.Store
	Issuer string // issuer name embedded in enrollment URIs
}

// Setup generates a fresh TOTP secret for the user and stores it as
// pending. Two-factor is not active until Verify confirms a code derived
// from this secret. Calling Setup again before verifying replaces the
// pending secret, so only the most recent enrollment URI can complete.
func (s *TwoFactorService) Setup(ctx context.Context, userID int64) (domain.TwoFactorEnrollment, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TwoFactorEnrollment{}, ErrUserNotFound
		}
		return domain.TwoFactorEnrollment{}, err
	}

	key, err := totpx.Generate(s.Issuer, u.Email)
	if err != nil {
		return domain.TwoFactorEnrollment{}, fmt.Errorf("generate totp key: %w", err)
	}

	if err := s.Store.Users().SetTwoFactorSecret(ctx, u.ID, key.Secret); err != nil {
		return domain.TwoFactorEnrollment{}, fmt.Errorf("store totp secret: %w", err)
	}

	return domain.TwoFactorEnrollment{
		Secret:        key.Secret,
		EnrollmentURI: key.EnrollmentURI,
	}, nil
}

// Verify checks a code against the pending secret and, on success, turns
// two-factor on. This is the only path that flips the enabled flag.
// Enrollment uses a tighter tolerance than login: the user has the
// authenticator in hand, so a single step of clock drift is enough.
func (s *TwoFactorService) Verify(ctx context.Context, userID int64, code string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if u.TwoFactorSecret == nil || *u.TwoFactorSecret == "" {
		return ErrNoPendingSecret
	}

	if !totpx.Validate(code, *u.TwoFactorSecret, totpx.EnrollSkew) {
		return ErrInvalidTwoFactorCode
	}

	return s.Store.Users().EnableTwoFactor(ctx, u.ID)
}

// Disable turns two-factor off after re-confirming the account password,
// clearing both the secret and the flag.
func (s *TwoFactorService) Disable(ctx context.Context, userID int64, password string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	return s.Store.Users().DisableTwoFactor(ctx, u.ID)
}
