package service

import (
	"context"
	"testing"
	"time"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
	"github.com/ReyMursuli/assets-api/pkg/totpx"
	"github.com/stretchr/testify/require"
)

func TestTwoFactorEnrollment(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &TwoFactorService{Store: s, Issuer: "assets-api-test"}
	auth := &AuthService{Store: s, Issuer: newTestIssuer(t)}

	u := seedUser(t, s, "frank", "frank@x.com", "secret6", domain.RoleResponsible)

	t.Run("setup stores a pending secret without enabling", func(t *testing.T) {
		enroll, err := svc.Setup(ctx, u.ID)
		require.NoError(t, err)
		require.NotEmpty(t, enroll.Secret)
		require.Contains(t, enroll.EnrollmentURI, "otpauth://totp/")
		require.Contains(t, enroll.EnrollmentURI, "frank%40x.com")

		stored, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.False(t, stored.TwoFactorEnabled)
		require.NotNil(t, stored.TwoFactorSecret)
		require.Equal(t, enroll.Secret, *stored.TwoFactorSecret)

		// Login stays single-factor until the secret is confirmed.
		res, err := auth.Login(ctx, "frank@x.com", "secret6", "")
		require.NoError(t, err)
		require.False(t, res.RequiresTwoFactor)
		require.NotEmpty(t, res.Tokens.AccessToken)
	})

	t.Run("second setup replaces the pending secret", func(t *testing.T) {
		first, err := svc.Setup(ctx, u.ID)
		require.NoError(t, err)
		second, err := svc.Setup(ctx, u.ID)
		require.NoError(t, err)
		require.NotEqual(t, first.Secret, second.Secret)

		staleCode, err := totpx.CodeAt(first.Secret, time.Now())
		require.NoError(t, err)
		require.ErrorIs(t, svc.Verify(ctx, u.ID, staleCode), ErrInvalidTwoFactorCode)

		code, err := totpx.CodeAt(second.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.Verify(ctx, u.ID, code))

		stored, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, stored.TwoFactorEnabled)
	})

	t.Run("enabled account now demands a code at login", func(t *testing.T) {
		res, err := auth.Login(ctx, "frank@x.com", "secret6", "")
		require.NoError(t, err)
		require.True(t, res.RequiresTwoFactor)
		require.Empty(t, res.Tokens.AccessToken)
	})
}

func TestTwoFactorVerifyGuards(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &TwoFactorService{Store: s, Issuer: "assets-api-test"}

	u := seedUser(t, s, "grace", "grace@x.com", "secret7", domain.RoleAdmin)

	t.Run("verify without setup", func(t *testing.T) {
		require.ErrorIs(t, svc.Verify(ctx, u.ID, "123456"), ErrNoPendingSecret)
	})

	t.Run("verify with a wrong code", func(t *testing.T) {
		_, err := svc.Setup(ctx, u.ID)
		require.NoError(t, err)
		require.ErrorIs(t, svc.Verify(ctx, u.ID, "000000"), ErrInvalidTwoFactorCode)

		stored, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.False(t, stored.TwoFactorEnabled)
	})

	t.Run("verify uses the tight enrollment window", func(t *testing.T) {
		enroll, err := svc.Setup(ctx, u.ID)
		require.NoError(t, err)

		code, err := totpx.CodeAt(enroll.Secret, time.Now().Add(-3*totpx.Period*time.Second))
		require.NoError(t, err)
		require.ErrorIs(t, svc.Verify(ctx, u.ID, code), ErrInvalidTwoFactorCode)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Setup(ctx, 9999)
		require.ErrorIs(t, err, ErrUserNotFound)
		require.ErrorIs(t, svc.Verify(ctx, 9999, "123456"), ErrUserNotFound)
	})
}

func TestTwoFactorDisable(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &TwoFactorService{Store: s, Issuer: "assets-api-test"}
	auth := &AuthService{Store: s, Issuer: newTestIssuer(t)}

	u := seedUser(t, s, "heidi", "heidi@x.com", "secret8", domain.RoleAdmin)

	enroll, err := svc.Setup(ctx, u.ID)
	require.NoError(t, err)
	code, err := totpx.CodeAt(enroll.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Verify(ctx, u.ID, code))

	t.Run("wrong password leaves two-factor on", func(t *testing.T) {
		require.ErrorIs(t, svc.Disable(ctx, u.ID, "wrong"), ErrInvalidCredentials)

		stored, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, stored.TwoFactorEnabled)
	})

	t.Run("correct password clears flag and secret", func(t *testing.T) {
		require.NoError(t, svc.Disable(ctx, u.ID, "secret8"))

		stored, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.False(t, stored.TwoFactorEnabled)
		require.Nil(t, stored.TwoFactorSecret)

		res, err := auth.Login(ctx, "heidi@x.com", "secret8", "")
		require.NoError(t, err)
		require.False(t, res.RequiresTwoFactor)
		require.NotEmpty(t, res.Tokens.AccessToken)
	})
}
