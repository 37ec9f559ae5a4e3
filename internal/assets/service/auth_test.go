package service

import (
	"context"
	"testing"
	"time"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
	"github.com/ReyMursuli/assets-api/internal/assets/store"
	"github.com/ReyMursuli/assets-api/internal/assets/store/drivers/sqlite"
	"github.com/ReyMursuli/assets-api/pkg/cryptox"
	"github.com/ReyMursuli/assets-api/pkg/jwtx"
	"github.com/ReyMursuli/assets-api/pkg/totpx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestIssuer(t *testing.T) *jwtx.Issuer {
	t.Helper()

	issuer, err := jwtx.New(jwtx.Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		Issuer:        "assets-api-test",
	})
	require.NoError(t, err)
	return issuer
}

func seedUser(t *testing.T, s store.Store, username, email, password string, role domain.Role) domain.User {
	t.Helper()
	ctx := context.Background()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	id, err := s.Users().CreateUser(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	require.NoError(t, err)

	u, err := s.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	return u
}

func TestLoginWithoutTwoFactor(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &AuthService{Store: s, Issuer: newTestIssuer(t)}

	u := seedUser(t, s, "alice", "alice@x.com", "secret1", domain.RoleAdmin)

	t.Run("valid credentials issue both tokens", func(t *testing.T) {
		res, err := svc.Login(ctx, "alice@x.com", "secret1", "")
		require.NoError(t, err)
		require.False(t, res.RequiresTwoFactor)
		require.NotEmpty(t, res.Tokens.AccessToken)
		require.NotEmpty(t, res.Tokens.RefreshToken)
		require.EqualValues(t, 3600, res.Tokens.ExpiresIn)
		require.Equal(t, u.ID, res.User.ID)
		require.Equal(t, "alice", res.User.Username)

		claims, err := svc.Issuer.VerifyAccess(res.Tokens.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "admin", claims.Role)
		require.Equal(t, "alice@x.com", claims.Email)
		require.Nil(t, claims.DepartmentID)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@x.com", "wrong", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email rejected with same error", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@x.com", "secret1", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("email match is exact", func(t *testing.T) {
		_, err := svc.Login(ctx, "ALICE@X.COM", "secret1", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginWithTwoFactor(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &AuthService{Store: s, Issuer: newTestIssuer(t)}

	u := seedUser(t, s, "bob", "bob@x.com", "secret2", domain.RoleResponsible)

	key, err := totpx.Generate("assets-api-test", u.Email)
	require.NoError(t, err)
	require.NoError(t, s.Users().SetTwoFactorSecret(ctx, u.ID, key.Secret))
	require.NoError(t, s.Users().EnableTwoFactor(ctx, u.ID))

	t.Run("password alone yields requiresTwoFactor and no tokens", func(t *testing.T) {
		res, err := svc.Login(ctx, "bob@x.com", "secret2", "")
		require.NoError(t, err)
		require.True(t, res.RequiresTwoFactor)
		require.Empty(t, res.Tokens.AccessToken)
		require.Empty(t, res.Tokens.RefreshToken)
	})

	t.Run("current code completes the login", func(t *testing.T) {
		code, err := totpx.CodeAt(key.Secret, time.Now())
		require.NoError(t, err)

		res, err := svc.Login(ctx, "bob@x.com", "secret2", code)
		require.NoError(t, err)
		require.False(t, res.RequiresTwoFactor)
		require.NotEmpty(t, res.Tokens.AccessToken)
	})

	t.Run("code within tolerance accepted", func(t *testing.T) {
		code, err := totpx.CodeAt(key.Secret, time.Now().Add(-2*totpx.Period*time.Second))
		require.NoError(t, err)

		_, err = svc.Login(ctx, "bob@x.com", "secret2", code)
		require.NoError(t, err)
	})

	t.Run("stale code rejected", func(t *testing.T) {
		code, err := totpx.CodeAt(key.Secret, time.Now().Add(-5*totpx.Period*time.Second))
		require.NoError(t, err)

		_, err = svc.Login(ctx, "bob@x.com", "secret2", code)
		require.ErrorIs(t, err, ErrInvalidTwoFactorCode)
	})

	t.Run("wrong password fails before two-factor is consulted", func(t *testing.T) {
		_, err := svc.Login(ctx, "bob@x.com", "wrong", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginIncludesDepartmentClaim(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &AuthService{Store: s, Issuer: newTestIssuer(t)}

	u := seedUser(t, s, "carol", "carol@x.com", "secret3", domain.RoleResponsible)

	deptID, err := s.Departments().CreateDepartment(ctx, domain.Department{
		Name:          "Engineering",
		Code:          "ENG",
		ResponsibleID: &u.ID,
	})
	require.NoError(t, err)

	res, err := svc.Login(ctx, "carol@x.com", "secret3", "")
	require.NoError(t, err)

	claims, err := svc.Issuer.VerifyAccess(res.Tokens.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, claims.DepartmentID)
	require.Equal(t, deptID, *claims.DepartmentID)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &AuthService{Store: s, Issuer: newTestIssuer(t)}

	u := seedUser(t, s, "dave", "dave@x.com", "secret4", domain.RoleResponsible)

	res, err := svc.Login(ctx, "dave@x.com", "secret4", "")
	require.NoError(t, err)

	t.Run("valid refresh issues a new pair", func(t *testing.T) {
		pair, pub, err := svc.Refresh(ctx, res.Tokens.RefreshToken)
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
		require.Equal(t, u.ID, pub.ID)
	})

	t.Run("access token is not accepted as a refresh token", func(t *testing.T) {
		_, _, err := svc.Refresh(ctx, res.Tokens.AccessToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, _, err := svc.Refresh(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("new access token observes a role change", func(t *testing.T) {
		require.NoError(t, s.Users().UpdateUser(ctx, u.ID, u.Username, u.Email, domain.RoleAdmin, nil))

		pair, _, err := svc.Refresh(ctx, res.Tokens.RefreshToken)
		require.NoError(t, err)

		claims, err := svc.Issuer.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "admin", claims.Role)
	})

	t.Run("deleted user can no longer refresh", func(t *testing.T) {
		require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

		_, _, err := svc.Refresh(ctx, res.Tokens.RefreshToken)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestLoginTouchesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &AuthService{Store: s, Issuer: newTestIssuer(t)}

	u := seedUser(t, s, "erin", "erin@x.com", "secret5", domain.RoleAdmin)

	time.Sleep(10 * time.Millisecond)

	_, err := svc.Login(ctx, "erin@x.com", "secret5", "")
	require.NoError(t, err)

	after, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, after.UpdatedAt.After(u.UpdatedAt))
}
