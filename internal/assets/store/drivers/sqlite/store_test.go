package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
	"github.com/ReyMursuli/assets-api/internal/assets/store"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func createUser(t *testing.T, s *Store, username, email string, role domain.Role) domain.User {
	t.Helper()
	ctx := context.Background()

	id, err := s.Users().CreateUser(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
	})
	require.NoError(t, err)

	u, err := s.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	return u
}

func TestUsersRepo(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	t.Run("create and fetch round trip", func(t *testing.T) {
		u := createUser(t, s, "alice", "alice@x.com", domain.RoleAdmin)
		require.Equal(t, "alice", u.Username)
		require.Equal(t, domain.RoleAdmin, u.Role)
		require.False(t, u.TwoFactorEnabled)
		require.Nil(t, u.TwoFactorSecret)
		require.False(t, u.CreatedAt.IsZero())

		byEmail, err := s.Users().GetUserByEmail(ctx, "alice@x.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("email lookup is case sensitive", func(t *testing.T) {
		_, err := s.Users().GetUserByEmail(ctx, "ALICE@X.COM")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email violates uniqueness", func(t *testing.T) {
		_, err := s.Users().CreateUser(ctx, domain.User{
			Username: "alice2", Email: "alice@x.com", PasswordHash: "hash", Role: domain.RoleAdmin,
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("duplicate username violates uniqueness", func(t *testing.T) {
		_, err := s.Users().CreateUser(ctx, domain.User{
			Username: "alice", Email: "other@x.com", PasswordHash: "hash", Role: domain.RoleAdmin,
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("update preserves profile image when nil", func(t *testing.T) {
		u := createUser(t, s, "bob", "bob@x.com", domain.RoleResponsible)

		img := "bob.png"
		require.NoError(t, s.Users().UpdateUser(ctx, u.ID, "bob", "bob@x.com", domain.RoleResponsible, &img))
		require.NoError(t, s.Users().UpdateUser(ctx, u.ID, "bobby", "bob@x.com", domain.RoleAdmin, nil))

		after, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "bobby", after.Username)
		require.Equal(t, domain.RoleAdmin, after.Role)
		require.NotNil(t, after.ProfileImage)
		require.Equal(t, "bob.png", *after.ProfileImage)
	})

	t.Run("two-factor lifecycle", func(t *testing.T) {
		u := createUser(t, s, "carol", "carol@x.com", domain.RoleResponsible)

		// Enable without a stored secret is refused.
		require.ErrorIs(t, s.Users().EnableTwoFactor(ctx, u.ID), store.ErrNotFound)

		require.NoError(t, s.Users().SetTwoFactorSecret(ctx, u.ID, "SECRET1"))
		require.NoError(t, s.Users().SetTwoFactorSecret(ctx, u.ID, "SECRET2"))

		mid, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "SECRET2", *mid.TwoFactorSecret)
		require.False(t, mid.TwoFactorEnabled)

		require.NoError(t, s.Users().EnableTwoFactor(ctx, u.ID))

		on, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, on.TwoFactorEnabled)

		require.NoError(t, s.Users().DisableTwoFactor(ctx, u.ID))

		off, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.False(t, off.TwoFactorEnabled)
		require.Nil(t, off.TwoFactorSecret)
	})

	t.Run("touch bumps updated_at", func(t *testing.T) {
		u := createUser(t, s, "dave", "dave@x.com", domain.RoleAdmin)
		time.Sleep(5 * time.Millisecond)

		require.NoError(t, s.Users().TouchUser(ctx, u.ID))

		after, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, after.UpdatedAt.After(u.UpdatedAt))
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, 9999)
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Users().DeleteUser(ctx, 9999), store.ErrNotFound)
		require.ErrorIs(t, s.Users().TouchUser(ctx, 9999), store.ErrNotFound)
		require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, 9999, "h"), store.ErrNotFound)
	})

	t.Run("is empty", func(t *testing.T) {
		empty, err := s.Users().IsEmpty(ctx)
		require.NoError(t, err)
		require.False(t, empty)

		fresh := newStore(t)
		empty, err = fresh.Users().IsEmpty(ctx)
		require.NoError(t, err)
		require.True(t, empty)
	})
}

func TestDepartmentsRepo(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := createUser(t, s, "erin", "erin@x.com", domain.RoleResponsible)

	t.Run("create and responsible lookup", func(t *testing.T) {
		id, err := s.Departments().CreateDepartment(ctx, domain.Department{
			Name: "Engineering", Code: "ENG", ResponsibleID: &u.ID,
		})
		require.NoError(t, err)

		d, err := s.Departments().GetDepartmentByResponsible(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, id, d.ID)
		require.Equal(t, "ENG", d.Code)
	})

	t.Run("no department for user", func(t *testing.T) {
		other := createUser(t, s, "fred", "fred@x.com", domain.RoleResponsible)
		_, err := s.Departments().GetDepartmentByResponsible(ctx, other.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate code rejected", func(t *testing.T) {
		_, err := s.Departments().CreateDepartment(ctx, domain.Department{Name: "Dup", Code: "ENG"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("deleting the responsible user clears the slot", func(t *testing.T) {
		owner := createUser(t, s, "gus", "gus@x.com", domain.RoleResponsible)
		id, err := s.Departments().CreateDepartment(ctx, domain.Department{
			Name: "Ops", Code: "OPS", ResponsibleID: &owner.ID,
		})
		require.NoError(t, err)

		require.NoError(t, s.Users().DeleteUser(ctx, owner.ID))

		d, err := s.Departments().GetDepartmentByID(ctx, id)
		require.NoError(t, err)
		require.Nil(t, d.ResponsibleID)
	})

	t.Run("update and delete", func(t *testing.T) {
		id, err := s.Departments().CreateDepartment(ctx, domain.Department{Name: "Temp", Code: "TMP"})
		require.NoError(t, err)

		require.NoError(t, s.Departments().UpdateDepartment(ctx, id, "Renamed", "RNM", nil))

		d, err := s.Departments().GetDepartmentByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "Renamed", d.Name)

		require.NoError(t, s.Departments().DeleteDepartment(ctx, id))
		_, err = s.Departments().GetDepartmentByID(ctx, id)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestAssetsRepo(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	deptID, err := s.Departments().CreateDepartment(ctx, domain.Department{Name: "Lab", Code: "LAB"})
	require.NoError(t, err)

	t.Run("create and fetch", func(t *testing.T) {
		id, err := s.Assets().CreateAsset(ctx, domain.Asset{
			Name:         "Microscope",
			Code:         "MIC-1",
			Label:        "optics",
			InitialValue: 1200.50,
			DepartmentID: &deptID,
		})
		require.NoError(t, err)

		a, err := s.Assets().GetAssetByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "Microscope", a.Name)
		require.Equal(t, 1200.50, a.InitialValue)
		require.Equal(t, deptID, *a.DepartmentID)
	})

	t.Run("update", func(t *testing.T) {
		id, err := s.Assets().CreateAsset(ctx, domain.Asset{Name: "Bench", Code: "BN-1"})
		require.NoError(t, err)

		a, err := s.Assets().GetAssetByID(ctx, id)
		require.NoError(t, err)
		a.ResidualValue = 50
		a.DepartmentID = &deptID
		require.NoError(t, s.Assets().UpdateAsset(ctx, a))

		after, err := s.Assets().GetAssetByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, 50.0, after.ResidualValue)
		require.Equal(t, deptID, *after.DepartmentID)
	})

	t.Run("department delete cascades", func(t *testing.T) {
		doomedDept, err := s.Departments().CreateDepartment(ctx, domain.Department{Name: "Doomed", Code: "DMD"})
		require.NoError(t, err)

		id, err := s.Assets().CreateAsset(ctx, domain.Asset{Name: "Desk", Code: "DK-1", DepartmentID: &doomedDept})
		require.NoError(t, err)

		require.NoError(t, s.Departments().DeleteDepartment(ctx, doomedDept))

		_, err = s.Assets().GetAssetByID(ctx, id)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list ordering", func(t *testing.T) {
		assets, err := s.Assets().ListAssets(ctx)
		require.NoError(t, err)
		for i := 1; i < len(assets); i++ {
			require.Less(t, assets[i-1].ID, assets[i].ID)
		}
	})
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	t.Run("rollback on error", func(t *testing.T) {
		sentinel := errors.New("boom")
		err := s.WithTx(ctx, func(tx store.Tx) error {
			_, err := tx.Users().CreateUser(ctx, domain.User{
				Username: "tmp", Email: "tmp@x.com", PasswordHash: "hash", Role: domain.RoleAdmin,
			})
			require.NoError(t, err)
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		_, err = s.Users().GetUserByEmail(ctx, "tmp@x.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("commit on success", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			_, err := tx.Users().CreateUser(ctx, domain.User{
				Username: "kept", Email: "kept@x.com", PasswordHash: "hash", Role: domain.RoleAdmin,
			})
			return err
		})
		require.NoError(t, err)

		_, err = s.Users().GetUserByEmail(ctx, "kept@x.com")
		require.NoError(t, err)
	})
}
