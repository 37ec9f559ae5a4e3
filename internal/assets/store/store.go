package store

import (
	"context"
	"errors"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Departments() Departments
	Assets() Assets

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByEmail is the login lookup. The match is a case-sensitive
	// exact comparison against the stored value.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns all users ordered by id.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts a new user and returns the generated id. The
	// password hash must already be computed.
	CreateUser(ctx context.Context, u domain.User) (int64, error)

	// UpdateUser mutates profile fields and bumps updated_at. A nil
	// profileImage leaves the stored value untouched.
	UpdateUser(ctx context.Context, id int64, username, email string, role domain.Role, profileImage *string) error

	// UpdatePasswordHash replaces the stored hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, id int64, newHash string) error

	// TouchUser bumps updated_at, used as the last-activity marker on login.
	TouchUser(ctx context.Context, id int64) error

	// DeleteUser removes the user; departments they were responsible for
	// keep existing with responsible_id cleared (per schema).
	DeleteUser(ctx context.Context, id int64) error

	// SetTwoFactorSecret stores a pending TOTP secret without touching the
	// enabled flag. Overwrites any prior pending secret.
	SetTwoFactorSecret(ctx context.Context, id int64, secret string) error

	// EnableTwoFactor flips two_factor_enabled on. The secret must already
	// be stored.
	EnableTwoFactor(ctx context.Context, id int64) error

	// DisableTwoFactor clears both the enabled flag and the secret.
	DisableTwoFactor(ctx context.Context, id int64) error

	// IsEmpty reports whether the user table has no rows (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

type Departments interface {
	GetDepartmentByID(ctx context.Context, id int64) (domain.Department, error)

	// GetDepartmentByResponsible returns the department a user is
	// responsible for, or ErrNotFound when there is none. This is the
	// scoping lookup the authorization middleware performs per request.
	GetDepartmentByResponsible(ctx context.Context, userID int64) (domain.Department, error)

	ListDepartments(ctx context.Context) ([]domain.Department, error)

	CreateDepartment(ctx context.Context, d domain.Department) (int64, error)

	UpdateDepartment(ctx context.Context, id int64, name, code string, responsibleID *int64) error

	// DeleteDepartment removes the department; its assets cascade (per schema).
	DeleteDepartment(ctx context.Context, id int64) error
}

type Assets interface {
	GetAssetByID(ctx context.Context, id int64) (domain.Asset, error)

	ListAssets(ctx context.Context) ([]domain.Asset, error)

	CreateAsset(ctx context.Context, a domain.Asset) (int64, error)

	UpdateAsset(ctx context.Context, a domain.Asset) error

	DeleteAsset(ctx context.Context, id int64) error
}
