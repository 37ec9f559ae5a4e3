package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
	"github.com/ReyMursuli/assets-api/internal/assets/store"
	"github.com/ReyMursuli/assets-api/pkg/cryptox"
	"github.com/ReyMursuli/assets-api/pkg/slogx"
)

var (
	ErrInvalidRole  = errors.New("invalid_role")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrMissingField = errors.New("missing_required_field")
	ErrEmailTaken   = errors.New("email_already_registered")
)

type UserService struct {
	Store store.Store
}

// GetByID fetches a user by id.
func (s *UserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// Create hashes the password and inserts a new user. The plaintext password
// must meet the minimum length; the role must be one of the known roles.
func (s *UserService) Create(ctx context.Context, username, email, password, role string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return domain.User{}, ErrMissingField
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, ErrInvalidEmail
	}

	r, ok := domain.ParseRole(role)
	if !ok {
		return domain.User{}, ErrInvalidRole
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	id, err := s.Store.Users().CreateUser(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         r,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return s.GetByID(ctx, id)
}

// Update mutates the profile fields of an existing user. A nil profileImage
// leaves the stored image untouched.
func (s *UserService) Update(ctx context.Context, id int64, username, email, role string, profileImage *string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return domain.User{}, ErrMissingField
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, ErrInvalidEmail
	}

	r, ok := domain.ParseRole(role)
	if !ok {
		return domain.User{}, ErrInvalidRole
	}

	if err := s.Store.Users().UpdateUser(ctx, id, username, email, r, profileImage); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.User{}, ErrUserNotFound
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return s.GetByID(ctx, id)
}

// ChangePassword hashes and replaces a user's password.
func (s *UserService) ChangePassword(ctx context.Context, id int64, newPassword string) error {
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, id, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// Delete removes a user. Departments they were responsible for survive with
// the responsible slot cleared.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.Store.Users().DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// SeedAdmin creates the initial admin account when the user table is empty.
// It is a no-op on a populated database so restarts never duplicate or
// reset the account.
func (s *UserService) SeedAdmin(ctx context.Context, username, email, password string) error {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	var id int64
	seeded := false

	// Empty-check and insert run in one transaction so two racing starts
	// cannot both seed.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return nil
		}

		id, err = tx.Users().CreateUser(ctx, domain.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
		})
		if err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return err
	}

	if seeded {
		l.Info("seeded initial admin user",
			slog.Int64("user_id", id),
			slog.String("email", email),
		)
	}
	return nil
}
