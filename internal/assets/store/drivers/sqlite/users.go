package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, email, password_hash, role,
	two_factor_secret, two_factor_enabled, profile_image, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u       domain.User
		role    string
		secret  sql.NullString
		enabled int64
		image   sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role,
		&secret, &enabled, &image, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	u.TwoFactorSecret = mapNullString(secret)
	u.TwoFactorEnabled = enabled != 0
	u.ProfileImage = mapNullString(image)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	// BINARY collation keeps the match case-sensitive against the stored value.
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, role, two_factor_secret,
			two_factor_enabled, profile_image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, string(u.Role),
		mapOptionalString(u.TwoFactorSecret), boolToInt(u.TwoFactorEnabled),
		mapOptionalString(u.ProfileImage), now, now,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *usersRepo) UpdateUser(ctx context.Context, id int64, username, email string, role domain.Role, profileImage *string) error {
	if profileImage != nil {
		return affecting(r.db.ExecContext(ctx, `
			UPDATE users SET username = ?, email = ?, role = ?, profile_image = ?, updated_at = ?
			WHERE id = ?`,
			username, email, string(role), *profileImage, time.Now().UTC(), id))
	}
	return affecting(r.db.ExecContext(ctx, `
		UPDATE users SET username = ?, email = ?, role = ?, updated_at = ?
		WHERE id = ?`,
		username, email, string(role), time.Now().UTC(), id))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id int64, newHash string) error {
	return affecting(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), id))
}

func (r *usersRepo) TouchUser(ctx context.Context, id int64) error {
	return affecting(r.db.ExecContext(ctx,
		`UPDATE users SET updated_at = ? WHERE id = ?`, time.Now().UTC(), id))
}

func (r *usersRepo) DeleteUser(ctx context.Context, id int64) error {
	return affecting(r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id))
}

func (r *usersRepo) SetTwoFactorSecret(ctx context.Context, id int64, secret string) error {
	return affecting(r.db.ExecContext(ctx,
		`UPDATE users SET two_factor_secret = ?, updated_at = ? WHERE id = ?`,
		secret, time.Now().UTC(), id))
}

// EnableTwoFactor refuses to flip the flag for a user with no stored
// secret; that would break the enabled-implies-secret invariant.
func (r *usersRepo) EnableTwoFactor(ctx context.Context, id int64) error {
	return affecting(r.db.ExecContext(ctx,
		`UPDATE users SET two_factor_enabled = 1, updated_at = ?
		 WHERE id = ? AND two_factor_secret IS NOT NULL`,
		time.Now().UTC(), id))
}

func (r *usersRepo) DisableTwoFactor(ctx context.Context, id int64) error {
	return affecting(r.db.ExecContext(ctx,
		`UPDATE users SET two_factor_enabled = 0, two_factor_secret = NULL, updated_at = ?
		 WHERE id = ?`,
		time.Now().UTC(), id))
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
