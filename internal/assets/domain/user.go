package domain

import "time"

// User is the credential-store record. Invariant: TwoFactorEnabled implies
// TwoFactorSecret is non-nil. A secret may exist while the flag is false
// during the pending-enrollment window.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string // bcrypt encoded, never the plaintext
	Role         Role

	TwoFactorSecret  *string // base32-encoded TOTP secret (nullable)
	TwoFactorEnabled bool

	ProfileImage *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser is the redacted view of a User safe to serialize. It is
// constructed only from public fields, so the password hash and the TOTP
// secret can never leak through a serialization path that forgets to strip
// them.
type PublicUser struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	ProfileImage     *string   `json:"profileImage,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Redacted returns the serializable view of the user.
func (u User) Redacted() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Role:             u.Role.String(),
		TwoFactorEnabled: u.TwoFactorEnabled,
		ProfileImage:     u.ProfileImage,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
