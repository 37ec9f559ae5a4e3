package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. The access token lifetime is deliberately the
// 1 hour variant; the historical 7 minute lifetime is not used.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = time.Hour

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// RefreshTokenType is the value of the "typ" claim on refresh tokens. A
// refresh token missing it is rejected even when its signature is valid.
const RefreshTokenType = "refresh"

// AccessClaims are the identity claims embedded in an access token. The
// subject carries the numeric user id; the remaining fields mirror the live
// user record at issuance time.
type AccessClaims struct {
	jwt.RegisteredClaims

	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`

	// DepartmentID is the id of the department the user is responsible
	// for, or absent when the user has none.
	DepartmentID *int64 `json:"departmentId,omitempty"`
}

// RefreshClaims carry only the subject and the refresh type marker.
type RefreshClaims struct {
	jwt.RegisteredClaims

	TokenType string `json:"typ"`
}

// UserID parses the numeric user id out of the subject claim.
func (c AccessClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrMalformed
	}
	return id, nil
}

// UserID parses the numeric user id out of the subject claim.
func (c RefreshClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrMalformed
	}
	return id, nil
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
