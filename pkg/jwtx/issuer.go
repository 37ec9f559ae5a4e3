// Package jwtx mints and verifies the HS256-signed access and refresh
// tokens used by the assets service. Tokens are entirely self-contained:
// there is no issuance log and no revocation list, so validity is determined
// purely by signature and expiry.
package jwtx

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed      = errors.New("jwtx: malformed or forged token")
	ErrExpired        = errors.New("jwtx: token expired")
	ErrWrongTokenType = errors.New("jwtx: wrong token type")

	ErrMissingSecret = errors.New("jwtx: access and refresh signing secrets are required")
	ErrSameSecret    = errors.New("jwtx: access and refresh signing secrets must be distinct")
)

var signingMethods = []string{jwt.SigningMethodHS256.Alg()}

// Config carries the signing material and lifetimes for an Issuer. Secrets
// are process-wide configuration loaded once at startup; rotating either
// invalidates every outstanding token signed with the old value.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	AccessTTL     time.Duration // zero means DefaultAccessTokenTTL
	RefreshTTL    time.Duration // zero means DefaultRefreshTokenTTL
}

// Issuer signs and verifies token pairs. Access and refresh tokens use
// distinct secrets so one class of token can never be replayed as the other.
type Issuer struct {
	cfg Config
}

// New validates cfg and returns an Issuer.
func New(cfg Config) (*Issuer, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, ErrMissingSecret
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, ErrSameSecret
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTokenTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTokenTTL
	}
	return &Issuer{cfg: cfg}, nil
}

// AccessTTL reports the configured access token lifetime.
func (i *Issuer) AccessTTL() time.Duration { return i.cfg.AccessTTL }

// ExpiresIn reports the access token lifetime in whole seconds, the value
// returned to clients alongside each token pair.
func (i *Issuer) ExpiresIn() int64 { return int64(i.cfg.AccessTTL.Seconds()) }

// IssueAccessToken signs the identity claims for a user. departmentID is nil
// when the user is responsible for no department.
func (i *Issuer) IssueAccessToken(userID int64, username, email, role string, departmentID *int64) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.cfg.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.AccessTTL)),
			ID:        NewJTI(),
		},
		Username:     username,
		Email:        email,
		Role:         role,
		DepartmentID: departmentID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.AccessSecret)
}

// IssueRefreshToken signs a refresh token for a user id with the refresh
// secret and the "typ" marker.
func (i *Issuer) IssueRefreshToken(userID int64) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.cfg.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.RefreshTTL)),
			ID:        NewJTI(),
		},
		TokenType: RefreshTokenType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.RefreshSecret)
}

// VerifyAccess validates signature, issuer and expiry of an access token and
// returns its claims. Failures are ErrExpired or ErrMalformed.
func (i *Issuer) VerifyAccess(token string) (AccessClaims, error) {
	var claims AccessClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return i.cfg.AccessSecret, nil },
		jwt.WithValidMethods(signingMethods),
		jwt.WithIssuer(i.cfg.Issuer),
	)
	if err != nil {
		return AccessClaims{}, mapJWTError(err)
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token and enforces the refresh type
// marker, failing with ErrWrongTokenType when an access token (or any other
// signed blob) is presented in its place.
func (i *Issuer) VerifyRefresh(token string) (RefreshClaims, error) {
	var claims RefreshClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return i.cfg.RefreshSecret, nil },
		jwt.WithValidMethods(signingMethods),
		jwt.WithIssuer(i.cfg.Issuer),
	)
	if err != nil {
		return RefreshClaims{}, mapJWTError(err)
	}
	if claims.TokenType != RefreshTokenType {
		return RefreshClaims{}, ErrWrongTokenType
	}
	return claims, nil
}

func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrExpired
	}
	return ErrMalformed
}
