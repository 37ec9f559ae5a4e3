// Package totpx wraps TOTP secret generation and code verification for the
// two-factor login flow. Codes are the standard 6-digit, 30-second-step
// HMAC-SHA1 variant understood by every authenticator app.
package totpx

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// Period is the TOTP time step in seconds.
	Period = 30

	// SecretSize is the shared secret length in bytes before base32
	// encoding.
	SecretSize = 20

	// LoginSkew accepts codes up to 2 steps either side of now (±60s)
	// during login.
	LoginSkew = 2

	// EnrollSkew is the tighter 1-step window (±30s) used when confirming
	// a freshly enrolled secret.
	EnrollSkew = 1
)

// Key is a generated shared secret plus the otpauth:// enrollment URI that
// authenticator apps scan.
type Key struct {
	Secret        string // base32-encoded
	EnrollmentURI string
}

// Generate produces a cryptographically random shared secret labelled with
// the issuer and account name.
func Generate(issuer, account string) (Key, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Period:      Period,
		SecretSize:  SecretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Key{}, fmt.Errorf("generate totp key: %w", err)
	}
	return Key{Secret: key.Secret(), EnrollmentURI: key.URL()}, nil
}

// Validate checks a submitted 6-digit code against the shared secret,
// accepting codes up to skew steps before or after the current step.
// Invalid codes simply return false.
func Validate(code, secret string, skew uint) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    Period,
		Skew:      skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// CodeAt computes the valid code for a secret at an arbitrary instant.
// Exposed for tests that need codes from neighbouring time steps.
func CodeAt(secret string, t time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, t, totp.ValidateOpts{
		Period:    Period,
		Skew:      0,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
}
