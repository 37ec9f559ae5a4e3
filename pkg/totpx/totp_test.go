package totpx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	key, err := Generate("Assets API", "alice@x.com")
	require.NoError(t, err)

	// 20 random bytes base32-encode to 32 characters.
	require.Len(t, key.Secret, 32)
	require.True(t, strings.HasPrefix(key.EnrollmentURI, "otpauth://totp/"))
	require.Contains(t, key.EnrollmentURI, "issuer=Assets")
	require.Contains(t, key.EnrollmentURI, "alice%40x.com")

	other, err := Generate("Assets API", "alice@x.com")
	require.NoError(t, err)
	require.NotEqual(t, key.Secret, other.Secret)
}

func TestValidateCurrentCode(t *testing.T) {
	t.Parallel()

	key, err := Generate("Assets API", "alice@x.com")
	require.NoError(t, err)

	code, err := CodeAt(key.Secret, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, code, 6)

	require.True(t, Validate(code, key.Secret, LoginSkew))
	require.True(t, Validate(code, key.Secret, EnrollSkew))

	// Flip one digit to produce a code that cannot match any step.
	wrong := flipDigit(code)
	require.False(t, Validate(wrong, key.Secret, LoginSkew))
}

func flipDigit(code string) string {
	b := []byte(code)
	b[0] = '0' + (b[0]-'0'+1)%10
	return string(b)
}

func TestValidateToleranceWindow(t *testing.T) {
	t.Parallel()

	key, err := Generate("Assets API", "alice@x.com")
	require.NoError(t, err)

	now := time.Now().UTC()

	// A code from 2 steps ago is inside the login window.
	stale, err := CodeAt(key.Secret, now.Add(-2*Period*time.Second))
	require.NoError(t, err)
	require.True(t, Validate(stale, key.Secret, LoginSkew))

	// A code from 4 steps ago is outside any window this service uses.
	ancient, err := CodeAt(key.Secret, now.Add(-4*Period*time.Second))
	require.NoError(t, err)
	require.False(t, Validate(ancient, key.Secret, LoginSkew))
}

func TestValidateRejectsGarbage(t *testing.T) {
	t.Parallel()

	key, err := Generate("Assets API", "alice@x.com")
	require.NoError(t, err)

	require.False(t, Validate("", key.Secret, LoginSkew))
	require.False(t, Validate("12345", key.Secret, LoginSkew))
	require.False(t, Validate("abcdef", key.Secret, LoginSkew))
}
