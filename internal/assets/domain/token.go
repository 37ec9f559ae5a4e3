package domain

// TokenPair is what a successful login or refresh returns: a short-lived
// signed access token and a longer-lived refresh token. Neither is persisted
// server-side; validity is signature plus expiry.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // access token lifetime in seconds
}

// TwoFactorEnrollment is the pending-secret handout from 2FA setup. The
// secret is not active until the user confirms a code derived from it.
type TwoFactorEnrollment struct {
	Secret        string `json:"secret"`
	EnrollmentURI string `json:"enrollmentURI"`
}
