package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/ReyMursuli/assets-api/pkg/jwtx"
)

type Config struct {
	Issuer        string // Issuer claim for tokens (default: assets-api)
	AccessSecret  string // Required: HMAC secret for access tokens
	RefreshSecret string // Required: HMAC secret for refresh tokens, must differ

	AccessTokenTTL  time.Duration // Access token lifetime (default: 1h)
	RefreshTokenTTL time.Duration // Refresh token lifetime (default: 168h)

	DatabaseFile        string        // Path to SQLite database file (default: ./assets.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	// Optional bootstrap seed. When both email and password are set and the
	// user table is empty, an admin account is created at startup.
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

var (
	ErrMissingJWTSecret        = errors.New("JWT_SECRET is required")
	ErrMissingJWTRefreshSecret = errors.New("JWT_REFRESH_SECRET is required")
	ErrSameJWTSecrets          = errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ")
)

func LoadConfig() (Config, error) {
	cfg := Config{
		Issuer:              getEnvOrDefault("AUTH_ISSUER", "assets-api"),
		AccessSecret:        os.Getenv("JWT_SECRET"),
		RefreshSecret:       os.Getenv("JWT_REFRESH_SECRET"),
		AccessTokenTTL:      getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL:     getEnvDurationOrDefault("REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "assets.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		AdminUsername:       getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminEmail:          os.Getenv("ADMIN_EMAIL"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.AccessSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}
	if cfg.RefreshSecret == "" {
		return Config{}, ErrMissingJWTRefreshSecret
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return Config{}, ErrSameJWTSecrets
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are read as hours for convenience.
	if hours, err := strconv.Atoi(value); err == nil {
		return time.Duration(hours) * time.Hour
	}

	return defaultValue
}
