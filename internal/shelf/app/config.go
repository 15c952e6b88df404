package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/catalog"
	"github.com/aussiebroadwan/shelf/pkg/jwtx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	HasherArgon2id = "argon2id"
	HasherBcrypt   = "bcrypt"
)

type Config struct {
	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // SQLite database file (default: ./shelf.db)
	DatabaseURL    string // Postgres connection URL, required for the postgres driver

	JWTSecret       string        // Optional: raw or base64url HMAC secret, wins over JWTSecretFile
	JWTSecretFile   string        // Secret file, generated when missing (default: ./jwt.secret)
	JWTIssuer       string        // iss claim (default: shelf)
	AccessTokenTTL  time.Duration // default: 24h
	RefreshTokenTTL time.Duration // default: 168h

	PasswordHasher string // argon2id or bcrypt (default: argon2id)
	PepperFile     string // argon2id pepper, generated when missing (default: ./pepper)
	CookieSecure   bool   // Secure attribute on the refresh cookie (default: true)

	CatalogURL     string        // Google Books volumes endpoint
	CatalogAPIKey  string        // Optional
	CatalogTimeout time.Duration // default: 10s

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired session sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		DatabaseDriver: strings.ToLower(getEnvOrDefault("SHELF_DATABASE_DRIVER", DriverSQLite)),
		DatabaseFile:   getEnvOrDefault("SHELF_DATABASE_FILE", "shelf.db"),
		DatabaseURL:    os.Getenv("SHELF_DATABASE_URL"),

		JWTSecret:       os.Getenv("SHELF_JWT_SECRET"),
		JWTSecretFile:   getEnvOrDefault("SHELF_JWT_SECRET_FILE", "jwt.secret"),
		JWTIssuer:       getEnvOrDefault("SHELF_JWT_ISSUER", "shelf"),
		AccessTokenTTL:  getEnvDurationOrDefault("SHELF_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("SHELF_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),

		PasswordHasher: strings.ToLower(getEnvOrDefault("SHELF_PASSWORD_HASHER", HasherArgon2id)),
		PepperFile:     getEnvOrDefault("SHELF_PEPPER_FILE", "pepper"),
		CookieSecure:   getEnvBoolOrDefault("SHELF_COOKIE_SECURE", true),

		CatalogURL:     getEnvOrDefault("GOOGLE_BOOKS_API_URL", catalog.DefaultBaseURL),
		CatalogAPIKey:  os.Getenv("GOOGLE_BOOKS_API_KEY"),
		CatalogTimeout: getEnvDurationOrDefault("GOOGLE_BOOKS_TIMEOUT", 10*time.Second),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Validate catches settings that would only fail later, at first use.
func (c Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("SHELF_DATABASE_FILE is empty"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("SHELF_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.DatabaseDriver))
	}

	switch c.PasswordHasher {
	case HasherArgon2id, HasherBcrypt:
	default:
		errs = append(errs, fmt.Errorf("unknown password hasher %q", c.PasswordHasher))
	}

	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("SHELF_ACCESS_TOKEN_TTL must be positive"))
	}
	if c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("SHELF_REFRESH_TOKEN_TTL must be positive"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}

	return errors.Join(errs...)
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// "1h", "30m", "90s"
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
