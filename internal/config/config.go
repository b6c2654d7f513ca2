// Package config loads the process configuration from the environment.
//
// The Config struct is built once in main and passed explicitly into the
// server — nothing reads ambient globals after startup. In development a
// .env file is honoured (via godotenv); in production the real
// environment is the only source.
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment values for Config.Env.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all runtime configuration. Immutable after Load.
type Config struct {
	// Port the HTTP server listens on.
	Port int
	// DBPath is the SQLite database file path.
	DBPath string
	// JWTSecret signs session tokens. Required; at least 16 characters.
	JWTSecret string
	// CORSOrigin is the single frontend origin allowed to make
	// credentialed cross-origin requests.
	CORSOrigin string
	// Env is "development" or "production". Production turns on Secure
	// and SameSite=None for the session cookie.
	Env string
}

// Load builds the Config from environment variables, reading a .env file
// first when not in production.
//
// Defaults suit local development; JWT_SECRET has no default and Load
// fails without it — starting an auth service with a guessable secret is
// worse than not starting.
func Load() (Config, error) {
	env := getEnv("ENV", EnvDevelopment)
	if env != EnvProduction {
		// Missing .env is fine; the real environment still applies.
		godotenv.Load()
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("config: JWT_SECRET must be set")
	}

	return Config{
		Port:       getEnvInt("PORT", 5000),
		DBPath:     getEnv("DB_PATH", "data/auth.db"),
		JWTSecret:  secret,
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),
		Env:        env,
	}, nil
}

// Production reports whether the service runs with production cookie
// semantics (HTTPS-only, cross-site-eligible cookies).
func (c Config) Production() bool {
	return c.Env == EnvProduction
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
