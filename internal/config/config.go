// Package config loads process configuration from the environment.
//
// CONFIGURATION PHILOSOPHY:
// Everything is enumerated once at process start and carried in one struct.
// Every setting has a documented default, so an empty environment still
// boots — a missing variable is a warning at most, never a crash. That
// matters for the serverless-style deployments this backend targets, where
// the platform injects configuration and a hard boot failure is opaque.
//
// A .env file in the working directory is loaded first (via godotenv) if one
// exists; real environment variables win over it.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults, kept next to the struct so the README and the code can't drift.
const (
	DefaultPort        = 3000
	DefaultDBPath      = "data/trader.db"
	DefaultEnvironment = "development"

	// DefaultJWTSecret is only acceptable for local development. main.go
	// logs a warning whenever it is in effect.
	DefaultJWTSecret = "secreto-temporal-dev"
)

// Config holds everything the server needs to start.
type Config struct {
	Port        int    // PORT — HTTP listen port
	DBPath      string // DB_PATH — SQLite database file
	JWTSecret   string // JWT_SECRET — HMAC key for bearer tokens
	Environment string // ENVIRONMENT — "development" or "production"

	// SecretDefaulted is true when JWT_SECRET was absent and the development
	// fallback is in use. The caller decides how loudly to complain.
	SecretDefaulted bool
}

// Load reads configuration from .env (optional) and the environment.
//
// The only way Load fails is a PORT value that isn't a number — a typo worth
// stopping for, since the process would otherwise listen somewhere
// unexpected.
func Load() (*Config, error) {
	// Ignore the error: no .env file is the normal case in production.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        DefaultPort,
		DBPath:      getEnv("DB_PATH", DefaultDBPath),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, &InvalidValueError{Variable: "PORT", Value: portStr}
		}
		cfg.Port = port
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = DefaultJWTSecret
		cfg.SecretDefaulted = true
	}

	return cfg, nil
}

// InvalidValueError reports an environment variable that was set but
// unparseable.
type InvalidValueError struct {
	Variable string
	Value    string
}

func (e *InvalidValueError) Error() string {
	return "config: invalid value for " + e.Variable + ": " + strconv.Quote(e.Value)
}

// getEnv returns the variable's value, or def when unset or empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
