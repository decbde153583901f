package config

import (
	"errors"
	"testing"
)

// t.Setenv registers a cleanup that restores the old value, so these tests
// don't leak environment state into each other.

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENVIRONMENT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.DBPath != DefaultDBPath {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, DefaultDBPath)
	}
	if cfg.JWTSecret != DefaultJWTSecret {
		t.Errorf("JWTSecret = %q, want the development default", cfg.JWTSecret)
	}
	if !cfg.SecretDefaulted {
		t.Error("SecretDefaulted = false, want true when JWT_SECRET is unset")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("JWT_SECRET", "a-proper-secret-of-decent-length")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8081 {
		t.Errorf("Port = %d, want 8081", cfg.Port)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.SecretDefaulted {
		t.Error("SecretDefaulted = true, want false when JWT_SECRET is set")
	}
	if cfg.Environment != "production" {
		t.Errorf("Environment = %q", cfg.Environment)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail for a non-numeric PORT")
	}

	var ive *InvalidValueError
	if !errors.As(err, &ive) {
		t.Fatalf("error type = %T, want *InvalidValueError", err)
	}
	if ive.Variable != "PORT" {
		t.Errorf("Variable = %q, want PORT", ive.Variable)
	}
}
