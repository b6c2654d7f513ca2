package config

import "testing"

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail without JWT_SECRET")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("ENV", EnvProduction) // skip .env so only the test env applies

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want 5000", cfg.Port)
	}
	if cfg.DBPath != "data/auth.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "data/auth.db")
	}
	if cfg.CORSOrigin != "http://localhost:5173" {
		t.Errorf("CORSOrigin = %q, want %q", cfg.CORSOrigin, "http://localhost:5173")
	}
	if !cfg.Production() {
		t.Error("Production() = false, want true when ENV=production")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("ENV", EnvProduction)
	t.Setenv("PORT", "8081")
	t.Setenv("DB_PATH", "/var/lib/auth/prod.db")
	t.Setenv("CORS_ORIGIN", "https://app.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8081 {
		t.Errorf("Port = %d, want 8081", cfg.Port)
	}
	if cfg.DBPath != "/var/lib/auth/prod.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.CORSOrigin != "https://app.example.com" {
		t.Errorf("CORSOrigin = %q", cfg.CORSOrigin)
	}
}

func TestLoad_InvalidPortFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("ENV", EnvProduction)
	t.Setenv("PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want default 5000 for invalid value", cfg.Port)
	}
}
