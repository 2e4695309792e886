package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("Backend.URL = %q, want http://localhost:8000", cfg.Backend.URL)
	}
	if cfg.Session.Store != SessionStoreMemory {
		t.Errorf("Session.Store = %q, want memory", cfg.Session.Store)
	}
	if cfg.UI.ConnectivityTestURL != "/test" {
		t.Errorf("UI.ConnectivityTestURL = %q, want /test", cfg.UI.ConnectivityTestURL)
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: "9090"
backend:
  url: "http://results.internal:8000/"
  timeout: "5s"
cors:
  allowed_origins: ["http://a.example"]
redis:
  db: 3
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("REDIS_DB", "4")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://b.example, http://c.example")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Server.Port = %q, want env override 7070", cfg.Server.Port)
	}
	if cfg.Redis.DB != 4 {
		t.Errorf("Redis.DB = %d, want 4", cfg.Redis.DB)
	}
	if cfg.Backend.Timeout != "5s" {
		t.Errorf("Backend.Timeout = %q, want 5s", cfg.Backend.Timeout)
	}
	if got := cfg.BackendBaseURL(); got != "http://results.internal:8000" {
		t.Errorf("BackendBaseURL() = %q", got)
	}
	want := []string{"http://b.example", "http://c.example"}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.CORS.AllowedOrigins, want)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"relative backend url", "BACKEND_URL", "/api"},
		{"bad timeout", "BACKEND_TIMEOUT", "soon"},
		{"unknown store", "SESSION_STORE", "disk"},
		{"bad ttl", "SESSION_TTL", "forever"},
		{"bad redis db", "REDIS_DB", "one"},
		{"cors origin without scheme", "CORS_ALLOWED_ORIGINS", "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
				t.Fatalf("LoadConfig() with %s=%q: expected error", tt.key, tt.val)
			}
		})
	}
}
