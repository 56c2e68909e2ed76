package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/starford/digimark/pkg/config"
)

func TestAuthConfig_SessionMode(t *testing.T) {
	cfg := AuthConfig{Mode: "session"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("session mode should pass: %v", err)
	}
}

func TestAuthConfig_EmptyModeDefaultsSession(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to session: %v", err)
	}
	if cfg.Mode != AuthModeSession {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeSession)
	}
}

func TestAuthConfig_JWTModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "jwt", Secret: "s3cret", TTL: time.Hour}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("jwt mode with secret should pass: %v", err)
	}
}

func TestAuthConfig_JWTModeEmptySecret(t *testing.T) {
	cfg := AuthConfig{Mode: "jwt"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("jwt mode with empty secret should fail")
	}
	if !strings.Contains(err.Error(), "secret is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestStoreConfig(t *testing.T) {
	cases := []struct {
		name    string
		cfg     StoreConfig
		wantErr bool
	}{
		{"memory", StoreConfig{Driver: "memory"}, false},
		{"file", StoreConfig{Driver: "file", Path: "./data"}, false},
		{"file without path", StoreConfig{Driver: "file"}, true},
		{"sqlite without path", StoreConfig{Driver: "sqlite"}, true},
		{"postgres", StoreConfig{Driver: "postgres", DSN: "postgres://localhost/db"}, false},
		{"postgres without dsn", StoreConfig{Driver: "postgres"}, true},
		{"unknown driver", StoreConfig{Driver: "redis", Path: "x"}, true},
		{"empty driver", StoreConfig{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestMetricsConfig(t *testing.T) {
	if err := (&MetricsConfig{Enabled: true}).Validate(); err == nil {
		t.Error("enabled metrics without path should fail")
	}
	if err := (&MetricsConfig{}).Validate(); err != nil {
		t.Errorf("disabled metrics should pass: %v", err)
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "jwt"
	cfg.Auth.Secret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestLoad_YAMLWithEnv(t *testing.T) {
	t.Setenv("DIGIMARK_TEST_SECRET", "from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `app:
  log_level: debug
  http:
    port: 9090
store:
  driver: sqlite
  path: ./digimark.db
auth:
  mode: jwt
  secret: ${DIGIMARK_TEST_SECRET}
  ttl: 12h
metrics:
  enabled: false
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9090 || cfg.App.LogLevel.String() != "DEBUG" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Store.Driver != "sqlite" || !cfg.Store.Watch {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Auth.Secret != "from-env" || cfg.Auth.TTL != 12*time.Hour {
		t.Errorf("auth = %+v", cfg.Auth)
	}
	if cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("metrics = %+v", cfg.Metrics)
	}
}
