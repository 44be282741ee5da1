package countrybed

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.SyncInterval != DefaultSyncInterval {
		t.Errorf("SyncInterval = %v, want %v", cfg.SyncInterval, DefaultSyncInterval)
	}
	if cfg.HTTPClient == nil || cfg.HTTPClient.Timeout != DefaultHTTPTimeout {
		t.Errorf("HTTPClient = %+v, want timeout %v", cfg.HTTPClient, DefaultHTTPTimeout)
	}
	if cfg.FlagWorkers != 1 {
		t.Errorf("FlagWorkers = %d, want 1", cfg.FlagWorkers)
	}
	if !strings.HasSuffix(cfg.CacheDir, "countrybed") {
		t.Errorf("CacheDir = %q, want a countrybed directory", cfg.CacheDir)
	}
	if cfg.Logger == nil || cfg.Now == nil {
		t.Error("Logger and Now must be set")
	}
}

func TestNewConfig_Options(t *testing.T) {
	hc := &http.Client{Timeout: time.Second}
	logger := zap.NewExample()
	fixed := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	cfg := NewConfig(
		WithBaseURL("http://localhost:8080/v3.1"),
		WithCacheDir("/tmp/cb"),
		WithSyncInterval(time.Hour),
		WithHTTPClient(hc),
		WithFlagWorkers(8),
		WithLogger(logger),
		WithClock(func() time.Time { return fixed }),
	)

	if cfg.BaseURL != "http://localhost:8080/v3.1" || cfg.CacheDir != "/tmp/cb" {
		t.Errorf("BaseURL, CacheDir = %q, %q", cfg.BaseURL, cfg.CacheDir)
	}
	if cfg.SyncInterval != time.Hour || cfg.FlagWorkers != 8 {
		t.Errorf("SyncInterval, FlagWorkers = %v, %d", cfg.SyncInterval, cfg.FlagWorkers)
	}
	if cfg.HTTPClient != hc || cfg.Logger != logger {
		t.Error("HTTPClient or Logger not applied")
	}
	if !cfg.Now().Equal(fixed) {
		t.Errorf("Now() = %v, want %v", cfg.Now(), fixed)
	}
}

func TestNewConfig_Normalize(t *testing.T) {
	cfg := NewConfig(
		WithBaseURL("https://example.test/v3.1//"),
		WithSyncInterval(-time.Minute),
		WithFlagWorkers(0),
		WithHTTPClient(nil),
		WithLogger(nil),
		WithClock(nil),
		WithCacheDir(""),
	)

	if cfg.BaseURL != "https://example.test/v3.1" {
		t.Errorf("BaseURL = %q, want trailing slashes trimmed", cfg.BaseURL)
	}
	if cfg.SyncInterval != DefaultSyncInterval {
		t.Errorf("SyncInterval = %v, want default", cfg.SyncInterval)
	}
	if cfg.FlagWorkers != 1 {
		t.Errorf("FlagWorkers = %d, want 1", cfg.FlagWorkers)
	}
	if cfg.HTTPClient == nil || cfg.Logger == nil || cfg.Now == nil || cfg.CacheDir == "" {
		t.Errorf("zero values not repaired: %+v", cfg)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvBaseURL, "http://mirror.test/v3.1")
	t.Setenv(EnvCacheDir, "/var/cache/cb")
	t.Setenv(EnvSyncInterval, "48h")
	t.Setenv(EnvHTTPTimeout, "5s")
	t.Setenv(EnvFlagWorkers, "4")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv() error = %v", err)
	}
	if cfg.BaseURL != "http://mirror.test/v3.1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.CacheDir != "/var/cache/cb" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.SyncInterval != 48*time.Hour {
		t.Errorf("SyncInterval = %v", cfg.SyncInterval)
	}
	if cfg.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("HTTPClient.Timeout = %v", cfg.HTTPClient.Timeout)
	}
	if cfg.FlagWorkers != 4 {
		t.Errorf("FlagWorkers = %d", cfg.FlagWorkers)
	}

	// Explicit options win over the environment.
	cfg, err = ConfigFromEnv(WithCacheDir("/override"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CacheDir != "/override" {
		t.Errorf("CacheDir = %q, want explicit option to win", cfg.CacheDir)
	}
}

func TestConfigFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		env, value string
	}{
		{EnvSyncInterval, "weekly"},
		{EnvHTTPTimeout, "30"},
		{EnvFlagWorkers, "many"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			_, err := ConfigFromEnv()
			if err == nil {
				t.Fatalf("ConfigFromEnv() with %s=%q: error = nil", tt.env, tt.value)
			}
			if !strings.Contains(err.Error(), tt.env) {
				t.Errorf("error %q does not name %s", err, tt.env)
			}
		})
	}
}
