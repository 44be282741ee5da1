package countrybed

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Defaults used by NewConfig.
const (
	DefaultBaseURL      = "https://restcountries.com/v3.1"
	DefaultSyncInterval = 7 * 24 * time.Hour
	DefaultHTTPTimeout  = 30 * time.Second
	appDirName          = "countrybed"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBaseURL      = "COUNTRYBED_BASE_URL"
	EnvCacheDir     = "COUNTRYBED_CACHE_DIR"
	EnvSyncInterval = "COUNTRYBED_SYNC_INTERVAL"
	EnvHTTPTimeout  = "COUNTRYBED_HTTP_TIMEOUT"
	EnvFlagWorkers  = "COUNTRYBED_FLAG_WORKERS"
)

// Config is built once at process start and handed to every constructor.
type Config struct {
	BaseURL      string        // REST Countries API root, without trailing slash
	CacheDir     string        // Directory holding countries.json, flags.json, last-synced.txt
	SyncInterval time.Duration // Cache age after which a sync re-fetches
	HTTPClient   *http.Client  // Shared by the fetcher and the flag renderer
	FlagWorkers  int           // Concurrent flag renders; 1 renders sequentially
	Logger       *zap.Logger
	Now          func() time.Time
}

// Option is a functional option for configuring countrybed.
type Option func(*Config)

// WithBaseURL sets the REST Countries API root.
func WithBaseURL(u string) Option {
	return func(c *Config) {
		c.BaseURL = u
	}
}

// WithCacheDir sets the directory for cache files.
func WithCacheDir(dir string) Option {
	return func(c *Config) {
		c.CacheDir = dir
	}
}

// WithSyncInterval sets the staleness threshold.
func WithSyncInterval(d time.Duration) Option {
	return func(c *Config) {
		c.SyncInterval = d
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = hc
	}
}

// WithFlagWorkers bounds the number of concurrent flag renders.
func WithFlagWorkers(n int) Option {
	return func(c *Config) {
		c.FlagWorkers = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// defaultCacheDir returns <user cache dir>/countrybed, falling back to
// the working directory when the platform has no cache dir.
func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", "."+appDirName)
	}
	return filepath.Join(dir, appDirName)
}

func defaultConfig() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		CacheDir:     defaultCacheDir(),
		SyncInterval: DefaultSyncInterval,
		HTTPClient:   &http.Client{Timeout: DefaultHTTPTimeout},
		FlagWorkers:  1,
		Logger:       zap.NewNop(),
		Now:          time.Now,
	}
}

// NewConfig returns the default configuration with opts applied.
//
//	cfg := NewConfig(WithCacheDir("/tmp/countries"), WithSyncInterval(24*time.Hour))
func NewConfig(opts ...Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.normalize()
	return cfg
}

// ConfigFromEnv loads an optional .env file and builds a Config from
// COUNTRYBED_* variables. Explicit opts are applied last and win.
func ConfigFromEnv(opts ...Option) (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	var envOpts []Option
	if v := os.Getenv(EnvBaseURL); v != "" {
		envOpts = append(envOpts, WithBaseURL(v))
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		envOpts = append(envOpts, WithCacheDir(v))
	}
	if v := os.Getenv(EnvSyncInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", EnvSyncInterval, err)
		}
		envOpts = append(envOpts, WithSyncInterval(d))
	}
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", EnvHTTPTimeout, err)
		}
		envOpts = append(envOpts, WithHTTPClient(&http.Client{Timeout: d}))
	}
	if v := os.Getenv(EnvFlagWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", EnvFlagWorkers, err)
		}
		envOpts = append(envOpts, WithFlagWorkers(n))
	}

	return NewConfig(append(envOpts, opts...)...), nil
}

// normalize repairs zero values left by options.
func (c *Config) normalize() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	for len(c.BaseURL) > 0 && c.BaseURL[len(c.BaseURL)-1] == '/' {
		c.BaseURL = c.BaseURL[:len(c.BaseURL)-1]
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir()
	}
	if c.SyncInterval <= 0 {
		c.SyncInterval = DefaultSyncInterval
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	if c.FlagWorkers < 1 {
		c.FlagWorkers = 1
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}
