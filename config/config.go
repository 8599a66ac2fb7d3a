// Package config loads pcokit settings from the environment, an optional
// .env file and an optional TOML file.
//
// Precedence, lowest first: built-in defaults, the TOML file named by
// PCO_CONFIG_FILE, the .env file, the process environment. Values may be
// secret references (see package secret).
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jonwraymond/pcokit/cache"
	"github.com/jonwraymond/pcokit/secret"
)

// Defaults.
const (
	DefaultBaseURL     = "https://api.planningcenteronline.com"
	DefaultGatewayAddr = ":8080"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultRateLimit   = 5.0 // requests per second
)

var (
	// ErrMissingCredentials means neither app id + secret nor an access token is set.
	ErrMissingCredentials = errors.New("config: PCO_APP_ID and PCO_SECRET are required unless PCO_ACCESS_TOKEN is set")

	// ErrInvalidValue wraps a value that could not be parsed.
	ErrInvalidValue = errors.New("config: invalid value")
)

// Config is the resolved configuration.
type Config struct {
	AppID       string
	Secret      string
	AccessToken string
	BaseURL     string

	CacheTTL  time.Duration
	RedisAddr string

	GatewayAddr string
	JWTSecret   string

	LogLevel        string
	TraceExporter   string
	MetricsExporter string

	// RateLimit is the outbound request budget per second. Zero disables it.
	RateLimit   float64
	HTTPTimeout time.Duration

	// Environment is PCO_ENV; "production" skips the .env file.
	Environment string
}

// UsesToken reports whether requests authenticate with a bearer token.
func (c Config) UsesToken() bool {
	return c.AccessToken != ""
}

// Validate checks required settings.
func (c Config) Validate() error {
	if c.AccessToken == "" && (c.AppID == "" || c.Secret == "") {
		return ErrMissingCredentials
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("%w: PCO_CACHE_TTL must not be negative", ErrInvalidValue)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: PCO_RATE_LIMIT must not be negative", ErrInvalidValue)
	}
	return nil
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		CacheTTL:        cache.DefaultTTL,
		GatewayAddr:     DefaultGatewayAddr,
		LogLevel:        "info",
		TraceExporter:   "none",
		MetricsExporter: "none",
		RateLimit:       DefaultRateLimit,
		HTTPTimeout:     DefaultHTTPTimeout,
	}
}

// fileConfig is the TOML shape. Durations are strings such as "5m".
type fileConfig struct {
	AppID           string   `toml:"app_id"`
	Secret          string   `toml:"secret"`
	AccessToken     string   `toml:"access_token"`
	BaseURL         string   `toml:"base_url"`
	CacheTTL        string   `toml:"cache_ttl"`
	RedisAddr       string   `toml:"redis_addr"`
	GatewayAddr     string   `toml:"gateway_addr"`
	JWTSecret       string   `toml:"jwt_secret"`
	LogLevel        string   `toml:"log_level"`
	TraceExporter   string   `toml:"trace_exporter"`
	MetricsExporter string   `toml:"metrics_exporter"`
	RateLimit       *float64 `toml:"rate_limit"`
	HTTPTimeout     string   `toml:"http_timeout"`
}

// Loader loads a Config.
type Loader struct {
	lookup     func(string) (string, bool)
	dotenvPath string
	resolver   *secret.Resolver
}

// Option configures a Loader.
type Option func(*Loader)

// WithLookup replaces os.LookupEnv. The .env file is not read when a custom
// lookup is set.
func WithLookup(fn func(string) (string, bool)) Option {
	return func(l *Loader) {
		l.lookup = fn
		l.dotenvPath = ""
	}
}

// WithDotenv sets the .env path. Empty disables it.
func WithDotenv(path string) Option {
	return func(l *Loader) { l.dotenvPath = path }
}

// WithResolver sets the secret resolver. Default: secret.DefaultResolver().
func WithResolver(r *secret.Resolver) Option {
	return func(l *Loader) { l.resolver = r }
}

// Load reads configuration using the process environment.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	l := &Loader{
		lookup:     os.LookupEnv,
		dotenvPath: ".env",
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.resolver == nil {
		l.resolver = secret.DefaultResolver()
	}
	return l.Load(ctx)
}

// Load runs the loader.
func (l *Loader) Load(ctx context.Context) (Config, error) {
	cfg := Default()
	env := l.env

	cfg.Environment = env("PCO_ENV")
	if l.dotenvPath != "" && !strings.EqualFold(cfg.Environment, "production") {
		if err := loadDotenv(l.dotenvPath); err != nil {
			return Config{}, err
		}
	}

	if path := env("PCO_CONFIG_FILE"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, err
	}

	if path := env("PCO_AGE_IDENTITY"); path != "" {
		p, err := secret.NewAgeProvider(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: PCO_AGE_IDENTITY: %w", err)
		}
		l.resolver.Register(p)
	}

	err := l.resolver.ResolveFields(ctx, map[string]*string{
		"PCO_APP_ID":       &cfg.AppID,
		"PCO_SECRET":       &cfg.Secret,
		"PCO_ACCESS_TOKEN": &cfg.AccessToken,
		"PCO_JWT_SECRET":   &cfg.JWTSecret,
		"PCO_REDIS_ADDR":   &cfg.RedisAddr,
	})
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (l *Loader) env(key string) string {
	v, _ := l.lookup(key)
	return strings.TrimSpace(v)
}

// loadDotenv loads path without overriding the environment. A missing file
// is not an error.
func loadDotenv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	strs := map[*string]string{
		&cfg.AppID:           fc.AppID,
		&cfg.Secret:          fc.Secret,
		&cfg.AccessToken:     fc.AccessToken,
		&cfg.BaseURL:         fc.BaseURL,
		&cfg.RedisAddr:       fc.RedisAddr,
		&cfg.GatewayAddr:     fc.GatewayAddr,
		&cfg.JWTSecret:       fc.JWTSecret,
		&cfg.LogLevel:        fc.LogLevel,
		&cfg.TraceExporter:   fc.TraceExporter,
		&cfg.MetricsExporter: fc.MetricsExporter,
	}
	for dst, v := range strs {
		if v == "" {
			continue
		}
		expanded, err := secret.ExpandEnvStrict(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", path, err)
		}
		*dst = expanded
	}

	if err := setDuration(&cfg.CacheTTL, "cache_ttl", fc.CacheTTL); err != nil {
		return err
	}
	if err := setDuration(&cfg.HTTPTimeout, "http_timeout", fc.HTTPTimeout); err != nil {
		return err
	}
	if fc.RateLimit != nil {
		cfg.RateLimit = *fc.RateLimit
	}
	return nil
}

func applyEnv(cfg *Config, env func(string) string) error {
	strs := map[string]*string{
		"PCO_APP_ID":           &cfg.AppID,
		"PCO_SECRET":           &cfg.Secret,
		"PCO_ACCESS_TOKEN":     &cfg.AccessToken,
		"PCO_BASE_URL":         &cfg.BaseURL,
		"PCO_REDIS_ADDR":       &cfg.RedisAddr,
		"PCO_GATEWAY_ADDR":     &cfg.GatewayAddr,
		"PCO_JWT_SECRET":       &cfg.JWTSecret,
		"PCO_LOG_LEVEL":        &cfg.LogLevel,
		"PCO_TRACE_EXPORTER":   &cfg.TraceExporter,
		"PCO_METRICS_EXPORTER": &cfg.MetricsExporter,
	}
	for key, dst := range strs {
		if v := env(key); v != "" {
			*dst = v
		}
	}

	if err := setDuration(&cfg.CacheTTL, "PCO_CACHE_TTL", env("PCO_CACHE_TTL")); err != nil {
		return err
	}
	if err := setDuration(&cfg.HTTPTimeout, "PCO_HTTP_TIMEOUT", env("PCO_HTTP_TIMEOUT")); err != nil {
		return err
	}
	if v := env("PCO_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: PCO_RATE_LIMIT=%q", ErrInvalidValue, v)
		}
		cfg.RateLimit = f
	}
	return nil
}

// setDuration parses a Go duration, or a bare integer as milliseconds.
func setDuration(dst *time.Duration, name, v string) error {
	if v == "" {
		return nil
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		*dst = time.Duration(ms) * time.Millisecond
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalidValue, name, v)
	}
	*dst = d
	return nil
}
