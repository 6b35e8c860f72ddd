// Package config loads server configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration
type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"databaseURL"`
	LogLevel    string `yaml:"logLevel"`

	Clerk ClerkConfig `yaml:"clerk"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`

	RateLimitRequests int    `yaml:"rateLimitRequests"`
	RateLimitWindow   string `yaml:"rateLimitWindow"`

	CORSAllowedOrigins []string `yaml:"corsAllowedOrigins"`

	DBMaxOpenConns int `yaml:"dbMaxOpenConns"`
	DBMaxIdleConns int `yaml:"dbMaxIdleConns"`
}

// ClerkConfig holds identity provider settings
type ClerkConfig struct {
	Issuer            string   `yaml:"issuer"`
	JWKSURL           string   `yaml:"jwksURL"`
	SecretKey         string   `yaml:"secretKey"`
	APIURL            string   `yaml:"apiURL"`
	PublishableKey    string   `yaml:"publishableKey"`
	AuthorizedParties []string `yaml:"authorizedParties"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Port:              "8080",
		LogLevel:          "info",
		RateLimitRequests: 100,
		RateLimitWindow:   "1m",
		DBMaxOpenConns:    25,
		DBMaxIdleConns:    5,
		Clerk: ClerkConfig{
			APIURL: "https://api.clerk.com",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.Clerk.JWKSURL == "" && cfg.Clerk.Issuer != "" {
		cfg.Clerk.JWKSURL = strings.TrimSuffix(cfg.Clerk.Issuer, "/") + "/.well-known/jwks.json"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CLERK_ISSUER"); v != "" {
		cfg.Clerk.Issuer = v
	}
	if v := os.Getenv("CLERK_JWKS_URL"); v != "" {
		cfg.Clerk.JWKSURL = v
	}
	if v := os.Getenv("CLERK_SECRET_KEY"); v != "" {
		cfg.Clerk.SecretKey = v
	}
	if v := os.Getenv("CLERK_API_URL"); v != "" {
		cfg.Clerk.APIURL = v
	}
	if v := os.Getenv("CLERK_PUBLISHABLE_KEY"); v != "" {
		cfg.Clerk.PublishableKey = v
	}
	if v := os.Getenv("CLERK_AUTHORIZED_PARTIES"); v != "" {
		cfg.Clerk.AuthorizedParties = splitCSV(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitRequests = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		cfg.RateLimitWindow = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitCSV(v)
	}
}

// Validate reports the first missing or malformed required value
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("config: port is required (set PORT)")
	}
	if c.DatabaseURL == "" {
		return errors.New("config: databaseURL is required (set DATABASE_URL)")
	}
	if c.Clerk.Issuer == "" {
		return errors.New("config: clerk.issuer is required (set CLERK_ISSUER)")
	}
	if c.Clerk.SecretKey == "" {
		return errors.New("config: clerk.secretKey is required (set CLERK_SECRET_KEY)")
	}
	if c.RedisAddr != "" {
		if c.RateLimitRequests <= 0 {
			return errors.New("config: rateLimitRequests must be positive")
		}
		if _, err := c.Window(); err != nil {
			return err
		}
	}
	return nil
}

// Window parses RateLimitWindow
func (c Config) Window() (time.Duration, error) {
	d, err := time.ParseDuration(c.RateLimitWindow)
	if err != nil {
		return 0, fmt.Errorf("config: invalid rateLimitWindow %q: %w", c.RateLimitWindow, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: rateLimitWindow must be positive")
	}
	return d, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
