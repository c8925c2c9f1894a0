package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
	"your-super-secret-key-that-is-at-least-256-bits-long",
}

type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	// RedisURL is optional. When set, rate-limit windows are shared
	// across processes; when empty they are process-local.
	RedisURL string `env:"REDIS_URL"`

	JWTSecret     string `env:"JWT_SECRET" envDefault:"your-super-secret-key-that-is-at-least-256-bits-long"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"EcommerceMM"`
	JWTAudience   string `env:"JWT_AUDIENCE" envDefault:"EcommerceMM"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS" envDefault:"168"`

	// Global policy: all API traffic, keyed by identity or Host.
	GlobalRateLimit         int `env:"GLOBAL_RATE_LIMIT" envDefault:"100"`
	GlobalRateWindowSeconds int `env:"GLOBAL_RATE_WINDOW_SECONDS" envDefault:"60"`
	// Auth policy: login attempts, keyed by source address.
	AuthRateLimit         int `env:"AUTH_RATE_LIMIT" envDefault:"10"`
	AuthRateWindowSeconds int `env:"AUTH_RATE_WINDOW_SECONDS" envDefault:"300"`

	LoginFailDelayMillis int `env:"LOGIN_FAIL_DELAY_MILLIS" envDefault:"1000"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c *Config) GlobalRateWindow() time.Duration {
	return time.Duration(c.GlobalRateWindowSeconds) * time.Second
}

func (c *Config) AuthRateWindow() time.Duration {
	return time.Duration(c.AuthRateWindowSeconds) * time.Second
}

// LoginFailDelay is the artificial latency added to failed logins so
// that timing cannot reveal whether a username exists.
func (c *Config) LoginFailDelay() time.Duration {
	return time.Duration(c.LoginFailDelayMillis) * time.Millisecond
}

func (c *Config) Validate(isProduction bool) error {
	if c.TokenTTLHours <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive")
	}
	if c.GlobalRateLimit <= 0 || c.AuthRateLimit <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}

	if isProduction {
		if err := validateSecret("JWT_SECRET", c.JWTSecret); err != nil {
			return err
		}
		if c.RedisURL == "" {
			log.Warn().Msg("REDIS_URL is empty in production: rate-limit windows are per-process and reset on restart")
		} else if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
