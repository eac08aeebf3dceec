package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"reverseip/internal/clientip"
	apperr "reverseip/internal/errors"
)

// ─── struct ───────────────────────────────────────────────────────────────────

// Config holds all runtime configuration for the diagnostic server.
type Config struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps"` // 0 disables limiting
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	LimiterIdleTTL  time.Duration `yaml:"limiter_idle_ttl"`
	TrustedProxies  []string      `yaml:"trusted_proxies"`
	Title           string        `yaml:"title"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`
}

// ─── defaults ─────────────────────────────────────────────────────────────────

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		Port:            "3000",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		RateLimitRPS:    5,
		RateLimitBurst:  10,
		LimiterIdleTTL:  time.Hour,
		Title:           "PublicIP.org",
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// ─── load ─────────────────────────────────────────────────────────────────────

// Load merges the YAML file at path (if any) onto the defaults, then applies
// environment overrides and validates the result. An empty path or a
// missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.Title = getEnv("SITE_TITLE", c.Title)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		c.TrustedProxies = strings.Split(proxies, ",")
	}
	if v := getEnv("RATE_LIMIT_RPS", ""); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return apperr.Config("RATE_LIMIT_RPS", err.Error())
		}
		c.RateLimitRPS = rps
	}
	if v := getEnv("RATE_LIMIT_BURST", ""); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return apperr.Config("RATE_LIMIT_BURST", err.Error())
		}
		c.RateLimitBurst = burst
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// ─── validate ─────────────────────────────────────────────────────────────────

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return apperr.Config("port", fmt.Sprintf("%q is not a TCP port", c.Port))
	}
	if c.RateLimitRPS < 0 {
		return apperr.Config("rate_limit_rps", "must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return apperr.Config("rate_limit_burst", "must be at least 1 when rate limiting is enabled")
	}
	for name, d := range map[string]time.Duration{
		"read_timeout":     c.ReadTimeout,
		"write_timeout":    c.WriteTimeout,
		"idle_timeout":     c.IdleTimeout,
		"shutdown_timeout": c.ShutdownTimeout,
		"limiter_idle_ttl": c.LimiterIdleTTL,
	} {
		if d <= 0 {
			return apperr.Config(name, "must be positive")
		}
	}
	if _, err := clientip.NewResolver(c.TrustedProxies); err != nil {
		return apperr.Config("trusted_proxies", err.Error())
	}
	return nil
}
