package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config represents service configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"VOLTPOINT_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"VOLTPOINT_POSTGRES_DSN"`
	} `yaml:"database"`
	JWT struct {
		Secret           string `yaml:"secret" env:"VOLTPOINT_JWT_SECRET"`
		ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"VOLTPOINT_JWT_EXPIRES_MINUTES"`
	} `yaml:"jwt"`
	Redis struct {
		Addr           string `yaml:"addr" env:"VOLTPOINT_REDIS_ADDR"`
		Password       string `yaml:"password" env:"VOLTPOINT_REDIS_PASSWORD"`
		ListTTLSeconds int    `yaml:"listTtlSeconds" env:"VOLTPOINT_STATIONS_CACHE_TTL_SECONDS"`
	} `yaml:"redis"`
}

// Load reads configuration from the optional YAML file plus env overrides and
// validates required values. Redis is optional: an empty addr disables the
// station list cache.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.JWT.ExpiresInMinutes = 60
	cfg.Redis.ListTTLSeconds = 60

	if err := hydrate(cfg); err != nil {
		return nil, err
	}

	if cfg.Database.DSN == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	if cfg.JWT.ExpiresInMinutes <= 0 {
		cfg.JWT.ExpiresInMinutes = 60
	}
	if cfg.Redis.ListTTLSeconds <= 0 {
		cfg.Redis.ListTTLSeconds = 60
	}

	return cfg, nil
}

// HTTPAddress ensures we always return a host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresInMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}

// CacheEnabled reports whether the station list cache should be wired.
func (c *Config) CacheEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}

// CacheTTL returns the station list cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.ListTTLSeconds) * time.Second
}
