package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "parklane/libs/config"
)

// Config defines the parklane service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"PARKLANE_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"PARKLANE_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"PARKLANE_REDIS_ADDR"`
		Password string `yaml:"password" env:"PARKLANE_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"PARKLANE_REDIS_DB"`
		TTL      int    `yaml:"ttlSeconds" env:"PARKLANE_REDIS_TTL"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwtSecret" env:"PARKLANE_JWT_SECRET"`
	} `yaml:"auth"`
}

// Load reads configuration via the shared helper. Redis is optional; the
// database DSN and JWT secret are not.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.TTL = 86400

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
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

// ActiveSessionTTL returns the redis cache ttl as duration.
func (c *Config) ActiveSessionTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}
