package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Flights FlightsConfig `toml:"flights"`
	Cities  CitiesConfig  `toml:"cities"`
	Cache   CacheConfig   `toml:"cache"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port               int      `toml:"port"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
}

// FlightsConfig holds settings for the flight search endpoint.
type FlightsConfig struct {
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (c FlightsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CitiesConfig holds settings for city resolution.
type CitiesConfig struct {
	LookupURL      string `toml:"lookup_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	DBPath         string `toml:"db_path"`
}

// Timeout returns the lookup timeout as a duration.
func (c CitiesConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheConfig holds settings for the search result cache.
type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	RedisAddr  string `toml:"redis_addr"`
	Password   string `toml:"redis_password"`
	DB         int    `toml:"redis_db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL returns the cache entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			CORSAllowedOrigins: []string{"*"},
		},
		Flights: FlightsConfig{
			BaseURL:        "https://www.google.com/travel/flights",
			UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			TimeoutSeconds: 30,
		},
		Cities: CitiesConfig{
			LookupURL:      "",
			TimeoutSeconds: 15,
			DBPath:         "skyfare.db",
		},
		Cache: CacheConfig{
			Enabled:    false,
			RedisAddr:  "localhost:6379",
			TTLSeconds: 300,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the configuration from the given TOML file. Missing keys keep
// their defaults; a missing file yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Flights.BaseURL == "" {
		return fmt.Errorf("flights base_url must not be empty")
	}
	if c.Flights.TimeoutSeconds <= 0 {
		return fmt.Errorf("flights timeout_seconds must be positive")
	}
	if c.Cities.TimeoutSeconds <= 0 {
		return fmt.Errorf("cities timeout_seconds must be positive")
	}
	if c.Cache.Enabled && c.Cache.RedisAddr == "" {
		return fmt.Errorf("cache enabled but redis_addr is empty")
	}
	return nil
}
