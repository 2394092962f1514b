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

const defaultConfigPath = "configs/config.yaml"

type AppConfig struct {
	// OpenWeatherAPIKey is sent as appid on every provider call. It is read
	// once and never validated locally.
	OpenWeatherAPIKey  string `yaml:"openWeatherApiKey"`
	OpenWeatherBaseURL string `yaml:"openWeatherBaseUrl"`

	// HTTPTimeout bounds outbound provider calls (0 = no timeout).
	HTTPTimeout time.Duration `yaml:"httpTimeout"`

	Port string `yaml:"port"`

	// DisplayLocale selects the language of weekday names rendered by the date helper.
	DisplayLocale   string `yaml:"displayLocale"`
	DisplayTimezone string `yaml:"displayTimezone"`

	Session SessionConfig `yaml:"session"`
	Breaker BreakerConfig `yaml:"breaker"`
}

// SessionConfig selects where visitor preferences live.
type SessionConfig struct {
	Backend      string        `yaml:"backend"` // memory or valkey
	ValkeyAddr   string        `yaml:"valkeyAddr"`
	Expiration   time.Duration `yaml:"expiration"`
	CookieName   string        `yaml:"cookieName"`
	CookieSecure bool          `yaml:"cookieSecure"`
}

// BreakerConfig tunes the circuit breaker around provider calls.
type BreakerConfig struct {
	MaxFailures uint32        `yaml:"maxFailures"`
	OpenTimeout time.Duration `yaml:"openTimeout"`
}

const (
	SessionBackendMemory = "memory"
	SessionBackendValkey = "valkey"
)

// Load reads configuration from an optional YAML file and the environment,
// with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(defaultConfigPath); err == nil {
		if err := hydrateFromFile(cfg, defaultConfigPath); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		OpenWeatherBaseURL: "https://api.openweathermap.org/data/2.5",
		Port:               "8080",
		DisplayLocale:      "hr",
		DisplayTimezone:    "Local",
		Session: SessionConfig{
			Backend:    SessionBackendMemory,
			ValkeyAddr: "127.0.0.1:6379",
			Expiration: 30 * 24 * time.Hour,
			CookieName: "weather_session",
		},
		Breaker: BreakerConfig{
			MaxFailures: 5,
			OpenTimeout: 30 * time.Second,
		},
	}
}

func hydrateFromFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *AppConfig) error {
	cfg.OpenWeatherAPIKey = getenvDefault("OPEN_WEATHER_API_KEY", cfg.OpenWeatherAPIKey)
	cfg.OpenWeatherBaseURL = getenvDefault("OPEN_WEATHER_BASE_URL", cfg.OpenWeatherBaseURL)
	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.DisplayLocale = strings.ToLower(getenvDefault("DISPLAY_LOCALE", cfg.DisplayLocale))
	cfg.DisplayTimezone = getenvDefault("DISPLAY_TIMEZONE", cfg.DisplayTimezone)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return err
	}

	cfg.Session.Backend = strings.ToLower(getenvDefault("SESSION_BACKEND", cfg.Session.Backend))
	cfg.Session.ValkeyAddr = getenvDefault("SESSION_VALKEY_ADDR", cfg.Session.ValkeyAddr)
	cfg.Session.CookieName = getenvDefault("SESSION_COOKIE_NAME", cfg.Session.CookieName)
	if cfg.Session.Expiration, err = getenvDuration("SESSION_EXPIRATION", cfg.Session.Expiration); err != nil {
		return err
	}
	if v := os.Getenv("SESSION_COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_COOKIE_SECURE: %w", err)
		}
		cfg.Session.CookieSecure = secure
	}

	if cfg.Breaker.MaxFailures, err = getenvUint32("BREAKER_MAX_FAILURES", cfg.Breaker.MaxFailures); err != nil {
		return err
	}
	if cfg.Breaker.OpenTimeout, err = getenvDuration("BREAKER_OPEN_TIMEOUT", cfg.Breaker.OpenTimeout); err != nil {
		return err
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *AppConfig) Validate() error {
	switch c.DisplayLocale {
	case "hr", "en", "de":
	default:
		return fmt.Errorf("unsupported display locale %q", c.DisplayLocale)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid display timezone: %w", err)
	}
	switch c.Session.Backend {
	case SessionBackendMemory:
	case SessionBackendValkey:
		if c.Session.ValkeyAddr == "" {
			return errors.New("session valkey address is required")
		}
	default:
		return fmt.Errorf("unsupported session backend %q", c.Session.Backend)
	}
	if c.Session.CookieName == "" {
		return errors.New("session cookie name is required")
	}
	if c.HTTPTimeout < 0 || c.Session.Expiration < 0 || c.Breaker.OpenTimeout < 0 {
		return errors.New("durations must not be negative")
	}
	if c.Port == "" {
		return errors.New("port is required")
	}
	return nil
}

// Location resolves DisplayTimezone.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.DisplayTimezone == "" || strings.EqualFold(c.DisplayTimezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.DisplayTimezone)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvUint32(key string, def uint32) (uint32, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return uint32(n), nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
