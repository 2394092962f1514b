package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_PATH", "OPEN_WEATHER_API_KEY", "OPEN_WEATHER_BASE_URL", "PORT", "HTTP_TIMEOUT",
		"DISPLAY_LOCALE", "DISPLAY_TIMEZONE", "SESSION_BACKEND", "SESSION_VALKEY_ADDR",
		"SESSION_EXPIRATION", "SESSION_COOKIE_NAME", "SESSION_COOKIE_SECURE",
		"BREAKER_MAX_FAILURES", "BREAKER_OPEN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Empty(t, cfg.OpenWeatherAPIKey)
	require.Equal(t, "https://api.openweathermap.org/data/2.5", cfg.OpenWeatherBaseURL)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "hr", cfg.DisplayLocale)
	require.Zero(t, cfg.HTTPTimeout)
	require.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	require.Equal(t, "weather_session", cfg.Session.CookieName)
	require.Equal(t, 720*time.Hour, cfg.Session.Expiration)
	require.EqualValues(t, 5, cfg.Breaker.MaxFailures)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPEN_WEATHER_API_KEY", "secret")
	t.Setenv("PORT", "9000")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("DISPLAY_LOCALE", "DE")
	t.Setenv("DISPLAY_TIMEZONE", "UTC")
	t.Setenv("SESSION_BACKEND", "valkey")
	t.Setenv("SESSION_VALKEY_ADDR", "cache:6379")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("BREAKER_MAX_FAILURES", "3")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "secret", cfg.OpenWeatherAPIKey)
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	require.Equal(t, "de", cfg.DisplayLocale)
	require.Equal(t, SessionBackendValkey, cfg.Session.Backend)
	require.Equal(t, "cache:6379", cfg.Session.ValkeyAddr)
	require.True(t, cfg.Session.CookieSecure)
	require.EqualValues(t, 3, cfg.Breaker.MaxFailures)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, "UTC", loc.String())
}

func TestLoadFromYAMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
openWeatherApiKey: from-file
port: "7070"
displayLocale: en
session:
  expiration: 1h
  cookieName: prefs
breaker:
  openTimeout: 10s
`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "7071")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.OpenWeatherAPIKey)
	require.Equal(t, "7071", cfg.Port)
	require.Equal(t, "en", cfg.DisplayLocale)
	require.Equal(t, time.Hour, cfg.Session.Expiration)
	require.Equal(t, "prefs", cfg.Session.CookieName)
	require.Equal(t, 10*time.Second, cfg.Breaker.OpenTimeout)
}

func TestLoadEmptyEnvKeepsFileValues(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
openWeatherApiKey: from-file
breaker:
  maxFailures: 8
`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("OPEN_WEATHER_API_KEY", "")
	t.Setenv("BREAKER_MAX_FAILURES", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.OpenWeatherAPIKey)
	require.EqualValues(t, 8, cfg.Breaker.MaxFailures)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"locale", "DISPLAY_LOCALE", "fr"},
		{"session backend", "SESSION_BACKEND", "postgres"},
		{"http timeout", "HTTP_TIMEOUT", "soon"},
		{"timezone", "DISPLAY_TIMEZONE", "Mars/Olympus"},
		{"breaker failures not a number", "BREAKER_MAX_FAILURES", "many"},
		{"breaker failures negative", "BREAKER_MAX_FAILURES", "-1"},
		{"breaker failures overflow", "BREAKER_MAX_FAILURES", "99999999999"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadBreakerFailuresErrorNamesVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("BREAKER_MAX_FAILURES", "4294967296")

	_, err := Load()
	require.ErrorContains(t, err, "invalid BREAKER_MAX_FAILURES")
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}
