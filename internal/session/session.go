// Package session stores visitor preferences in Fiber's session middleware.
package session

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"github.com/i474232898/weather-display/internal/weather"
)

const (
	keyCity  = "city"
	keyLang  = "lang"
	keyUnits = "units"
)

// Store gives handlers typed access to the per-visitor preferences.
type Store interface {
	Load(c *fiber.Ctx) (weather.Preferences, error)
	Save(c *fiber.Ctx, prefs weather.Preferences) error
}

// Config configures the session cookie and its backing storage.
type Config struct {
	Storage      fiber.Storage
	Expiration   time.Duration
	CookieName   string
	CookieSecure bool
}

// FiberStore implements Store on top of fiber's session middleware.
type FiberStore struct {
	sessions *fibersession.Store
}

var _ Store = (*FiberStore)(nil)

// New creates a FiberStore. A nil Storage uses fiber's in-process memory storage.
func New(cfg Config) *FiberStore {
	name := cfg.CookieName
	if name == "" {
		name = "weather_session"
	}
	return &FiberStore{
		sessions: fibersession.New(fibersession.Config{
			Storage:        cfg.Storage,
			Expiration:     cfg.Expiration,
			KeyLookup:      "cookie:" + name,
			CookieSecure:   cfg.CookieSecure,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
			KeyGenerator:   uuid.NewString,
		}),
	}
}

// Load returns the visitor's saved preferences. Missing or unrecognised
// values come back as the zero value.
func (s *FiberStore) Load(c *fiber.Ctx) (weather.Preferences, error) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return weather.Preferences{}, fmt.Errorf("load session: %w", err)
	}

	prefs := weather.Preferences{City: stringValue(sess.Get(keyCity))}
	if lang := weather.Lang(stringValue(sess.Get(keyLang))); lang.Valid() {
		prefs.Lang = lang
	}
	if units := weather.Units(stringValue(sess.Get(keyUnits))); units.Valid() {
		prefs.Units = units
	}
	return prefs, nil
}

// Save overwrites all three preferences and persists them in one write.
func (s *FiberStore) Save(c *fiber.Ctx, prefs weather.Preferences) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	sess.Set(keyCity, prefs.City)
	sess.Set(keyLang, string(prefs.Lang))
	sess.Set(keyUnits, string(prefs.Units))

	if err := sess.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}
