package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var errNoProvider = errors.New("no weather provider configured")

// Service turns visitor preferences into provider calls.
type Service struct {
	provider Provider
	apiKey   string
	logger   *slog.Logger
}

// NewService creates a new Service. apiKey is passed to the provider verbatim
// on every call; an empty key is not rejected here.
func NewService(provider Provider, apiKey string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		apiKey:   apiKey,
		logger:   logger,
	}
}

// Current fetches the current conditions for the visitor's city.
func (s *Service) Current(ctx context.Context, prefs Preferences) (Result, error) {
	if s.provider == nil {
		return nil, errNoProvider
	}
	q := NewQuery(prefs, s.apiKey)
	s.logger.Debug("fetching current weather", "provider", s.provider.Name(), "city", q.City)

	res, err := s.provider.Current(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("current weather for %q: %w", q.City, err)
	}
	return res, nil
}

// Forecast fetches the daily forecast for the visitor's city, always
// ForecastDays long.
func (s *Service) Forecast(ctx context.Context, prefs Preferences) (Result, error) {
	if s.provider == nil {
		return nil, errNoProvider
	}
	q := NewQuery(prefs, s.apiKey)
	q.Count = ForecastDays
	s.logger.Debug("fetching forecast", "provider", s.provider.Name(), "city", q.City, "days", q.Count)

	res, err := s.provider.Forecast(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("forecast for %q: %w", q.City, err)
	}
	return res, nil
}
