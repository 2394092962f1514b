package weather

import "context"

// Provider abstracts the remote weather API (e.g. OpenWeatherMap).
type Provider interface {
	Name() string
	Current(ctx context.Context, q Query) (Result, error)
	Forecast(ctx context.Context, q Query) (Result, error)
}
