package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-display/internal/observability"
	"github.com/i474232898/weather-display/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

const (
	currentPath  = "/weather"
	forecastPath = "/forecast/daily"
)

var _ weather.Provider = (*OpenWeatherProvider)(nil)

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(cfg HTTPClientConfig, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  cfg.Client,
		circuit: newCircuitBreaker("openweather", cfg.Breaker),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Current calls the current weather endpoint.
func (p *OpenWeatherProvider) Current(ctx context.Context, q weather.Query) (weather.Result, error) {
	return p.fetch(ctx, "current", currentPath, q)
}

// Forecast calls the daily forecast endpoint. q.Count is sent as cnt.
func (p *OpenWeatherProvider) Forecast(ctx context.Context, q weather.Query) (weather.Result, error) {
	return p.fetch(ctx, "forecast", forecastPath, q)
}

func (p *OpenWeatherProvider) fetch(ctx context.Context, endpoint, path string, q weather.Query) (weather.Result, error) {
	start := time.Now()

	resp, err := doRequest(ctx, p.client, p.circuit, func(ctx context.Context) (*http.Request, error) {
		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, queryValues(q).Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	})
	if err != nil {
		observability.ObserveProviderCall(p.name, endpoint, "transport_error", time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()

	// Error statuses still carry a JSON body ({"cod":401,"message":...})
	// which is handed to the page as-is.
	var payload weather.Result
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		observability.ObserveProviderCall(p.name, endpoint, "decode_error", time.Since(start))
		return nil, fmt.Errorf("decode %s response (status %d): %w", endpoint, resp.StatusCode, err)
	}

	observability.ObserveProviderCall(p.name, endpoint, "status_"+strconv.Itoa(resp.StatusCode), time.Since(start))
	return payload, nil
}

// queryValues maps q to OpenWeatherMap parameters. Unset units and lang are
// omitted rather than sent empty.
func queryValues(q weather.Query) url.Values {
	values := url.Values{}
	values.Set("q", q.City)
	values.Set("appid", q.APIKey)
	if q.Units != "" {
		values.Set("units", string(q.Units))
	}
	if q.Lang != "" {
		values.Set("lang", string(q.Lang))
	}
	if q.Count > 0 {
		values.Set("cnt", strconv.Itoa(q.Count))
	}
	return values
}
