package observability

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_display_http_requests_total",
			Help: "Total requests by route, method, and status.",
		},
		[]string{"route", "method", "status"},
	)

	providerCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_display_provider_requests_total",
			Help: "Outbound weather provider calls by provider, endpoint, and outcome.",
		},
		[]string{"provider", "endpoint", "outcome"},
	)

	providerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_display_provider_request_duration_seconds",
			Help:    "Latency of outbound weather provider calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "endpoint"},
	)
)

func init() { prometheus.MustRegister(requestCounter, providerCounter, providerLatency) }

// ObserveProviderCall records one outbound provider call.
func ObserveProviderCall(provider, endpoint, outcome string, took time.Duration) {
	providerCounter.WithLabelValues(provider, endpoint, outcome).Inc()
	providerLatency.WithLabelValues(provider, endpoint).Observe(took.Seconds())
}

// Middleware counts every request by its matched route pattern.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				status = e.Code
			}
		}
		requestCounter.WithLabelValues(c.Route().Path, c.Method(), strconv.Itoa(status)).Inc()
		return err
	}
}

// Handler exposes the default Prometheus registry.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
