package httpapi

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-display/internal/datefmt"
	"github.com/i474232898/weather-display/internal/session"
	"github.com/i474232898/weather-display/internal/weather"
)

// Handlers holds the dependencies shared by the page handlers.
type Handlers struct {
	service  *weather.Service
	sessions session.Store
	dates    *datefmt.Formatter
	logger   *slog.Logger
}

func NewHandlers(service *weather.Service, sessions session.Store, dates *datefmt.Formatter, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:  service,
		sessions: sessions,
		dates:    dates,
		logger:   logger,
	}
}

// RegisterRoutes wires the page handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, h *Handlers) {
	app.Get("/", h.index)
	app.Get("/forecast_days", h.forecast)
	app.Get("/settings/", h.settingsPage)
	app.Post("/settings/", h.saveSettings)
}

func (h *Handlers) index(c *fiber.Ctx) error {
	prefs, err := h.sessions.Load(c)
	if err != nil {
		return err
	}

	result, err := h.service.Current(c.UserContext(), prefs)
	if err != nil {
		h.logger.Error("current weather failed", "city", prefs.CityOrDefault(), "error", err)
		return err
	}

	return c.Render("index", fiber.Map{
		"weather":        result,
		"session":        prefs,
		"formatDatetime": h.dates.TemplateFunc(),
	}, layoutMain)
}

// forecast renders only the provider payload; the page gets neither the
// session nor the date helper.
func (h *Handlers) forecast(c *fiber.Ctx) error {
	prefs, err := h.sessions.Load(c)
	if err != nil {
		return err
	}

	result, err := h.service.Forecast(c.UserContext(), prefs)
	if err != nil {
		h.logger.Error("forecast failed", "city", prefs.CityOrDefault(), "error", err)
		return err
	}

	return c.Render("forecast", fiber.Map{
		"weather": result,
	}, layoutMain)
}
