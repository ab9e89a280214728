package api

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/current-weather/internal/models"
	"github.com/bobby-s-dev/current-weather/internal/services"
	"github.com/bobby-s-dev/current-weather/internal/settings"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/weather.html"))

type Handler struct {
	weather  *services.WeatherFactory
	settings *settings.Service
	tags     *services.CacheTags
	logger   *zap.Logger
}

// NewHandler wires the handler and invalidates the weather cache tag on every
// settings change.
func NewHandler(weather *services.WeatherFactory, store *settings.Service, tags *services.CacheTags, logger *zap.Logger) *Handler {
	store.Subscribe(func(models.Settings) {
		tags.Invalidate(services.WeatherCacheTag)
	})

	return &Handler{
		weather:  weather,
		settings: store,
		tags:     tags,
		logger:   logger,
	}
}

// GetWeatherPage handles GET /weather/:city?/:country?
func (h *Handler) GetWeatherPage(c *fiber.Ctx) error {
	result := h.fetch(c)

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, result); err != nil {
		return err
	}

	h.setCacheHeaders(c)
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// GetWeather handles GET /api/v1/weather/:city?/:country?
func (h *Handler) GetWeather(c *fiber.Ctx) error {
	result := h.fetch(c)

	h.setCacheHeaders(c)
	return c.JSON(result)
}

func (h *Handler) fetch(c *fiber.Ctx) *models.WeatherResult {
	city := pathParam(c, "city")
	country := pathParam(c, "country")

	result, err := h.weather.Fetch(c.UserContext(), city, country)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrUpstreamFailure):
		// details were logged by the service
	default:
		h.logger.Warn("Weather request rejected",
			zap.String("city", city),
			zap.String("country", country),
			zap.Error(err))
	}
	return result
}

func (h *Handler) setCacheHeaders(c *fiber.Ctx) {
	c.Set("Cache-Tag", services.WeatherCacheTag)
	c.Set("X-Cache-Revision", strconv.FormatUint(h.tags.Revision(services.WeatherCacheTag), 10))
}

// GetSettings handles GET /admin/settings
func (h *Handler) GetSettings(c *fiber.Ctx) error {
	return c.JSON(h.settings.Current().Masked())
}

// UpdateSettings handles POST /admin/settings
func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	var input models.Settings
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	saved, err := h.settings.Update(c.UserContext(), input)
	if err != nil {
		var verr *settings.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Invalid settings",
				"fields": verr.Fields,
			})
		}

		h.logger.Error("Failed to save settings", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save settings")
	}

	return c.JSON(saved.Masked())
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":           "healthy",
		"timestamp":        time.Now(),
		"uptime":           time.Since(startTime).String(),
		"settings_updated": h.settings.Current().UpdatedAt,
		"cache_tags":       h.tags.GetStats(),
	})
}

func pathParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

var startTime = time.Now()
