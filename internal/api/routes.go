package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// SetupRoutes registers the weather pages, the JSON API and the admin
// endpoints. Admin routes are disabled when adminUsers is empty.
func SetupRoutes(app *fiber.App, handler *Handler, adminUsers map[string]string, log *zap.Logger) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())

	app.Use(logger.New(logger.Config{
		Format:     "${time} ${pid} ${locals:requestid} ${status} - ${method} ${path}\n",
		TimeFormat: time.RFC3339,
	}))

	// Weather page
	app.Get("/weather/:city?/:country?", handler.GetWeatherPage)

	// API v1 routes
	api := app.Group("/api/v1")
	api.Get("/health", handler.GetHealth)
	api.Get("/weather/:city?/:country?", handler.GetWeather)

	// Admin
	admin := app.Group("/admin")
	if len(adminUsers) == 0 {
		log.Warn("Admin routes disabled, no admin credentials configured")
		admin.Use(func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusForbidden, "admin interface disabled")
		})
	} else {
		admin.Use(basicauth.New(basicauth.Config{
			Users: adminUsers,
			Realm: "current-weather",
		}))
		admin.Get("/settings", handler.GetSettings)
		admin.Post("/settings", handler.UpdateSettings)
	}

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
			"path":  c.Path(),
		})
	})
}
