package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/current-weather/internal/models"
)

const (
	DefaultAPIEndpoint    = "https://api.openweathermap.org/data/2.5/weather"
	DefaultCountryInfoURL = "https://restcountries.com/v2/alpha"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	// Weather holds the defaults used to seed the settings store on first start.
	Weather struct {
		CityName    string
		CountryCode string
		APIEndpoint string
		APIKey      string
	}

	CountryInfo struct {
		URL string
	}

	HTTP struct {
		Timeout time.Duration
	}

	CircuitBreaker struct {
		Threshold int
		Timeout   time.Duration
	}

	Settings struct {
		Driver string
		DSN    string
	}

	Admin struct {
		User     string
		Password string
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", "10s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.Weather.CityName = getEnv("WEATHER_CITY_NAME", "")
	cfg.Weather.CountryCode = getEnv("WEATHER_COUNTRY_CODE", "")
	cfg.Weather.APIEndpoint = getEnv("OPENWEATHER_API_ENDPOINT", DefaultAPIEndpoint)
	cfg.Weather.APIKey = getEnv("OPENWEATHER_API_KEY", "")

	cfg.CountryInfo.URL = getEnv("COUNTRY_INFO_URL", DefaultCountryInfoURL)

	cfg.HTTP.Timeout = parseDuration(getEnv("HTTP_TIMEOUT", "10s"))
	if cfg.HTTP.Timeout <= 0 {
		// outbound calls must stay bounded
		cfg.HTTP.Timeout = 10 * time.Second
	}

	cfg.CircuitBreaker.Threshold = parseInt(getEnv("CIRCUIT_BREAKER_THRESHOLD", "3"))
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	cfg.Settings.Driver = getEnv("SETTINGS_DRIVER", "sqlite")
	cfg.Settings.DSN = getEnv("SETTINGS_DSN", "current_weather.db")

	cfg.Admin.User = getEnv("ADMIN_USER", "admin")
	cfg.Admin.Password = getEnv("ADMIN_PASSWORD", "")

	return cfg, nil
}

// DefaultSettings returns the settings used when the store is still empty.
func (c *Config) DefaultSettings() models.Settings {
	return models.Settings{
		CityName:    c.Weather.CityName,
		CountryCode: c.Weather.CountryCode,
		APIEndpoint: c.Weather.APIEndpoint,
		APIKey:      c.Weather.APIKey,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}
