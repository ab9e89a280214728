package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/current-weather/internal/config"
	"github.com/bobby-s-dev/current-weather/internal/models"
	"github.com/bobby-s-dev/current-weather/pkg/client"
)

// SettingsSource supplies the current configuration snapshot.
type SettingsSource interface {
	Current() models.Settings
}

// WeatherFactory owns the long-lived upstream clients and builds a fresh
// WeatherService for every page view.
type WeatherFactory struct {
	settings SettingsSource
	weather  WeatherClient
	flags    FlagClient
	logger   *zap.Logger
}

func NewWeatherFactory(cfg *config.Config, settings SettingsSource, logger *zap.Logger) *WeatherFactory {
	clientConfig := client.ClientConfig{
		Timeout:        cfg.HTTP.Timeout,
		Threshold:      cfg.CircuitBreaker.Threshold,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}

	weather := client.NewOpenWeatherClient(clientConfig, logger)
	flags := client.NewCountryClient(cfg.CountryInfo.URL, clientConfig, logger)
	logger.Info("Weather clients initialized",
		zap.String("country_info_url", cfg.CountryInfo.URL),
		zap.Duration("timeout", cfg.HTTP.Timeout))

	return NewWeatherFactoryWithClients(settings, weather, flags, logger)
}

func NewWeatherFactoryWithClients(settings SettingsSource, weather WeatherClient, flags FlagClient, logger *zap.Logger) *WeatherFactory {
	return &WeatherFactory{
		settings: settings,
		weather:  weather,
		flags:    flags,
		logger:   logger,
	}
}

// NewService builds a WeatherService from the current settings.
func (f *WeatherFactory) NewService() *WeatherService {
	return NewWeatherService(f.settings.Current(), f.weather, f.flags, f.logger)
}

// Fetch runs one fetch, applying the city/country override when city is
// non-empty.
func (f *WeatherFactory) Fetch(ctx context.Context, cityName, countryCode string) (*models.WeatherResult, error) {
	svc := f.NewService()
	if cityName != "" {
		svc.SetQueryParameters(cityName, countryCode)
	}

	start := time.Now()
	result, err := svc.FetchCurrentWeather(ctx)
	f.logger.Debug("Weather fetch completed",
		zap.String("city", svc.CityName()),
		zap.String("country", svc.CountryCode()),
		zap.Stringer("status", result.Status),
		zap.Duration("duration", time.Since(start)))

	return result, err
}
